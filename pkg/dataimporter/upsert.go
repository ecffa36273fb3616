package dataimporter

import (
	"context"

	"github.com/mofussil/mofussil/pkg/database"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const upsertBatchSize = 2000

// upsertRecords replaces-or-inserts documents keyed on primaryidentifier,
// batched so large timetables do not build one enormous bulk write.
func upsertRecords[T any](collectionName string, identifier func(record T) string, records []T) {
	collection := database.GetCollection(collectionName)

	var operations []mongo.WriteModel

	flush := func() {
		if len(operations) == 0 {
			return
		}

		_, err := collection.BulkWrite(context.Background(), operations)
		if err != nil {
			log.Fatal().Err(err).Str("collection", collectionName).Msg("Failed to bulk write")
		}

		operations = nil
	}

	for _, record := range records {
		replaceModel := mongo.NewReplaceOneModel()
		replaceModel.SetFilter(bson.M{"primaryidentifier": identifier(record)})
		replaceModel.SetReplacement(record)
		replaceModel.SetUpsert(true)

		operations = append(operations, replaceModel)

		if len(operations) >= upsertBatchSize {
			flush()
		}
	}

	flush()

	log.Info().Str("collection", collectionName).Int("records", len(records)).Msg("Upserted records")
}
