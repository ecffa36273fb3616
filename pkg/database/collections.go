package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createIndexes() {
	createPlacesIndexes()
	createStandsIndexes()
	createTripsIndexes()
}

func createPlacesIndexes() {
	placesCollection := GetCollection("places")
	placesIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "searchname", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := placesCollection.Indexes().CreateMany(context.Background(), placesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createStandsIndexes() {
	standsCollection := GetCollection("stands")
	standsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "placeref", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "location.coordinates", Value: "2d"}},
		},
	}

	opts := options.CreateIndexes()
	_, err := standsCollection.Indexes().CreateMany(context.Background(), standsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createTripsIndexes() {
	tripsCollection := GetCollection("trips")
	tripsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "visits.standref", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "visits.0.standref", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "datasource.dataset", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := tripsCollection.Indexes().CreateMany(context.Background(), tripsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
