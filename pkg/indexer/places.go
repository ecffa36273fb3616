package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/mofussil/mofussil/pkg/database"
	"github.com/mofussil/mofussil/pkg/elastic_client"
	"github.com/mofussil/mofussil/pkg/rbdf"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
)

// IndexPlaces rebuilds the place-name search index the directory uses for
// prefix matching. Each run writes a timestamped index and removes the
// previous ones once it finishes.
func IndexPlaces() {
	indexName := fmt.Sprintf("mofussil-places-%d", time.Now().Unix())

	createPlaceIndex(indexName)
	indexPlacesFromMongo(indexName)

	deleteOldIndexes("mofussil-places-*", indexName)
}

func createPlaceIndex(indexName string) {
	mapping := `{
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 1
		},
		"mappings": {
			"properties": {
				"PrimaryIdentifier": {
					"type": "text",
					"fields": {
						"keyword": {
							"type": "keyword",
							"ignore_above": 256
						}
					}
				},
				"Name": {
					"type": "text",
					"fields": {
						"keyword": {
							"type": "keyword",
							"ignore_above": 256
						},
						"search_as_you_type": {
							"type": "search_as_you_type"
						}
					}
				},
				"District": {
					"type": "text",
					"fields": {
						"keyword": {
							"type": "keyword",
							"ignore_above": 256
						}
					}
				},
				"StandNames": {
					"type": "text",
					"fields": {
						"keyword": {
							"type": "keyword",
							"ignore_above": 256
						}
					}
				}
			}
		}
	}`

	indexReq := esapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(mapping),
	}

	resp, err := indexReq.Do(context.Background(), elastic_client.Client)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create index")
	}

	if resp.IsError() {
		log.Fatal().Str("status", resp.Status()).Msg("Failed to create index")
	}
}

func indexPlacesFromMongo(indexName string) {
	placesCollection := database.GetCollection("places")
	standsCollection := database.GetCollection("stands")

	cursor, _ := placesCollection.Find(context.Background(), bson.M{})

	for cursor.Next(context.Background()) {
		var place *rbdf.Place
		cursor.Decode(&place)

		var standNames []string
		standsCursor, err := standsCollection.Find(context.Background(), bson.M{"placeref": place.PrimaryIdentifier})
		if err == nil {
			for standsCursor.Next(context.Background()) {
				var stand *rbdf.Stand
				if standsCursor.Decode(&stand) == nil {
					standNames = append(standNames, stand.Name)
				}
			}
		}

		jsonPlace, _ := json.Marshal(map[string]interface{}{
			"PrimaryIdentifier": place.PrimaryIdentifier,
			"Name":              place.Name,
			"District":          place.District,
			"StandNames":        standNames,
		})

		elastic_client.IndexRequest(indexName, bytes.NewReader(jsonPlace))
	}

	log.Info().Msg("Sent all index requests to queue")
}

func deleteOldIndexes(indexWildcard string, indexName string) {
	catReq := esapi.CatIndicesRequest{
		Index:  []string{indexWildcard},
		Format: "json",
	}

	resp, err := catReq.Do(context.Background(), elastic_client.Client)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list index")
	}

	var indexes []struct {
		Index string `json:"index"`
	}

	responseBytes, _ := io.ReadAll(resp.Body)
	json.Unmarshal(responseBytes, &indexes)

	for _, index := range indexes {
		if index.Index != indexName {
			deleteReq := esapi.IndicesDeleteRequest{
				Index: []string{index.Index},
			}

			deleteReq.Do(context.Background(), elastic_client.Client)

			log.Info().Str("index", index.Index).Msg("Delete old index")
		}
	}
}
