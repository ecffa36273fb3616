package trip_catalog

import (
	"context"
	"fmt"

	"github.com/mofussil/mofussil/pkg/database"
	"github.com/mofussil/mofussil/pkg/rbdf"
	"go.mongodb.org/mongo-driver/bson"
)

// Catalog serves read-only trip queries from the trips collection. Every
// returned Trip carries its full ordered visit list - a partial list is a
// contract violation, so decode failures surface as catalog errors rather
// than silently thin trips.
type Catalog struct{}

func (c Catalog) TripsStartingAt(ctx context.Context, standRef string) ([]*rbdf.Trip, error) {
	return c.find(ctx, bson.M{"visits.0.standref": standRef})
}

func (c Catalog) TripsEndingAt(ctx context.Context, standRef string) ([]*rbdf.Trip, error) {
	return c.find(ctx, bson.M{
		"$expr": bson.M{
			"$eq": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$visits.standref", -1}},
				standRef,
			},
		},
	})
}

func (c Catalog) TripsVisiting(ctx context.Context, standRef string) ([]*rbdf.Trip, error) {
	return c.find(ctx, bson.M{"visits.standref": standRef})
}

func (c Catalog) TripsBetweenStands(ctx context.Context, fromStandRef string, toStandRef string) ([]*rbdf.Trip, error) {
	return c.find(ctx, bson.M{
		"$and": bson.A{
			bson.M{"visits.standref": fromStandRef},
			bson.M{"visits.standref": toStandRef},
		},
	})
}

func (c Catalog) find(ctx context.Context, filter bson.M) ([]*rbdf.Trip, error) {
	tripsCollection := database.GetCollection("trips")

	cursor, err := tripsCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("trips query: %w", rbdf.ErrCatalogUnavailable)
	}

	trips := []*rbdf.Trip{}
	for cursor.Next(ctx) {
		var trip *rbdf.Trip
		if err := cursor.Decode(&trip); err != nil {
			return nil, fmt.Errorf("decode trip: %w", rbdf.ErrCatalogUnavailable)
		}

		trips = append(trips, trip)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("trips cursor: %w", rbdf.ErrCatalogUnavailable)
	}

	return trips, nil
}
