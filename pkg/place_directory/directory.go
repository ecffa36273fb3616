package place_directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/mofussil/mofussil/pkg/database"
	"github.com/mofussil/mofussil/pkg/rbdf"
	"github.com/mofussil/mofussil/pkg/util"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Directory resolves rider-facing place names into concrete boarding
// stands. Unknown names come back as an empty slice, never an error -
// callers distinguish "no routes" from "no such place" further up.
type Directory struct{}

func (d Directory) StandsByPlaceName(ctx context.Context, name string) ([]*rbdf.Stand, error) {
	place, err := d.findPlaceByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if place == nil {
		return []*rbdf.Stand{}, nil
	}

	return d.StandsByPlace(ctx, place.PrimaryIdentifier)
}

func (d Directory) StandsByPlace(ctx context.Context, placeRef string) ([]*rbdf.Stand, error) {
	standsCollection := database.GetCollection("stands")

	opts := options.Find().SetSort(bson.M{"primaryidentifier": 1})
	cursor, err := standsCollection.Find(ctx, bson.M{"placeref": placeRef}, opts)
	if err != nil {
		return nil, fmt.Errorf("stands for place %s: %w", placeRef, rbdf.ErrDirectoryUnavailable)
	}

	stands := []*rbdf.Stand{}
	for cursor.Next(ctx) {
		var stand *rbdf.Stand
		if err := cursor.Decode(&stand); err != nil {
			return nil, fmt.Errorf("decode stand: %w", rbdf.ErrDirectoryUnavailable)
		}

		stands = append(stands, stand)
	}

	return stands, nil
}

// FindPlaceByName exposes the directory's name resolution for the API's
// place search endpoint.
func (d Directory) FindPlaceByName(ctx context.Context, name string) (*rbdf.Place, error) {
	return d.findPlaceByName(ctx, name)
}

func (d Directory) findPlaceByName(ctx context.Context, name string) (*rbdf.Place, error) {
	searchName := util.NormaliseSearchName(name)
	if searchName == "" {
		return nil, nil
	}

	placesCollection := database.GetCollection("places")

	var place *rbdf.Place
	err := placesCollection.FindOne(ctx, bson.M{"searchname": searchName}).Decode(&place)
	if err == nil {
		return place, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find place %s: %w", searchName, rbdf.ErrDirectoryUnavailable)
	}

	// No exact match - fall back to the prefix search index when
	// Elasticsearch is connected
	identifier, esErr := searchPlaceIndex(ctx, searchName)
	if esErr != nil || identifier == "" {
		return nil, nil
	}

	err = placesCollection.FindOne(ctx, bson.M{"primaryidentifier": identifier}).Decode(&place)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}

		return nil, fmt.Errorf("find place %s: %w", identifier, rbdf.ErrDirectoryUnavailable)
	}

	return place, nil
}
