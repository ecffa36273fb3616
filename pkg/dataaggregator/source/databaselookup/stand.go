package databaselookup

import (
	"context"
	"errors"

	"github.com/mofussil/mofussil/pkg/database"
	"github.com/mofussil/mofussil/pkg/dataaggregator/query"
	"github.com/mofussil/mofussil/pkg/place_directory"
	"github.com/mofussil/mofussil/pkg/rbdf"
)

func (s Source) StandQuery(standQuery query.Stand) (*rbdf.Stand, error) {
	standsCollection := database.GetCollection("stands")
	var stand *rbdf.Stand
	standsCollection.FindOne(context.Background(), standQuery.ToBson()).Decode(&stand)

	if stand == nil {
		return nil, errors.New("could not find a matching Stand")
	} else {
		return stand, nil
	}
}

func (s Source) StandsForPlaceQuery(standsQuery query.StandsForPlace) ([]*rbdf.Stand, error) {
	directory := place_directory.Directory{}

	return directory.StandsByPlace(context.Background(), standsQuery.PlaceRef)
}
