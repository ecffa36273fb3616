package databaselookup

import (
	"context"
	"errors"

	"github.com/mofussil/mofussil/pkg/database"
	"github.com/mofussil/mofussil/pkg/dataaggregator/query"
	"github.com/mofussil/mofussil/pkg/rbdf"
)

func (s Source) TripQuery(tripQuery query.Trip) (*rbdf.Trip, error) {
	tripsCollection := database.GetCollection("trips")
	var trip *rbdf.Trip
	tripsCollection.FindOne(context.Background(), tripQuery.ToBson()).Decode(&trip)

	if trip == nil {
		return nil, errors.New("could not find a matching Trip")
	} else {
		return trip, nil
	}
}
