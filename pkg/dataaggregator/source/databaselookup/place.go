package databaselookup

import (
	"context"
	"errors"

	"github.com/mofussil/mofussil/pkg/database"
	"github.com/mofussil/mofussil/pkg/dataaggregator/query"
	"github.com/mofussil/mofussil/pkg/rbdf"
)

func (s Source) PlaceQuery(placeQuery query.Place) (*rbdf.Place, error) {
	placesCollection := database.GetCollection("places")
	var place *rbdf.Place
	placesCollection.FindOne(context.Background(), placeQuery.ToBson()).Decode(&place)

	if place == nil {
		return nil, errors.New("could not find a matching Place")
	} else {
		return place, nil
	}
}
