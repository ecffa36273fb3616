package query

import "go.mongodb.org/mongo-driver/bson"

type Stand struct {
	PrimaryIdentifier string
}

func (s *Stand) ToBson() bson.M {
	if s.PrimaryIdentifier != "" {
		return bson.M{"primaryidentifier": s.PrimaryIdentifier}
	}

	return nil
}

// StandsForPlace asks for every stand belonging to one place.
type StandsForPlace struct {
	PlaceRef string
}
