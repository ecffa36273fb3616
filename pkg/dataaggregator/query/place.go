package query

import "go.mongodb.org/mongo-driver/bson"

type Place struct {
	PrimaryIdentifier string
}

func (p *Place) ToBson() bson.M {
	if p.PrimaryIdentifier != "" {
		return bson.M{"primaryidentifier": p.PrimaryIdentifier}
	}

	return nil
}
