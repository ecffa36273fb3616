package query

import "go.mongodb.org/mongo-driver/bson"

type Trip struct {
	PrimaryIdentifier string
}

func (t *Trip) ToBson() bson.M {
	if t.PrimaryIdentifier != "" {
		return bson.M{"primaryidentifier": t.PrimaryIdentifier}
	}

	return nil
}
