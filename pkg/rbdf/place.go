package rbdf

import (
	"context"
	"time"

	"github.com/mofussil/mofussil/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const PlaceIDFormat = "IN:PLACE:%s"

// Place is a town or city that riders search by name. Stands reference
// their Place, never the other way around in the database.
type Place struct {
	PrimaryIdentifier string `groups:"basic"`

	Name       string `groups:"basic"`
	SearchName string `groups:"internal"`
	District   string `groups:"detailed"`

	CreationDateTime     time.Time `groups:"detailed"`
	ModificationDateTime time.Time `groups:"detailed"`

	DataSource *DataSource `groups:"internal"`

	Stands []*Stand `bson:"-" groups:"basic"`
}

// GetStands fills in the Stands belonging to this Place, ordered by
// identifier so repeated calls return the same ordering.
func (place *Place) GetStands() {
	standsCollection := database.GetCollection("stands")

	opts := options.Find().SetSort(bson.M{"primaryidentifier": 1})
	cursor, err := standsCollection.Find(context.Background(), bson.M{"placeref": place.PrimaryIdentifier}, opts)
	if err != nil {
		return
	}

	for cursor.Next(context.Background()) {
		var stand *Stand
		if err := cursor.Decode(&stand); err != nil {
			continue
		}

		place.Stands = append(place.Stands, stand)
	}
}
