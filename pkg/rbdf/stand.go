package rbdf

import (
	"fmt"
	"time"
)

const StandIDFormat = "IN:STAND:%s"

type StandCategory string

const (
	StandCategoryMain     StandCategory = "Main"
	StandCategoryPrivate  StandCategory = "Private"
	StandCategoryRegional StandCategory = "Regional"
)

// Stand is a physical terminus within a Place. Trips reference Stands,
// not Places.
type Stand struct {
	PrimaryIdentifier string `groups:"basic"`

	PlaceRef string `groups:"basic"`

	Name     string        `groups:"basic"`
	Category StandCategory `groups:"basic"`

	Location *Location `groups:"detailed"`

	CreationDateTime     time.Time `groups:"detailed"`
	ModificationDateTime time.Time `groups:"detailed"`

	DataSource *DataSource `groups:"internal"`
}

// DescriptiveName disambiguates stands when a Place has more than one,
// eg. "Aruppukottai — Old Bus Stand".
func (stand *Stand) DescriptiveName(place *Place) string {
	if place == nil {
		return stand.Name
	}

	return fmt.Sprintf("%s — %s", place.Name, stand.Name)
}
