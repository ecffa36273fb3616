package rbdf

import (
	"encoding/json"
	"fmt"
	"time"
)

const TripIDFormat = "IN:TRIP:%s"

// Trip is one scheduled bus run over an ordered sequence of stand Visits.
// The Visits slice always carries every stop the run makes, including its
// own origin and terminus - a Trip loaded without its full Visit list is a
// contract violation on the catalog side.
type Trip struct {
	PrimaryIdentifier string `groups:"basic"`

	// ServiceName is the bus number/name riders know the run by, eg. "27D"
	ServiceName string `groups:"basic"`

	CreationDateTime     time.Time `groups:"detailed" bson:",omitempty"`
	ModificationDateTime time.Time `groups:"detailed" bson:",omitempty"`

	DataSource *DataSource `groups:"internal" bson:",omitempty"`

	Visits []*Visit `groups:"detailed"`
}

// Visit is a single timed stop within a Trip. Times are stored as
// time-of-day on the zero date; callers anchor them to a travel date.
type Visit struct {
	StandRef string `groups:"basic"`

	Sequence int `groups:"basic"`

	ArrivalTime   time.Time `groups:"basic"`
	DepartureTime time.Time `groups:"basic"`
}

func (trip *Trip) FirstVisit() *Visit {
	if len(trip.Visits) == 0 {
		return nil
	}

	return trip.Visits[0]
}

func (trip *Trip) LastVisit() *Visit {
	if len(trip.Visits) == 0 {
		return nil
	}

	return trip.Visits[len(trip.Visits)-1]
}

// VisitIndex returns the position of the earliest Visit at the given stand,
// or -1 when the Trip never calls there.
func (trip *Trip) VisitIndex(standRef string) int {
	for index, visit := range trip.Visits {
		if visit.StandRef == standRef {
			return index
		}
	}

	return -1
}

// CheckVisitOrder verifies the ordering invariant every stored Trip must
// hold - a non-empty Visit list, strictly increasing sequence numbers and
// non-decreasing times. Trips failing it are data anomalies and get
// excluded from query results rather than failing the whole query.
func (trip *Trip) CheckVisitOrder() error {
	if len(trip.Visits) == 0 {
		return fmt.Errorf("trip %s has no visits", trip.PrimaryIdentifier)
	}

	previous := trip.Visits[0]
	for _, visit := range trip.Visits[1:] {
		if visit.Sequence <= previous.Sequence {
			return fmt.Errorf("trip %s visit sequence not strictly increasing at %d", trip.PrimaryIdentifier, visit.Sequence)
		}

		if visit.ArrivalOrDeparture().Before(previous.DepartureOrArrival()) {
			return fmt.Errorf("trip %s travels backwards in time at visit %d", trip.PrimaryIdentifier, visit.Sequence)
		}

		if !visit.ArrivalTime.IsZero() && !visit.DepartureTime.IsZero() && visit.DepartureTime.Before(visit.ArrivalTime) {
			return fmt.Errorf("trip %s departs visit %d before arriving", trip.PrimaryIdentifier, visit.Sequence)
		}

		previous = visit
	}

	return nil
}

// DepartureOrArrival is the time-of-day the vehicle leaves this visit.
// Terminal visits often carry a zero departure, in which case the arrival
// stands in for it.
func (visit *Visit) DepartureOrArrival() time.Time {
	if visit.DepartureTime.IsZero() {
		return visit.ArrivalTime
	}

	return visit.DepartureTime
}

// ArrivalOrDeparture is the time-of-day the vehicle reaches this visit,
// falling back to the departure for origin visits recorded without one.
func (visit *Visit) ArrivalOrDeparture() time.Time {
	if visit.ArrivalTime.IsZero() {
		return visit.DepartureTime
	}

	return visit.ArrivalTime
}

func (trip Trip) MarshalBinary() ([]byte, error) {
	return json.Marshal(trip)
}
