package searchstats

import (
	"encoding/json"
	"time"
)

// SearchEvent records one planner query for the product team - which
// routes riders ask for, and which of those we cannot serve. Events feed
// the contribution workflow, they are never read back by the engine.
type SearchEvent struct {
	OriginPlaceName      string
	DestinationPlaceName string

	TravelDate time.Time

	DirectResults      int
	ThroughStopResults int
	ContinuingResults  int
	ConnectingResults  int

	UnresolvedPlaces []string
	Partial          bool

	Duration time.Duration

	CreationDateTime time.Time
}

func (event SearchEvent) MarshalBinary() ([]byte, error) {
	return json.Marshal(event)
}
