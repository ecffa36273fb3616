package rbdf

import (
	"time"
)

type MatchKind string

const (
	// MatchKindDirect - the trip's own origin and terminus are exactly the
	// requested stands
	MatchKindDirect MatchKind = "Direct"
	// MatchKindThroughStop - one requested stand is a true endpoint of the
	// run, the other an intermediate visit
	MatchKindThroughStop MatchKind = "ThroughStop"
	// MatchKindContinuing - the rider boards and alights mid-run; the
	// vehicle started earlier and is headed further
	MatchKindContinuing MatchKind = "Continuing"
	// MatchKindConnecting - two trips joined at a shared stand
	MatchKindConnecting MatchKind = "Connecting"
)

// RankPriority orders kinds from strongest match to weakest. Lower sorts
// first.
func (kind MatchKind) RankPriority() int {
	switch kind {
	case MatchKindDirect:
		return 0
	case MatchKindThroughStop:
		return 1
	case MatchKindContinuing:
		return 2
	case MatchKindConnecting:
		return 3
	default:
		return 4
	}
}

// ConnectionCandidate is a two-leg journey joined at a shared stand. It is
// derived at query time and never persisted.
type ConnectionCandidate struct {
	FirstTrip  *Trip `groups:"basic"`
	SecondTrip *Trip `groups:"basic"`

	TransferStandRef string `groups:"basic"`

	Wait time.Duration `groups:"basic"`

	Transfers int `groups:"basic"`
}

// SearchResult is one ranked way of travelling between the requested
// places, annotated with the physical stands each leg actually uses.
// Either Trip or Connection is set, never both.
type SearchResult struct {
	Kind MatchKind `groups:"basic"`

	Trip       *Trip                `json:",omitempty" groups:"basic"`
	Connection *ConnectionCandidate `json:",omitempty" groups:"basic"`

	OriginStandRef      string `groups:"basic"`
	DestinationStandRef string `groups:"basic"`

	// Times anchored to the travel date of the query
	DepartureTime time.Time     `groups:"basic"`
	ArrivalTime   time.Time     `groups:"basic"`
	Duration      time.Duration `groups:"basic"`

	Transfers int `groups:"basic"`
}

// TripIdentifier gives the stable identifier used as the final ranking
// tie-break. Connections combine both legs so two candidates over the
// same trip pair stay adjacent.
func (result *SearchResult) TripIdentifier() string {
	if result.Trip != nil {
		return result.Trip.PrimaryIdentifier
	}

	if result.Connection != nil {
		return result.Connection.FirstTrip.PrimaryIdentifier + "/" + result.Connection.SecondTrip.PrimaryIdentifier
	}

	return ""
}

// RouteSearchResults is the answer to one resolveRoutes query. Unresolvable
// place names are reported in UnresolvedPlaces rather than folded into an
// empty Results, so callers can tell "no routes exist" apart from "unknown
// place". Partial is set when the query deadline expired before every
// stand pair was evaluated.
type RouteSearchResults struct {
	Results []*SearchResult `groups:"basic"`

	UnresolvedPlaces []string `groups:"basic"`

	Partial bool `groups:"basic"`
}
