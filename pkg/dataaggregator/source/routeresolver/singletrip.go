package routeresolver

import (
	"context"

	"github.com/mofussil/mofussil/pkg/rbdf"
	"github.com/rs/zerolog/log"
)

// pairMatch is one qualifying trip for a specific stand pair, before
// cross-pair deduplication.
type pairMatch struct {
	Trip *rbdf.Trip
	Kind rbdf.MatchKind

	OriginStandRef      string
	DestinationStandRef string

	OriginVisitIndex      int
	DestinationVisitIndex int
}

// classifyMatch labels a (trip, origin visit, destination visit) match.
// The three single-trip resolvers overlap by construction, so the label
// comes from the visit positions alone: exact endpoints are Direct, one
// true endpoint is ThroughStop, and a fully mid-run ride is Continuing.
func classifyMatch(trip *rbdf.Trip, originIndex int, destinationIndex int) rbdf.MatchKind {
	lastIndex := len(trip.Visits) - 1

	switch {
	case originIndex == 0 && destinationIndex == lastIndex:
		return rbdf.MatchKindDirect
	case originIndex == 0 || destinationIndex == lastIndex:
		return rbdf.MatchKindThroughStop
	default:
		return rbdf.MatchKindContinuing
	}
}

// directMatches finds trips whose own origin and terminus are exactly the
// requested stands.
func (s Source) directMatches(ctx context.Context, originStandRef string, destinationStandRef string) ([]pairMatch, error) {
	trips, err := s.Catalog.TripsBetweenStands(ctx, originStandRef, destinationStandRef)
	if err != nil {
		return nil, err
	}

	var matches []pairMatch
	for _, trip := range trips {
		if !s.tripUsable(trip) {
			continue
		}

		firstVisit := trip.FirstVisit()
		lastVisit := trip.LastVisit()

		if firstVisit.StandRef != originStandRef || lastVisit.StandRef != destinationStandRef {
			continue
		}

		matches = append(matches, pairMatch{
			Trip:                  trip,
			Kind:                  rbdf.MatchKindDirect,
			OriginStandRef:        originStandRef,
			DestinationStandRef:   destinationStandRef,
			OriginVisitIndex:      0,
			DestinationVisitIndex: len(trip.Visits) - 1,
		})
	}

	return matches, nil
}

// throughStopMatches finds trips where both requested stands are visits in
// the correct temporal order, whether or not either is a true endpoint.
// Trips visiting the stands equal or inverted are excluded - a run never
// travels backwards.
func (s Source) throughStopMatches(ctx context.Context, originStandRef string, destinationStandRef string) ([]pairMatch, error) {
	trips, err := s.Catalog.TripsVisiting(ctx, originStandRef)
	if err != nil {
		return nil, err
	}

	var matches []pairMatch
	for _, trip := range trips {
		if !s.tripUsable(trip) {
			continue
		}

		originIndex := trip.VisitIndex(originStandRef)
		if originIndex < 0 {
			continue
		}

		destinationIndex := visitIndexAfter(trip, destinationStandRef, originIndex)
		if destinationIndex < 0 {
			continue
		}

		matches = append(matches, pairMatch{
			Trip:                  trip,
			Kind:                  classifyMatch(trip, originIndex, destinationIndex),
			OriginStandRef:        originStandRef,
			DestinationStandRef:   destinationStandRef,
			OriginVisitIndex:      originIndex,
			DestinationVisitIndex: destinationIndex,
		})
	}

	return matches, nil
}

// continuationMatches finds trips that pass the destination and continue
// further - the rider boards at origin and alights early while the
// vehicle is headed somewhere else.
func (s Source) continuationMatches(ctx context.Context, originStandRef string, destinationStandRef string) ([]pairMatch, error) {
	trips, err := s.Catalog.TripsVisiting(ctx, destinationStandRef)
	if err != nil {
		return nil, err
	}

	var matches []pairMatch
	for _, trip := range trips {
		if !s.tripUsable(trip) {
			continue
		}

		originIndex := trip.VisitIndex(originStandRef)
		if originIndex < 0 {
			continue
		}

		destinationIndex := visitIndexAfter(trip, destinationStandRef, originIndex)
		if destinationIndex < 0 || destinationIndex == len(trip.Visits)-1 {
			continue
		}

		matches = append(matches, pairMatch{
			Trip:                  trip,
			Kind:                  classifyMatch(trip, originIndex, destinationIndex),
			OriginStandRef:        originStandRef,
			DestinationStandRef:   destinationStandRef,
			OriginVisitIndex:      originIndex,
			DestinationVisitIndex: destinationIndex,
		})
	}

	return matches, nil
}

// resolvePair runs the three single-trip resolvers for one stand pair and
// merges their overlapping answers, keeping one match per trip with the
// strongest classification.
func (s Source) resolvePair(ctx context.Context, originStandRef string, destinationStandRef string) ([]pairMatch, error) {
	direct, err := s.directMatches(ctx, originStandRef, destinationStandRef)
	if err != nil {
		return nil, err
	}

	through, err := s.throughStopMatches(ctx, originStandRef, destinationStandRef)
	if err != nil {
		return nil, err
	}

	continuing, err := s.continuationMatches(ctx, originStandRef, destinationStandRef)
	if err != nil {
		return nil, err
	}

	byTrip := map[string]pairMatch{}
	var order []string

	for _, match := range append(append(direct, through...), continuing...) {
		identifier := match.Trip.PrimaryIdentifier

		existing, seen := byTrip[identifier]
		if !seen {
			byTrip[identifier] = match
			order = append(order, identifier)
			continue
		}

		if match.Kind.RankPriority() < existing.Kind.RankPriority() {
			byTrip[identifier] = match
		}
	}

	matches := make([]pairMatch, 0, len(order))
	for _, identifier := range order {
		matches = append(matches, byTrip[identifier])
	}

	return matches, nil
}

// tripUsable excludes trips whose visit sequence violates the ordering
// invariant. One malformed trip must not fail queries for unrelated
// routes, so it is logged and dropped.
func (s Source) tripUsable(trip *rbdf.Trip) bool {
	if err := trip.CheckVisitOrder(); err != nil {
		log.Warn().Err(err).Str("trip", trip.PrimaryIdentifier).Msg("Excluding trip with malformed visit sequence")
		return false
	}

	return true
}

// visitIndexAfter returns the earliest visit of standRef strictly after
// the given index, or -1.
func visitIndexAfter(trip *rbdf.Trip, standRef string, after int) int {
	for index := after + 1; index < len(trip.Visits); index++ {
		if trip.Visits[index].StandRef == standRef {
			return index
		}
	}

	return -1
}
