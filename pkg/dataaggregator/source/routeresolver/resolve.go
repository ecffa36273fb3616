package routeresolver

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mofussil/mofussil/pkg/dataaggregator/query"
	"github.com/mofussil/mofussil/pkg/metrics"
	"github.com/mofussil/mofussil/pkg/rbdf"
	"github.com/mofussil/mofussil/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

type standPair struct {
	Origin      string
	Destination string
}

// RouteSearchQuery is the resolveRoutes operation. Directory failures and
// catalog failures abort the query; unknown places and expired deadlines
// are reported on the result instead.
func (s Source) RouteSearchQuery(q query.RouteSearch) (*rbdf.RouteSearchResults, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.QueryTimeout)
	defer cancel()

	travelDate := q.TravelDate
	if travelDate.IsZero() {
		travelDate = time.Now()
	}

	results := &rbdf.RouteSearchResults{
		Results:          []*rbdf.SearchResult{},
		UnresolvedPlaces: []string{},
	}

	originStands, err := s.Directory.StandsByPlaceName(ctx, q.OriginPlaceName)
	if err != nil {
		metrics.RouteSearches.WithLabelValues("error").Inc()
		return nil, err
	}

	destinationStands, err := s.Directory.StandsByPlaceName(ctx, q.DestinationPlaceName)
	if err != nil {
		metrics.RouteSearches.WithLabelValues("error").Inc()
		return nil, err
	}

	if len(originStands) == 0 {
		results.UnresolvedPlaces = append(results.UnresolvedPlaces, q.OriginPlaceName)
	}
	if len(destinationStands) == 0 {
		results.UnresolvedPlaces = append(results.UnresolvedPlaces, q.DestinationPlaceName)
	}

	if len(results.UnresolvedPlaces) > 0 {
		metrics.RouteSearches.WithLabelValues("unknown-place").Inc()
		return results, nil
	}

	originStands = s.capStands(q.OriginPlaceName, originStands)
	destinationStands = s.capStands(q.DestinationPlaceName, destinationStands)

	pairs := make([]standPair, 0, len(originStands)*len(destinationStands))
	for _, originStand := range originStands {
		for _, destinationStand := range destinationStands {
			pairs = append(pairs, standPair{
				Origin:      originStand.PrimaryIdentifier,
				Destination: destinationStand.PrimaryIdentifier,
			})
		}
	}

	metrics.FanoutPairs.Observe(float64(len(pairs)))

	var partial atomic.Bool

	// Stand pairs are independent so they run on a bounded pool.
	// Cancellation is checked per pair - a deadline mid-way turns into a
	// partial result, not an error.
	fanout := pool.NewWithResults[[]pairMatch]().WithErrors().WithMaxGoroutines(s.Config.FanoutWorkers)

	for _, pair := range pairs {
		pair := pair

		fanout.Go(func() ([]pairMatch, error) {
			if ctx.Err() != nil {
				partial.Store(true)
				return nil, nil
			}

			matches, err := s.resolvePair(ctx, pair.Origin, pair.Destination)
			if err != nil {
				if ctx.Err() != nil {
					partial.Store(true)
					return nil, nil
				}

				return nil, err
			}

			return matches, nil
		})
	}

	matchSets, err := fanout.Wait()
	if err != nil {
		metrics.RouteSearches.WithLabelValues("error").Inc()
		return nil, err
	}

	merged := mergeStandPairMatches(matchSets)

	for _, match := range merged {
		results.Results = append(results.Results, s.buildSingleTripResult(match, travelDate))
	}

	// Connections only run when no single trip serves any stand pair
	if len(merged) == 0 && ctx.Err() == nil {
		connections, err := s.buildConnections(ctx, originStands, destinationStands, travelDate, &partial)
		if err != nil {
			metrics.RouteSearches.WithLabelValues("error").Inc()
			return nil, err
		}

		results.Results = append(results.Results, connections...)
	}

	Rank(results.Results)

	if len(results.Results) > s.Config.MaxResults {
		results.Results = results.Results[:s.Config.MaxResults]
	}

	if partial.Load() {
		results.Partial = true
		metrics.PartialResults.Inc()
		metrics.RouteSearches.WithLabelValues("partial").Inc()
	} else {
		metrics.RouteSearches.WithLabelValues("ok").Inc()
	}

	metrics.RouteSearchDuration.Observe(time.Since(startTime).Seconds())

	return results, nil
}

// capStands bounds the fan-out for places with an unusually large number
// of stands. The directory returns stands in a stable order so the cap is
// deterministic.
func (s Source) capStands(placeName string, stands []*rbdf.Stand) []*rbdf.Stand {
	if len(stands) <= s.Config.MaxStandsPerPlace {
		return stands
	}

	log.Warn().
		Str("place", placeName).
		Int("stands", len(stands)).
		Int("cap", s.Config.MaxStandsPerPlace).
		Msg("Capping stands for place")

	return stands[:s.Config.MaxStandsPerPlace]
}

// mergeStandPairMatches deduplicates matches across stand pairs. The same
// trip id appearing for more than one pair means the trip visits several
// stands of one place - a data anomaly that is logged, with the Direct
// occurrence winning, otherwise the earliest origin visit.
func mergeStandPairMatches(matchSets [][]pairMatch) []pairMatch {
	byTrip := map[string]pairMatch{}
	var order []string

	for _, matches := range matchSets {
		for _, match := range matches {
			identifier := match.Trip.PrimaryIdentifier

			existing, seen := byTrip[identifier]
			if !seen {
				byTrip[identifier] = match
				order = append(order, identifier)
				continue
			}

			log.Warn().
				Str("trip", identifier).
				Str("keptOrigin", existing.OriginStandRef).
				Str("duplicateOrigin", match.OriginStandRef).
				Msg("Trip matched multiple stand pairs of one place")

			if existing.Kind == rbdf.MatchKindDirect {
				continue
			}

			if match.Kind == rbdf.MatchKindDirect || pairMatchBefore(match, existing) {
				byTrip[identifier] = match
			}
		}
	}

	merged := make([]pairMatch, 0, len(order))
	for _, identifier := range order {
		merged = append(merged, byTrip[identifier])
	}

	return merged
}

// pairMatchBefore gives duplicate occurrences of one trip a total order.
// The fan-out pool delivers match sets in completion order, so the kept
// occurrence must never depend on which stand pair finished first:
// earliest origin visit wins, then earliest destination visit, then the
// stand identifiers.
func pairMatchBefore(a pairMatch, b pairMatch) bool {
	if a.OriginVisitIndex != b.OriginVisitIndex {
		return a.OriginVisitIndex < b.OriginVisitIndex
	}

	if a.DestinationVisitIndex != b.DestinationVisitIndex {
		return a.DestinationVisitIndex < b.DestinationVisitIndex
	}

	if a.OriginStandRef != b.OriginStandRef {
		return a.OriginStandRef < b.OriginStandRef
	}

	return a.DestinationStandRef < b.DestinationStandRef
}

func (s Source) buildSingleTripResult(match pairMatch, travelDate time.Time) *rbdf.SearchResult {
	originVisit := match.Trip.Visits[match.OriginVisitIndex]
	destinationVisit := match.Trip.Visits[match.DestinationVisitIndex]

	departureTime := util.AddTimeToDate(travelDate, originVisit.DepartureOrArrival())
	arrivalTime := util.AddTimeToDate(travelDate, destinationVisit.ArrivalOrDeparture())

	// Overnight runs arrive on the next day
	if arrivalTime.Before(departureTime) {
		arrivalTime = arrivalTime.Add(24 * time.Hour)
	}

	return &rbdf.SearchResult{
		Kind: match.Kind,

		Trip: match.Trip,

		OriginStandRef:      match.OriginStandRef,
		DestinationStandRef: match.DestinationStandRef,

		DepartureTime: departureTime,
		ArrivalTime:   arrivalTime,
		Duration:      arrivalTime.Sub(departureTime),

		Transfers: 0,
	}
}
