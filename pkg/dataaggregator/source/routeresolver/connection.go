package routeresolver

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mofussil/mofussil/pkg/metrics"
	"github.com/mofussil/mofussil/pkg/rbdf"
	"github.com/mofussil/mofussil/pkg/util"
	"github.com/sourcegraph/conc/pool"
)

// legCandidate is one trip usable as a journey leg - the rider boards or
// alights at standRef, which sits at visitIndex within the trip.
type legCandidate struct {
	Trip       *rbdf.Trip
	StandRef   string
	VisitIndex int
}

// buildConnections searches for two-leg journeys joined at a shared
// stand. It only runs when no single trip serves any stand pair. Legs of
// three or more are out of scope.
func (s Source) buildConnections(ctx context.Context, originStands []*rbdf.Stand, destinationStands []*rbdf.Stand, travelDate time.Time, partial *atomic.Bool) ([]*rbdf.SearchResult, error) {
	firstLegs, err := s.legsFromOrigins(ctx, originStands)
	if err != nil {
		if ctx.Err() != nil {
			partial.Store(true)
			return nil, nil
		}
		return nil, err
	}

	secondLegs, err := s.legsToDestinations(ctx, destinationStands)
	if err != nil {
		if ctx.Err() != nil {
			partial.Store(true)
			return nil, nil
		}
		return nil, err
	}

	// The outer scan dominates the cost so it runs on the bounded pool;
	// the deadline is checked per first-leg candidate
	scan := pool.NewWithResults[[]*rbdf.SearchResult]().WithMaxGoroutines(s.Config.FanoutWorkers)

	for _, firstLeg := range firstLegs {
		firstLeg := firstLeg

		scan.Go(func() []*rbdf.SearchResult {
			if ctx.Err() != nil {
				partial.Store(true)
				return nil
			}

			var found []*rbdf.SearchResult
			for _, secondLeg := range secondLegs {
				if result := s.connect(firstLeg, secondLeg, travelDate); result != nil {
					found = append(found, result)
				}
			}

			return found
		})
	}

	connections := dedupeTripPairs(scan.Wait())

	metrics.ConnectionCandidates.Add(float64(len(connections)))

	return connections, nil
}

// dedupeTripPairs keeps one candidate per (first trip, second trip) pair
// when a pair qualifies via several stand pairs. Smallest wait wins, and
// the remaining ties settle on departure time and stand identifiers - the
// scan pool delivers result sets in completion order, so the kept
// candidate must not depend on it.
func dedupeTripPairs(resultSets [][]*rbdf.SearchResult) []*rbdf.SearchResult {
	byTripPair := map[string]*rbdf.SearchResult{}
	var order []string

	for _, results := range resultSets {
		for _, result := range results {
			key := result.TripIdentifier()

			existing, seen := byTripPair[key]
			if !seen {
				byTripPair[key] = result
				order = append(order, key)
				continue
			}

			if connectionBefore(result, existing) {
				byTripPair[key] = result
			}
		}
	}

	connections := make([]*rbdf.SearchResult, 0, len(order))
	for _, key := range order {
		connections = append(connections, byTripPair[key])
	}

	return connections
}

func connectionBefore(a *rbdf.SearchResult, b *rbdf.SearchResult) bool {
	if a.Connection.Wait != b.Connection.Wait {
		return a.Connection.Wait < b.Connection.Wait
	}

	if !a.DepartureTime.Equal(b.DepartureTime) {
		return a.DepartureTime.Before(b.DepartureTime)
	}

	if a.OriginStandRef != b.OriginStandRef {
		return a.OriginStandRef < b.OriginStandRef
	}

	if a.DestinationStandRef != b.DestinationStandRef {
		return a.DestinationStandRef < b.DestinationStandRef
	}

	return a.Connection.TransferStandRef < b.Connection.TransferStandRef
}

// legsFromOrigins finds every trip that calls at an origin stand
// somewhere before its terminus.
func (s Source) legsFromOrigins(ctx context.Context, originStands []*rbdf.Stand) ([]legCandidate, error) {
	var candidates []legCandidate

	for _, stand := range originStands {
		if ctx.Err() != nil {
			return candidates, ctx.Err()
		}

		trips, err := s.Catalog.TripsVisiting(ctx, stand.PrimaryIdentifier)
		if err != nil {
			return nil, err
		}

		for _, trip := range trips {
			if !s.tripUsable(trip) {
				continue
			}

			visitIndex := trip.VisitIndex(stand.PrimaryIdentifier)
			if visitIndex < 0 || visitIndex >= len(trip.Visits)-1 {
				continue
			}

			candidates = append(candidates, legCandidate{
				Trip:       trip,
				StandRef:   stand.PrimaryIdentifier,
				VisitIndex: visitIndex,
			})
		}
	}

	return candidates, nil
}

// legsToDestinations finds every trip that calls at a destination stand
// somewhere after its own origin.
func (s Source) legsToDestinations(ctx context.Context, destinationStands []*rbdf.Stand) ([]legCandidate, error) {
	var candidates []legCandidate

	for _, stand := range destinationStands {
		if ctx.Err() != nil {
			return candidates, ctx.Err()
		}

		trips, err := s.Catalog.TripsVisiting(ctx, stand.PrimaryIdentifier)
		if err != nil {
			return nil, err
		}

		for _, trip := range trips {
			if !s.tripUsable(trip) {
				continue
			}

			visitIndex := trip.VisitIndex(stand.PrimaryIdentifier)
			if visitIndex <= 0 {
				continue
			}

			candidates = append(candidates, legCandidate{
				Trip:       trip,
				StandRef:   stand.PrimaryIdentifier,
				VisitIndex: visitIndex,
			})
		}
	}

	return candidates, nil
}

// connect tries to join two legs at a shared stand. The first trip must
// drop the rider there before the second picks them up, within the
// transfer window. When several stands qualify the smallest non-negative
// wait wins, ties broken by the earliest first-leg visit so results stay
// deterministic.
func (s Source) connect(firstLeg legCandidate, secondLeg legCandidate, travelDate time.Time) *rbdf.SearchResult {
	if firstLeg.Trip.PrimaryIdentifier == secondLeg.Trip.PrimaryIdentifier {
		return nil
	}

	type dropPoint struct {
		Visit *rbdf.Visit
		Index int
	}

	// Stands the first trip reaches after the rider has boarded
	dropPoints := map[string]dropPoint{}
	for index := firstLeg.VisitIndex + 1; index < len(firstLeg.Trip.Visits); index++ {
		visit := firstLeg.Trip.Visits[index]
		if _, seen := dropPoints[visit.StandRef]; !seen {
			dropPoints[visit.StandRef] = dropPoint{Visit: visit, Index: index}
		}
	}

	bestWait := time.Duration(-1)
	bestFirstLegIndex := -1
	var bestStandRef string

	// Stands the second trip serves before the rider alights
	for index := 0; index < secondLeg.VisitIndex; index++ {
		pickupVisit := secondLeg.Trip.Visits[index]

		drop, shared := dropPoints[pickupVisit.StandRef]
		if !shared {
			continue
		}

		wait := pickupVisit.DepartureOrArrival().Sub(drop.Visit.DepartureOrArrival())
		if wait < 0 || wait > s.Config.TransferWindow {
			continue
		}

		if bestWait < 0 || wait < bestWait || (wait == bestWait && drop.Index < bestFirstLegIndex) {
			bestWait = wait
			bestFirstLegIndex = drop.Index
			bestStandRef = pickupVisit.StandRef
		}
	}

	if bestWait < 0 {
		return nil
	}

	boardingVisit := firstLeg.Trip.Visits[firstLeg.VisitIndex]
	alightingVisit := secondLeg.Trip.Visits[secondLeg.VisitIndex]

	departureTime := util.AddTimeToDate(travelDate, boardingVisit.DepartureOrArrival())
	arrivalTime := util.AddTimeToDate(travelDate, alightingVisit.ArrivalOrDeparture())

	if arrivalTime.Before(departureTime) {
		arrivalTime = arrivalTime.Add(24 * time.Hour)
	}

	return &rbdf.SearchResult{
		Kind: rbdf.MatchKindConnecting,

		Connection: &rbdf.ConnectionCandidate{
			FirstTrip:        firstLeg.Trip,
			SecondTrip:       secondLeg.Trip,
			TransferStandRef: bestStandRef,
			Wait:             bestWait,
			Transfers:        1,
		},

		OriginStandRef:      firstLeg.StandRef,
		DestinationStandRef: secondLeg.StandRef,

		DepartureTime: departureTime,
		ArrivalTime:   arrivalTime,
		Duration:      arrivalTime.Sub(departureTime),

		Transfers: 1,
	}
}
