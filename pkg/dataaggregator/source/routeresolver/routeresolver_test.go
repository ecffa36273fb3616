package routeresolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mofussil/mofussil/pkg/config"
	"github.com/mofussil/mofussil/pkg/dataaggregator/query"
	"github.com/mofussil/mofussil/pkg/rbdf"
)

type fakeDirectory struct {
	stands map[string][]*rbdf.Stand
}

func (d fakeDirectory) StandsByPlaceName(ctx context.Context, name string) ([]*rbdf.Stand, error) {
	stands := d.stands[name]
	if stands == nil {
		return []*rbdf.Stand{}, nil
	}

	return stands, nil
}

func (d fakeDirectory) StandsByPlace(ctx context.Context, placeRef string) ([]*rbdf.Stand, error) {
	var matched []*rbdf.Stand
	for _, stands := range d.stands {
		for _, stand := range stands {
			if stand.PlaceRef == placeRef {
				matched = append(matched, stand)
			}
		}
	}

	return matched, nil
}

type fakeCatalog struct {
	trips []*rbdf.Trip

	err error

	// blockUntilCancelled simulates a catalog slower than the query
	// deadline
	blockUntilCancelled bool
}

func (c *fakeCatalog) ready(ctx context.Context) error {
	if c.err != nil {
		return c.err
	}

	if c.blockUntilCancelled {
		<-ctx.Done()
		return ctx.Err()
	}

	return nil
}

func (c *fakeCatalog) TripsStartingAt(ctx context.Context, standRef string) ([]*rbdf.Trip, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}

	var matched []*rbdf.Trip
	for _, trip := range c.trips {
		if trip.FirstVisit() != nil && trip.FirstVisit().StandRef == standRef {
			matched = append(matched, trip)
		}
	}
	return matched, nil
}

func (c *fakeCatalog) TripsEndingAt(ctx context.Context, standRef string) ([]*rbdf.Trip, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}

	var matched []*rbdf.Trip
	for _, trip := range c.trips {
		if trip.LastVisit() != nil && trip.LastVisit().StandRef == standRef {
			matched = append(matched, trip)
		}
	}
	return matched, nil
}

func (c *fakeCatalog) TripsVisiting(ctx context.Context, standRef string) ([]*rbdf.Trip, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}

	var matched []*rbdf.Trip
	for _, trip := range c.trips {
		if trip.VisitIndex(standRef) >= 0 {
			matched = append(matched, trip)
		}
	}
	return matched, nil
}

func (c *fakeCatalog) TripsBetweenStands(ctx context.Context, fromStandRef string, toStandRef string) ([]*rbdf.Trip, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}

	var matched []*rbdf.Trip
	for _, trip := range c.trips {
		if trip.VisitIndex(fromStandRef) >= 0 && trip.VisitIndex(toStandRef) >= 0 {
			matched = append(matched, trip)
		}
	}
	return matched, nil
}

func timeOfDay(hour int, minute int) time.Time {
	return time.Date(0, time.January, 1, hour, minute, 0, 0, time.UTC)
}

type visitSpec struct {
	standRef  string
	arrival   time.Time
	departure time.Time
}

func makeTrip(identifier string, serviceName string, visits ...visitSpec) *rbdf.Trip {
	trip := &rbdf.Trip{
		PrimaryIdentifier: identifier,
		ServiceName:       serviceName,
	}

	for index, spec := range visits {
		trip.Visits = append(trip.Visits, &rbdf.Visit{
			StandRef:      spec.standRef,
			Sequence:      index + 1,
			ArrivalTime:   spec.arrival,
			DepartureTime: spec.departure,
		})
	}

	return trip
}

func stand(identifier string, placeRef string) *rbdf.Stand {
	return &rbdf.Stand{
		PrimaryIdentifier: identifier,
		PlaceRef:          placeRef,
		Name:              identifier,
	}
}

func testSource(catalog TripCatalog, directory PlaceDirectory) Source {
	return Source{
		Directory: directory,
		Catalog:   catalog,
		Config: config.Planner{
			MaxStandsPerPlace: 4,
			TransferWindow:    3 * time.Hour,
			QueryTimeout:      5 * time.Second,
			FanoutWorkers:     4,
			MaxResults:        50,
		},
	}
}

var testTravelDate = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func searchQuery(origin string, destination string) query.RouteSearch {
	return query.RouteSearch{
		OriginPlaceName:      origin,
		DestinationPlaceName: destination,
		TravelDate:           testTravelDate,
	}
}

func TestDirectSingleStand(t *testing.T) {
	directory := fakeDirectory{stands: map[string][]*rbdf.Stand{
		"Chennai":    {stand("C1", "chennai")},
		"Coimbatore": {stand("V1", "coimbatore")},
	}}

	catalog := &fakeCatalog{trips: []*rbdf.Trip{
		makeTrip("T1", "460", visitSpec{"C1", time.Time{}, timeOfDay(6, 0)}, visitSpec{"V1", timeOfDay(12, 30), time.Time{}}),
	}}

	source := testSource(catalog, directory)

	results, err := source.RouteSearchQuery(searchQuery("Chennai", "Coimbatore"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}

	if len(results.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(results.Results))
	}

	result := results.Results[0]
	if result.Kind != rbdf.MatchKindDirect {
		t.Errorf("kind = %s, want Direct", result.Kind)
	}
	if result.Trip.PrimaryIdentifier != "T1" {
		t.Errorf("trip = %s, want T1", result.Trip.PrimaryIdentifier)
	}
	if result.OriginStandRef != "C1" || result.DestinationStandRef != "V1" {
		t.Errorf("stands = %s -> %s, want C1 -> V1", result.OriginStandRef, result.DestinationStandRef)
	}

	wantDeparture := time.Date(2026, time.March, 1, 6, 0, 0, 0, time.UTC)
	if !result.DepartureTime.Equal(wantDeparture) {
		t.Errorf("departure = %s, want %s", result.DepartureTime, wantDeparture)
	}
	if result.Duration != 6*time.Hour+30*time.Minute {
		t.Errorf("duration = %s, want 6h30m", result.Duration)
	}
}

func TestThroughStopClassification(t *testing.T) {
	directory := fakeDirectory{stands: map[string][]*rbdf.Stand{
		"Chennai":    {stand("C1", "chennai")},
		"Salem":      {stand("S1", "salem")},
		"Coimbatore": {stand("V1", "coimbatore")},
	}}

	catalog := &fakeCatalog{trips: []*rbdf.Trip{
		makeTrip("T1", "460",
			visitSpec{"C1", time.Time{}, timeOfDay(6, 0)},
			visitSpec{"S1", timeOfDay(9, 30), timeOfDay(9, 35)},
			visitSpec{"V1", timeOfDay(12, 30), time.Time{}}),
	}}

	source := testSource(catalog, directory)

	// Exact endpoints stay Direct even with intermediate stops
	results, err := source.RouteSearchQuery(searchQuery("Chennai", "Coimbatore"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}
	if len(results.Results) != 1 || results.Results[0].Kind != rbdf.MatchKindDirect {
		t.Fatalf("Chennai->Coimbatore: got %+v, want one Direct result", results.Results)
	}

	// Alighting at an intermediate stop is ThroughStop
	results, err = source.RouteSearchQuery(searchQuery("Chennai", "Salem"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}
	if len(results.Results) != 1 || results.Results[0].Kind != rbdf.MatchKindThroughStop {
		t.Fatalf("Chennai->Salem: got %+v, want one ThroughStop result", results.Results)
	}
}

func TestContinuingClassification(t *testing.T) {
	directory := fakeDirectory{stands: map[string][]*rbdf.Stand{
		"Salem": {stand("S1", "salem")},
		"Erode": {stand("E1", "erode")},
	}}

	// Trip starts before Salem and runs past Erode - a fully mid-run ride
	catalog := &fakeCatalog{trips: []*rbdf.Trip{
		makeTrip("T1", "460",
			visitSpec{"C1", time.Time{}, timeOfDay(6, 0)},
			visitSpec{"S1", timeOfDay(9, 30), timeOfDay(9, 35)},
			visitSpec{"E1", timeOfDay(10, 30), timeOfDay(10, 35)},
			visitSpec{"V1", timeOfDay(12, 30), time.Time{}}),
	}}

	source := testSource(catalog, directory)

	results, err := source.RouteSearchQuery(searchQuery("Salem", "Erode"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}

	if len(results.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(results.Results))
	}
	if results.Results[0].Kind != rbdf.MatchKindContinuing {
		t.Errorf("kind = %s, want Continuing", results.Results[0].Kind)
	}
}

func TestWrongDirectionExcluded(t *testing.T) {
	directory := fakeDirectory{stands: map[string][]*rbdf.Stand{
		"Chennai":    {stand("C1", "chennai")},
		"Coimbatore": {stand("V1", "coimbatore")},
	}}

	catalog := &fakeCatalog{trips: []*rbdf.Trip{
		makeTrip("T1", "460", visitSpec{"C1", time.Time{}, timeOfDay(6, 0)}, visitSpec{"V1", timeOfDay(12, 30), time.Time{}}),
	}}

	source := testSource(catalog, directory)

	forward, err := source.RouteSearchQuery(searchQuery("Chennai", "Coimbatore"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}

	backward, err := source.RouteSearchQuery(searchQuery("Coimbatore", "Chennai"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}

	for _, forwardResult := range forward.Results {
		for _, backwardResult := range backward.Results {
			if forwardResult.Kind == rbdf.MatchKindDirect && backwardResult.Kind == rbdf.MatchKindDirect &&
				forwardResult.Trip.PrimaryIdentifier == backwardResult.Trip.PrimaryIdentifier {
				t.Errorf("trip %s matched Direct in both directions", forwardResult.Trip.PrimaryIdentifier)
			}
		}
	}

	if len(backward.Results) != 0 {
		t.Errorf("reverse query returned %d results, want 0", len(backward.Results))
	}
}

func TestMultiStandMerge(t *testing.T) {
	directory := fakeDirectory{stands: map[string][]*rbdf.Stand{
		"Aruppukottai": {stand("AK1", "aruppukottai"), stand("AK2", "aruppukottai")},
		"Madurai":      {stand("M1", "madurai")},
	}}

	catalog := &fakeCatalog{trips: []*rbdf.Trip{
		makeTrip("X", "12A", visitSpec{"AK1", time.Time{}, timeOfDay(7, 0)}, visitSpec{"M1", timeOfDay(8, 30), time.Time{}}),
		makeTrip("Y", "14C", visitSpec{"AK2", time.Time{}, timeOfDay(7, 30)}, visitSpec{"M1", timeOfDay(9, 0), time.Time{}}),
	}}

	source := testSource(catalog, directory)

	results, err := source.RouteSearchQuery(searchQuery("Aruppukottai", "Madurai"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}

	if len(results.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(results.Results))
	}

	originByTrip := map[string]string{}
	for _, result := range results.Results {
		originByTrip[result.Trip.PrimaryIdentifier] = result.OriginStandRef
	}

	if originByTrip["X"] != "AK1" {
		t.Errorf("trip X annotated with origin %s, want AK1", originByTrip["X"])
	}
	if originByTrip["Y"] != "AK2" {
		t.Errorf("trip Y annotated with origin %s, want AK2", originByTrip["Y"])
	}
}

func TestDuplicateTripAcrossStandsKeptOnce(t *testing.T) {
	directory := fakeDirectory{stands: map[string][]*rbdf.Stand{
		"Aruppukottai": {stand("AK1", "aruppukottai"), stand("AK2", "aruppukottai")},
		"Madurai":      {stand("M1", "madurai")},
	}}

	// A single trip calling at both stands of one place - data anomaly,
	// kept once via the earliest origin visit
	catalog := &fakeCatalog{trips: []*rbdf.Trip{
		makeTrip("X", "12A",
			visitSpec{"AK1", time.Time{}, timeOfDay(7, 0)},
			visitSpec{"AK2", timeOfDay(7, 10), timeOfDay(7, 15)},
			visitSpec{"M1", timeOfDay(8, 30), time.Time{}}),
	}}

	source := testSource(catalog, directory)

	results, err := source.RouteSearchQuery(searchQuery("Aruppukottai", "Madurai"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}

	if len(results.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(results.Results))
	}

	if results.Results[0].OriginStandRef != "AK1" {
		t.Errorf("kept origin %s, want AK1 (earliest visit)", results.Results[0].OriginStandRef)
	}
}

func TestIdempotentQueries(t *testing.T) {
	directory := fakeDirectory{stands: map[string][]*rbdf.Stand{
		"Aruppukottai": {stand("AK1", "aruppukottai"), stand("AK2", "aruppukottai")},
		"Madurai":      {stand("M1", "madurai")},
	}}

	catalog := &fakeCatalog{trips: []*rbdf.Trip{
		makeTrip("X", "12A", visitSpec{"AK1", time.Time{}, timeOfDay(7, 0)}, visitSpec{"M1", timeOfDay(8, 30), time.Time{}}),
		makeTrip("Y", "14C", visitSpec{"AK2", time.Time{}, timeOfDay(7, 30)}, visitSpec{"M1", timeOfDay(9, 0), time.Time{}}),
		makeTrip("Z", "9", visitSpec{"AK1", time.Time{}, timeOfDay(7, 0)}, visitSpec{"M1", timeOfDay(8, 15), time.Time{}}),
	}}

	source := testSource(catalog, directory)

	first, err := source.RouteSearchQuery(searchQuery("Aruppukottai", "Madurai"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}

	second, err := source.RouteSearchQuery(searchQuery("Aruppukottai", "Madurai"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}

	if len(first.Results) != len(second.Results) {
		t.Fatalf("result counts differ: %d vs %d", len(first.Results), len(second.Results))
	}

	for index := range first.Results {
		if first.Results[index].TripIdentifier() != second.Results[index].TripIdentifier() {
			t.Errorf("position %d: %s vs %s", index, first.Results[index].TripIdentifier(), second.Results[index].TripIdentifier())
		}
	}
}

func TestUnknownPlace(t *testing.T) {
	directory := fakeDirectory{stands: map[string][]*rbdf.Stand{
		"Madurai": {stand("M1", "madurai")},
	}}

	catalog := &fakeCatalog{}

	source := testSource(catalog, directory)

	results, err := source.RouteSearchQuery(searchQuery("Nowhereville", "Madurai"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}

	if len(results.Results) != 0 {
		t.Errorf("got %d results, want 0", len(results.Results))
	}

	if len(results.UnresolvedPlaces) != 1 || results.UnresolvedPlaces[0] != "Nowhereville" {
		t.Errorf("UnresolvedPlaces = %v, want [Nowhereville]", results.UnresolvedPlaces)
	}
}

func TestCatalogUnavailable(t *testing.T) {
	directory := fakeDirectory{stands: map[string][]*rbdf.Stand{
		"Chennai":    {stand("C1", "chennai")},
		"Coimbatore": {stand("V1", "coimbatore")},
	}}

	catalog := &fakeCatalog{err: rbdf.ErrCatalogUnavailable}

	source := testSource(catalog, directory)

	_, err := source.RouteSearchQuery(searchQuery("Chennai", "Coimbatore"))
	if !errors.Is(err, rbdf.ErrCatalogUnavailable) {
		t.Errorf("err = %v, want ErrCatalogUnavailable", err)
	}
}

func TestQueryTimeoutReturnsPartial(t *testing.T) {
	directory := fakeDirectory{stands: map[string][]*rbdf.Stand{
		"Chennai":    {stand("C1", "chennai")},
		"Coimbatore": {stand("V1", "coimbatore")},
	}}

	catalog := &fakeCatalog{blockUntilCancelled: true}

	source := testSource(catalog, directory)
	source.Config.QueryTimeout = 50 * time.Millisecond

	results, err := source.RouteSearchQuery(searchQuery("Chennai", "Coimbatore"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}

	if !results.Partial {
		t.Error("Partial = false, want true after deadline expiry")
	}
}

func TestMalformedTripExcluded(t *testing.T) {
	directory := fakeDirectory{stands: map[string][]*rbdf.Stand{
		"Chennai":    {stand("C1", "chennai")},
		"Coimbatore": {stand("V1", "coimbatore")},
	}}

	// Bad trip travels backwards in time; good trip is fine
	badTrip := makeTrip("BAD", "13",
		visitSpec{"C1", time.Time{}, timeOfDay(9, 0)},
		visitSpec{"V1", timeOfDay(7, 0), time.Time{}})

	goodTrip := makeTrip("GOOD", "460",
		visitSpec{"C1", time.Time{}, timeOfDay(6, 0)},
		visitSpec{"V1", timeOfDay(12, 30), time.Time{}})

	catalog := &fakeCatalog{trips: []*rbdf.Trip{badTrip, goodTrip}}

	source := testSource(catalog, directory)

	results, err := source.RouteSearchQuery(searchQuery("Chennai", "Coimbatore"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}

	if len(results.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(results.Results))
	}
	if results.Results[0].Trip.PrimaryIdentifier != "GOOD" {
		t.Errorf("kept trip %s, want GOOD", results.Results[0].Trip.PrimaryIdentifier)
	}
}

func TestStandCapBoundsFanout(t *testing.T) {
	manyStands := []*rbdf.Stand{}
	for _, identifier := range []string{"S1", "S2", "S3", "S4", "S5", "S6"} {
		manyStands = append(manyStands, stand(identifier, "bigcity"))
	}

	directory := fakeDirectory{stands: map[string][]*rbdf.Stand{
		"Bigcity": manyStands,
		"Madurai": {stand("M1", "madurai")},
	}}

	catalog := &fakeCatalog{trips: []*rbdf.Trip{
		// Only reachable from the stand beyond the cap
		makeTrip("T6", "99", visitSpec{"S6", time.Time{}, timeOfDay(7, 0)}, visitSpec{"M1", timeOfDay(8, 0), time.Time{}}),
	}}

	source := testSource(catalog, directory)
	source.Config.MaxStandsPerPlace = 2

	results, err := source.RouteSearchQuery(searchQuery("Bigcity", "Madurai"))
	if err != nil {
		t.Fatalf("RouteSearchQuery: %v", err)
	}

	for _, result := range results.Results {
		if result.OriginStandRef == "S6" {
			t.Error("stand beyond the cap was evaluated")
		}
	}
}

func TestDuplicateTieBreakIgnoresMatchSetOrder(t *testing.T) {
	// An anomalous trip reaching two stands of the destination place at
	// the same origin visit - whichever match set arrives first, the same
	// occurrence must be kept
	trip := makeTrip("X", "12A",
		visitSpec{"AK1", time.Time{}, timeOfDay(7, 0)},
		visitSpec{"M1", timeOfDay(8, 30), timeOfDay(8, 35)},
		visitSpec{"M2", timeOfDay(8, 50), time.Time{}})

	viaM1 := pairMatch{
		Trip:                  trip,
		Kind:                  rbdf.MatchKindThroughStop,
		OriginStandRef:        "AK1",
		DestinationStandRef:   "M1",
		OriginVisitIndex:      0,
		DestinationVisitIndex: 1,
	}
	viaM2 := pairMatch{
		Trip:                  trip,
		Kind:                  rbdf.MatchKindThroughStop,
		OriginStandRef:        "AK1",
		DestinationStandRef:   "M2",
		OriginVisitIndex:      0,
		DestinationVisitIndex: 2,
	}

	forward := mergeStandPairMatches([][]pairMatch{{viaM1}, {viaM2}})
	reversed := mergeStandPairMatches([][]pairMatch{{viaM2}, {viaM1}})

	if len(forward) != 1 || len(reversed) != 1 {
		t.Fatalf("got %d and %d merged matches, want 1 and 1", len(forward), len(reversed))
	}

	if forward[0].DestinationStandRef != reversed[0].DestinationStandRef {
		t.Fatalf("kept destination depends on match-set order: %s vs %s",
			forward[0].DestinationStandRef, reversed[0].DestinationStandRef)
	}

	if forward[0].DestinationStandRef != "M1" {
		t.Errorf("kept destination = %s, want M1 (earliest destination visit)", forward[0].DestinationStandRef)
	}
}
