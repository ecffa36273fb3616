package routeresolver

import (
	"context"
	"reflect"

	"github.com/mofussil/mofussil/pkg/config"
	"github.com/mofussil/mofussil/pkg/dataaggregator/query"
	"github.com/mofussil/mofussil/pkg/dataaggregator/source"
	"github.com/mofussil/mofussil/pkg/rbdf"
)

// PlaceDirectory resolves a rider-facing place name into its boarding
// stands. Unknown names return an empty slice, not an error.
type PlaceDirectory interface {
	StandsByPlaceName(ctx context.Context, name string) ([]*rbdf.Stand, error)
	StandsByPlace(ctx context.Context, placeRef string) ([]*rbdf.Stand, error)
}

// TripCatalog serves read-only trip queries. Every returned Trip must
// carry its full ordered visit list.
type TripCatalog interface {
	TripsStartingAt(ctx context.Context, standRef string) ([]*rbdf.Trip, error)
	TripsEndingAt(ctx context.Context, standRef string) ([]*rbdf.Trip, error)
	TripsVisiting(ctx context.Context, standRef string) ([]*rbdf.Trip, error)
	TripsBetweenStands(ctx context.Context, fromStandRef string, toStandRef string) ([]*rbdf.Trip, error)
}

// Source is the route & connection resolution engine. It answers
// query.RouteSearch by fanning out over every origin/destination stand
// pair, classifying single-trip matches, falling back to two-leg
// connections, and ranking the merged set.
type Source struct {
	Directory PlaceDirectory
	Catalog   TripCatalog

	Config config.Planner
}

func (s Source) GetName() string {
	return "Route Resolver"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(rbdf.RouteSearchResults{}),
	}
}

func (s Source) Lookup(q any) (interface{}, error) {
	switch q := q.(type) {
	case query.RouteSearch:
		return s.RouteSearchQuery(q)
	default:
		return nil, source.UnsupportedSourceError
	}
}
