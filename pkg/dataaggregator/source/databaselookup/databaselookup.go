package databaselookup

import (
	"reflect"

	"github.com/mofussil/mofussil/pkg/dataaggregator/query"
	"github.com/mofussil/mofussil/pkg/dataaggregator/source"
	"github.com/mofussil/mofussil/pkg/rbdf"
)

type Source struct {
}

func (s Source) GetName() string {
	return "Database Lookup"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(rbdf.Place{}),
		reflect.TypeOf(rbdf.Stand{}),
		reflect.TypeOf(rbdf.Trip{}),
		reflect.TypeOf([]*rbdf.Stand{}),
	}
}

func (s Source) Lookup(q any) (interface{}, error) {
	switch q := q.(type) {
	case query.Place:
		return s.PlaceQuery(q)
	case query.Stand:
		return s.StandQuery(q)
	case query.Trip:
		return s.TripQuery(q)
	case query.StandsForPlace:
		return s.StandsForPlaceQuery(q)
	}

	return nil, source.UnsupportedSourceError
}
