package api

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/mofussil/mofussil/pkg/dataaggregator"
	"github.com/mofussil/mofussil/pkg/rbdf"
)

type fakeRouteSource struct {
	results *rbdf.RouteSearchResults
	err     error
}

func (s fakeRouteSource) GetName() string {
	return "Fake Route Source"
}

func (s fakeRouteSource) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(rbdf.RouteSearchResults{}),
	}
}

func (s fakeRouteSource) Lookup(q any) (interface{}, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.results, nil
}

func registerFakeSource(source dataaggregator.DataSource) {
	dataaggregator.GlobalAggregator = dataaggregator.Aggregator{}
	dataaggregator.GlobalAggregator.RegisterSource(source)
}

func TestVersionEndpoint(t *testing.T) {
	app := CreateServer()

	resp, err := app.Test(httptest.NewRequest("GET", "/core/version", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestPlannerRejectsMalformedDate(t *testing.T) {
	registerFakeSource(fakeRouteSource{results: &rbdf.RouteSearchResults{}})

	app := CreateServer()

	resp, err := app.Test(httptest.NewRequest("GET", "/core/planner/Chennai/Coimbatore?date=31-01-2026", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPlannerCatalogFailureIsBadGateway(t *testing.T) {
	registerFakeSource(fakeRouteSource{err: rbdf.ErrCatalogUnavailable})

	app := CreateServer()

	resp, err := app.Test(httptest.NewRequest("GET", "/core/planner/Chennai/Coimbatore", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	if resp.StatusCode != 502 {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestPlannerUnknownPlaceIsNotAnError(t *testing.T) {
	registerFakeSource(fakeRouteSource{results: &rbdf.RouteSearchResults{
		Results:          []*rbdf.SearchResult{},
		UnresolvedPlaces: []string{"Nowhereville"},
	}})

	app := CreateServer()

	resp, err := app.Test(httptest.NewRequest("GET", "/core/planner/Nowhereville/Madurai", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)

	var decoded struct {
		UnresolvedPlaces []string
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if len(decoded.UnresolvedPlaces) != 1 || decoded.UnresolvedPlaces[0] != "Nowhereville" {
		t.Errorf("UnresolvedPlaces = %v, want [Nowhereville]", decoded.UnresolvedPlaces)
	}
}
