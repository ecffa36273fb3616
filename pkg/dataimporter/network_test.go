package dataimporter

import (
	"strings"
	"testing"

	"github.com/mofussil/mofussil/pkg/rbdf"
)

func testDataSource() *rbdf.DataSource {
	return &rbdf.DataSource{
		OriginalFormat: "busnet-yaml",
		Provider:       "Test Provider",
		Dataset:        "test-dataset",
		Identifier:     "test.yaml",
	}
}

func TestParseNetwork(t *testing.T) {
	document := `
dataset: tn-south-2026
identifier: madurai
name: Madurai
district: Madurai
stands:
  - identifier: madurai-arapalayam
    name: Arapalayam
    category: main
    latitude: 9.9335
    longitude: 78.0974
  - identifier: madurai-mattuthavani
    name: Mattuthavani
    category: regional
---
identifier: usilampatti
name: Usilampatti
district: Madurai
`

	places, stands, err := ParseNetwork(strings.NewReader(document), testDataSource())
	if err != nil {
		t.Fatalf("ParseNetwork: %v", err)
	}

	if len(places) != 2 {
		t.Fatalf("places = %d, want 2", len(places))
	}
	if len(stands) != 2 {
		t.Fatalf("stands = %d, want 2", len(stands))
	}

	madurai := places[0]
	if madurai.PrimaryIdentifier != "IN:PLACE:madurai" {
		t.Errorf("PrimaryIdentifier = %q", madurai.PrimaryIdentifier)
	}
	if madurai.SearchName != "madurai" {
		t.Errorf("SearchName = %q, want madurai", madurai.SearchName)
	}
	if madurai.DataSource.Dataset != "tn-south-2026" {
		t.Errorf("Dataset = %q, want document value to win", madurai.DataSource.Dataset)
	}

	if places[1].DataSource.Dataset != "test-dataset" {
		t.Errorf("Dataset = %q, want fallback to source dataset", places[1].DataSource.Dataset)
	}

	arapalayam := stands[0]
	if arapalayam.PlaceRef != "IN:PLACE:madurai" {
		t.Errorf("PlaceRef = %q", arapalayam.PlaceRef)
	}
	if arapalayam.Category != rbdf.StandCategoryMain {
		t.Errorf("Category = %q", arapalayam.Category)
	}
	if arapalayam.Location == nil || arapalayam.Location.Coordinates[0] != 78.0974 {
		t.Errorf("Location = %v, want longitude first", arapalayam.Location)
	}

	if stands[1].Category != rbdf.StandCategoryRegional {
		t.Errorf("Category = %q, want Regional", stands[1].Category)
	}
	if stands[1].Location != nil {
		t.Errorf("Location = %v, want nil when no coordinates given", stands[1].Location)
	}
}

func TestParseNetworkRejectsMissingIdentifier(t *testing.T) {
	document := `
name: Madurai
district: Madurai
`

	_, _, err := ParseNetwork(strings.NewReader(document), testDataSource())
	if err == nil {
		t.Fatal("ParseNetwork accepted a place with no identifier")
	}
}

func TestParseNetworkRejectsUnnamedStand(t *testing.T) {
	document := `
identifier: madurai
name: Madurai
stands:
  - identifier: madurai-arapalayam
`

	_, _, err := ParseNetwork(strings.NewReader(document), testDataSource())
	if err == nil {
		t.Fatal("ParseNetwork accepted a stand with no name")
	}
}
