package dataimporter

import (
	"strings"
	"testing"
)

func TestParseTimetable(t *testing.T) {
	csv := strings.Join([]string{
		"trip_id,service_name,stand,sequence,arrival,departure",
		"trip-1,27D,madurai-arapalayam,1,,06:00",
		"trip-1,27D,usilampatti-main,2,07:10,07:15",
		"trip-1,27D,theni-main,3,08:30,",
		"trip-2,48,theni-main,1,,09:00",
		"trip-2,48,madurai-arapalayam,2,10:45,",
	}, "\n")

	trips, err := ParseTimetable(strings.NewReader(csv), testDataSource())
	if err != nil {
		t.Fatalf("ParseTimetable: %v", err)
	}

	if len(trips) != 2 {
		t.Fatalf("trips = %d, want 2", len(trips))
	}

	trip := trips[0]
	if trip.PrimaryIdentifier != "IN:TRIP:trip-1" {
		t.Errorf("PrimaryIdentifier = %q", trip.PrimaryIdentifier)
	}
	if trip.ServiceName != "27D" {
		t.Errorf("ServiceName = %q", trip.ServiceName)
	}
	if len(trip.Visits) != 3 {
		t.Fatalf("visits = %d, want 3", len(trip.Visits))
	}
	if trip.Visits[0].StandRef != "IN:STAND:madurai-arapalayam" {
		t.Errorf("StandRef = %q", trip.Visits[0].StandRef)
	}
	if !trip.Visits[0].ArrivalTime.IsZero() {
		t.Errorf("origin arrival should stay zero, got %v", trip.Visits[0].ArrivalTime)
	}
	if got := trip.Visits[1].DepartureTime.Format("15:04"); got != "07:15" {
		t.Errorf("departure = %s, want 07:15", got)
	}
}

func TestParseTimetableOrdersBySequence(t *testing.T) {
	csv := strings.Join([]string{
		"trip_id,service_name,stand,sequence,arrival,departure",
		"trip-1,27D,theni-main,3,08:30,",
		"trip-1,27D,madurai-arapalayam,1,,06:00",
		"trip-1,27D,usilampatti-main,2,07:10,07:15",
	}, "\n")

	trips, err := ParseTimetable(strings.NewReader(csv), testDataSource())
	if err != nil {
		t.Fatalf("ParseTimetable: %v", err)
	}

	if len(trips) != 1 {
		t.Fatalf("trips = %d, want 1", len(trips))
	}

	trip := trips[0]
	for index, wantStand := range []string{"IN:STAND:madurai-arapalayam", "IN:STAND:usilampatti-main", "IN:STAND:theni-main"} {
		if trip.Visits[index].StandRef != wantStand {
			t.Errorf("visit %d = %q, want %q", index, trip.Visits[index].StandRef, wantStand)
		}
	}
}

func TestParseTimetableDropsBackwardsTrip(t *testing.T) {
	csv := strings.Join([]string{
		"trip_id,service_name,stand,sequence,arrival,departure",
		"trip-bad,27D,madurai-arapalayam,1,,08:00",
		"trip-bad,27D,usilampatti-main,2,07:10,07:15",
		"trip-good,48,theni-main,1,,09:00",
		"trip-good,48,madurai-arapalayam,2,10:45,",
	}, "\n")

	trips, err := ParseTimetable(strings.NewReader(csv), testDataSource())
	if err != nil {
		t.Fatalf("ParseTimetable: %v", err)
	}

	if len(trips) != 1 {
		t.Fatalf("trips = %d, want only the well formed trip", len(trips))
	}
	if trips[0].PrimaryIdentifier != "IN:TRIP:trip-good" {
		t.Errorf("kept trip = %q", trips[0].PrimaryIdentifier)
	}
}

func TestParseTimetableDropsInvalidTime(t *testing.T) {
	csv := strings.Join([]string{
		"trip_id,service_name,stand,sequence,arrival,departure",
		"trip-bad,27D,madurai-arapalayam,1,,6 o'clock",
		"trip-bad,27D,usilampatti-main,2,07:10,07:15",
	}, "\n")

	trips, err := ParseTimetable(strings.NewReader(csv), testDataSource())
	if err != nil {
		t.Fatalf("ParseTimetable: %v", err)
	}

	if len(trips) != 0 {
		t.Fatalf("trips = %d, want 0", len(trips))
	}
}
