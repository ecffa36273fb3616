package config

import (
	"testing"
	"time"
)

func TestLoadPlannerDefaults(t *testing.T) {
	planner, err := LoadPlanner()
	if err != nil {
		t.Fatalf("LoadPlanner: %v", err)
	}

	if planner.MaxStandsPerPlace != 4 {
		t.Errorf("MaxStandsPerPlace = %d, want 4", planner.MaxStandsPerPlace)
	}

	if planner.TransferWindow != 3*time.Hour {
		t.Errorf("TransferWindow = %s, want 3h", planner.TransferWindow)
	}

	if planner.QueryTimeout != 10*time.Second {
		t.Errorf("QueryTimeout = %s, want 10s", planner.QueryTimeout)
	}

	if planner.CacheTTL != 2*time.Minute {
		t.Errorf("CacheTTL = %s, want 2m", planner.CacheTTL)
	}
}

func TestLoadPlannerOverrides(t *testing.T) {
	t.Setenv("MOFUSSIL_PLANNER_TRANSFER_WINDOW", "PT90M")
	t.Setenv("MOFUSSIL_PLANNER_MAX_STANDS_PER_PLACE", "2")
	t.Setenv("MOFUSSIL_PLANNER_QUERY_TIMEOUT", "2s")

	planner, err := LoadPlanner()
	if err != nil {
		t.Fatalf("LoadPlanner: %v", err)
	}

	if planner.TransferWindow != 90*time.Minute {
		t.Errorf("TransferWindow = %s, want 90m", planner.TransferWindow)
	}

	if planner.MaxStandsPerPlace != 2 {
		t.Errorf("MaxStandsPerPlace = %d, want 2", planner.MaxStandsPerPlace)
	}

	if planner.QueryTimeout != 2*time.Second {
		t.Errorf("QueryTimeout = %s, want 2s", planner.QueryTimeout)
	}
}

func TestLoadPlannerRejectsBadValues(t *testing.T) {
	t.Setenv("MOFUSSIL_PLANNER_TRANSFER_WINDOW", "three hours")

	if _, err := LoadPlanner(); err == nil {
		t.Error("expected error for malformed ISO8601 duration")
	}
}

func TestLoadPlannerValidation(t *testing.T) {
	t.Setenv("MOFUSSIL_PLANNER_MAX_STANDS_PER_PLACE", "0")

	if _, err := LoadPlanner(); err == nil {
		t.Error("expected validation error for zero stand cap")
	}
}
