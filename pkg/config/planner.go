package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mofussil/mofussil/pkg/util"
	iso8601 "github.com/senseyeio/duration"
)

// Planner holds the tunables of the route resolution engine. Everything
// comes from MOFUSSIL_PLANNER_* environment variables with defaults sized
// for a single regional network.
type Planner struct {
	// MaxStandsPerPlace caps the fan-out when a place has many stands
	MaxStandsPerPlace int `validate:"required,min=1,max=16"`

	// TransferWindow is the longest acceptable wait at a connection stand
	TransferWindow time.Duration `validate:"required"`

	// QueryTimeout bounds one resolveRoutes call end to end
	QueryTimeout time.Duration `validate:"required"`

	// FanoutWorkers bounds the stand-pair resolver pool
	FanoutWorkers int `validate:"required,min=1"`

	// MaxResults truncates the ranked result list
	MaxResults int `validate:"required,min=1"`

	// CacheTTL for planner responses in Redis. Zero disables caching
	CacheTTL time.Duration
}

const (
	defaultMaxStandsPerPlace = 4
	defaultTransferWindow    = "PT3H"
	defaultQueryTimeout      = "10s"
	defaultFanoutWorkers     = 8
	defaultMaxResults        = 50
	defaultCacheTTL          = "PT2M"
)

func LoadPlanner() (Planner, error) {
	planner := Planner{}

	var err error

	planner.MaxStandsPerPlace, err = intEnv("MOFUSSIL_PLANNER_MAX_STANDS_PER_PLACE", defaultMaxStandsPerPlace)
	if err != nil {
		return planner, err
	}

	planner.TransferWindow, err = isoDurationEnv("MOFUSSIL_PLANNER_TRANSFER_WINDOW", defaultTransferWindow)
	if err != nil {
		return planner, err
	}

	queryTimeout := util.GetEnvDefault("MOFUSSIL_PLANNER_QUERY_TIMEOUT", defaultQueryTimeout)
	planner.QueryTimeout, err = time.ParseDuration(queryTimeout)
	if err != nil {
		return planner, fmt.Errorf("parse MOFUSSIL_PLANNER_QUERY_TIMEOUT: %w", err)
	}

	planner.FanoutWorkers, err = intEnv("MOFUSSIL_PLANNER_FANOUT_WORKERS", defaultFanoutWorkers)
	if err != nil {
		return planner, err
	}

	planner.MaxResults, err = intEnv("MOFUSSIL_PLANNER_MAX_RESULTS", defaultMaxResults)
	if err != nil {
		return planner, err
	}

	planner.CacheTTL, err = isoDurationEnv("MOFUSSIL_PLANNER_CACHE_TTL", defaultCacheTTL)
	if err != nil {
		return planner, err
	}

	validate := validator.New()
	if err := validate.Struct(planner); err != nil {
		return planner, fmt.Errorf("planner configuration invalid: %w", err)
	}

	return planner, nil
}

func intEnv(name string, fallback int) (int, error) {
	value := util.GetEnvDefault(name, strconv.Itoa(fallback))

	number, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}

	return number, nil
}

// isoDurationEnv reads an ISO8601 duration (eg. PT3H) the same way the
// dataset descriptors express refresh periods.
func isoDurationEnv(name string, fallback string) (time.Duration, error) {
	value := util.GetEnvDefault(name, fallback)

	isoDuration, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}

	epoch := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	return isoDuration.Shift(epoch).Sub(epoch), nil
}
