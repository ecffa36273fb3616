package searchstats

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/mofussil/mofussil/pkg/database"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS search_events (
	id                     BIGSERIAL PRIMARY KEY,
	origin_place_name      TEXT NOT NULL,
	destination_place_name TEXT NOT NULL,
	travel_date            DATE,
	direct_results         INT NOT NULL,
	through_stop_results   INT NOT NULL,
	continuing_results     INT NOT NULL,
	connecting_results     INT NOT NULL,
	unresolved_places      TEXT,
	partial                BOOLEAN NOT NULL,
	duration_ms            BIGINT NOT NULL,
	created_at             TIMESTAMPTZ NOT NULL
)`

func CreateTables() error {
	_, err := database.PostgresPool.Exec(context.Background(), createTableSQL)

	return err
}

const insertEventSQL = `
INSERT INTO search_events (
	origin_place_name, destination_place_name, travel_date,
	direct_results, through_stop_results, continuing_results, connecting_results,
	unresolved_places, partial, duration_ms, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// InsertEvents writes a consumed batch in one round trip.
func InsertEvents(ctx context.Context, events []*SearchEvent) error {
	batch := &pgx.Batch{}

	for _, event := range events {
		batch.Queue(insertEventSQL,
			event.OriginPlaceName,
			event.DestinationPlaceName,
			event.TravelDate,
			event.DirectResults,
			event.ThroughStopResults,
			event.ContinuingResults,
			event.ConnectingResults,
			strings.Join(event.UnresolvedPlaces, ","),
			event.Partial,
			event.Duration.Milliseconds(),
			event.CreationDateTime,
		)
	}

	results := database.PostgresPool.SendBatch(ctx, batch)

	return results.Close()
}
