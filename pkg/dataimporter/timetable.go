package dataimporter

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/mofussil/mofussil/pkg/rbdf"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// TimetableRow is one CSV row of a timetable dataset. Each row is a single
// timed call, rows sharing a trip_id make up one Trip.
type TimetableRow struct {
	TripID      string `csv:"trip_id"`
	ServiceName string `csv:"service_name"`
	Stand       string `csv:"stand"`
	Sequence    int    `csv:"sequence"`
	Arrival     string `csv:"arrival"`
	Departure   string `csv:"departure"`
}

// ParseTimetable decodes timetable CSV rows into Trips. Trips whose visits
// are out of order or run backwards in time are dropped with a warning
// rather than poisoning the catalog.
func ParseTimetable(reader io.Reader, datasource *rbdf.DataSource) ([]*rbdf.Trip, error) {
	var rows []*TimetableRow
	if err := gocsv.Unmarshal(reader, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode timetable csv: %w", err)
	}

	now := time.Now()

	tripRows := map[string][]*TimetableRow{}
	var tripOrder []string

	for _, row := range rows {
		if row.TripID == "" || row.Stand == "" {
			return nil, fmt.Errorf("timetable row is missing trip_id or stand")
		}

		if _, seen := tripRows[row.TripID]; !seen {
			tripOrder = append(tripOrder, row.TripID)
		}
		tripRows[row.TripID] = append(tripRows[row.TripID], row)
	}

	var trips []*rbdf.Trip

	for _, tripID := range tripOrder {
		rowsForTrip := tripRows[tripID]

		slices.SortStableFunc(rowsForTrip, func(a *TimetableRow, b *TimetableRow) int {
			return a.Sequence - b.Sequence
		})

		trip := &rbdf.Trip{
			PrimaryIdentifier: fmt.Sprintf(rbdf.TripIDFormat, tripID),
			ServiceName:       rowsForTrip[0].ServiceName,

			CreationDateTime:     now,
			ModificationDateTime: now,

			DataSource: datasource,
		}

		malformed := false
		for _, row := range rowsForTrip {
			arrival, err := parseTimeOfDay(row.Arrival)
			if err != nil {
				log.Warn().Str("trip", tripID).Str("arrival", row.Arrival).Msg("Invalid arrival time")
				malformed = true
				break
			}
			departure, err := parseTimeOfDay(row.Departure)
			if err != nil {
				log.Warn().Str("trip", tripID).Str("departure", row.Departure).Msg("Invalid departure time")
				malformed = true
				break
			}

			trip.Visits = append(trip.Visits, &rbdf.Visit{
				StandRef: fmt.Sprintf(rbdf.StandIDFormat, row.Stand),

				Sequence: row.Sequence,

				ArrivalTime:   arrival,
				DepartureTime: departure,
			})
		}

		if malformed {
			continue
		}

		if err := trip.CheckVisitOrder(); err != nil {
			log.Warn().Err(err).Str("trip", tripID).Msg("Dropping trip with out of order visits")
			continue
		}

		trips = append(trips, trip)
	}

	return trips, nil
}

// parseTimeOfDay parses "15:04" onto the zero date, matching how Visit
// times are stored. An empty field decodes to the zero time so a terminus
// can omit its arrival or departure.
func parseTimeOfDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	return time.Parse("15:04", value)
}
