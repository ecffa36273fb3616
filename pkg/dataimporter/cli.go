package dataimporter

import (
	"os"
	"path/filepath"

	"github.com/mofussil/mofussil/pkg/database"
	"github.com/mofussil/mofussil/pkg/rbdf"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Import bus network & timetable datasets into Mongo",
		Subcommands: []*cli.Command{
			{
				Name:  "network",
				Usage: "Import a bus-network dataset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path of the network YAML file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "timetable",
						Usage: "Path of an accompanying timetable CSV file",
					},
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Name of the dataset provider",
						Value: "Unknown",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					networkPath := c.String("file")
					timetablePath := c.String("timetable")

					datasource := &rbdf.DataSource{
						OriginalFormat: "busnet-yaml",
						Provider:       c.String("provider"),
						Dataset:        filepath.Base(networkPath),
						Identifier:     networkPath,
					}

					if err := importNetwork(networkPath, datasource); err != nil {
						return err
					}

					if timetablePath != "" {
						timetableSource := &rbdf.DataSource{
							OriginalFormat: "timetable-csv",
							Provider:       datasource.Provider,
							Dataset:        filepath.Base(timetablePath),
							Identifier:     timetablePath,
						}

						if err := importTimetable(timetablePath, timetableSource); err != nil {
							return err
						}
					}

					return nil
				},
			},
		},
	}
}

func importNetwork(path string, datasource *rbdf.DataSource) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	places, stands, err := ParseNetwork(file, datasource)
	if err != nil {
		return err
	}

	log.Info().Int("places", len(places)).Int("stands", len(stands)).Str("file", path).Msg("Parsed network dataset")

	upsertRecords("places", func(place *rbdf.Place) string {
		return place.PrimaryIdentifier
	}, places)
	upsertRecords("stands", func(stand *rbdf.Stand) string {
		return stand.PrimaryIdentifier
	}, stands)

	return nil
}

func importTimetable(path string, datasource *rbdf.DataSource) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	trips, err := ParseTimetable(file, datasource)
	if err != nil {
		return err
	}

	log.Info().Int("trips", len(trips)).Str("file", path).Msg("Parsed timetable dataset")

	upsertRecords("trips", func(trip *rbdf.Trip) string {
		return trip.PrimaryIdentifier
	}, trips)

	return nil
}
