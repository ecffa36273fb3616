package main

import (
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mofussil/mofussil/pkg/api"
	"github.com/mofussil/mofussil/pkg/dataimporter"
	"github.com/mofussil/mofussil/pkg/indexer"
	"github.com/mofussil/mofussil/pkg/metrics"
	"github.com/mofussil/mofussil/pkg/searchstats"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	_ "time/tzdata"
)

func main() {
	godotenv.Load()

	setupLogger()

	metrics.StartListener()

	app := &cli.App{
		Name:        "mofussil",
		Description: "Single binary of truth for mofussil - runs all the services",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			dataimporter.RegisterCLI(),
			indexer.RegisterCLI(),
			searchstats.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

func setupLogger() {
	var sink io.Writer = os.Stdout

	if logFile := os.Getenv("MOFUSSIL_LOG_FILE"); logFile != "" {
		sink = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
		})
	}

	if os.Getenv("MOFUSSIL_LOG_FORMAT") != "JSON" {
		sink = zerolog.ConsoleWriter{Out: sink, TimeFormat: time.RFC3339}
	}
	log.Logger = log.Output(sink)

	if os.Getenv("MOFUSSIL_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}
}
