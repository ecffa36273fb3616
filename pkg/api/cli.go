package api

import (
	"github.com/mofussil/mofussil/pkg/api/routes"
	"github.com/mofussil/mofussil/pkg/config"
	"github.com/mofussil/mofussil/pkg/database"
	"github.com/mofussil/mofussil/pkg/dataaggregator/global"
	"github.com/mofussil/mofussil/pkg/elastic_client"
	"github.com/mofussil/mofussil/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the core web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}

					// Redis powers the planner cache and the search
					// event queue; both degrade gracefully without it
					if err := redis_client.Connect(); err != nil {
						log.Warn().Err(err).Msg("Redis unavailable - planner cache and search events disabled")
					}

					plannerConfig, err := config.LoadPlanner()
					if err != nil {
						return err
					}

					if err := global.Setup(); err != nil {
						return err
					}

					routes.SetupPlannerCache(plannerConfig.CacheTTL)

					return SetupServer(c.String("listen"))
				},
			},
		},
	}
}
