package searchstats

import (
	"github.com/mofussil/mofussil/pkg/database"
	"github.com/mofussil/mofussil/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "search-stats",
		Usage: "Search event collection",
		Subcommands: []*cli.Command{
			{
				Name:  "consumer",
				Usage: "consume search events into Postgres",
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}
					if err := database.ConnectPostgres(); err != nil {
						return err
					}
					if err := CreateTables(); err != nil {
						return err
					}

					StartConsumers()

					return nil
				},
			},
		},
	}
}
