package global

import (
	"github.com/mofussil/mofussil/pkg/config"
	"github.com/mofussil/mofussil/pkg/dataaggregator"
	"github.com/mofussil/mofussil/pkg/dataaggregator/source/databaselookup"
	"github.com/mofussil/mofussil/pkg/dataaggregator/source/routeresolver"
	"github.com/mofussil/mofussil/pkg/place_directory"
	"github.com/mofussil/mofussil/pkg/trip_catalog"
)

func Setup() error {
	dataaggregator.GlobalAggregator = dataaggregator.Aggregator{}

	dataaggregator.GlobalAggregator.RegisterSource(databaselookup.Source{})

	plannerConfig, err := config.LoadPlanner()
	if err != nil {
		return err
	}

	dataaggregator.GlobalAggregator.RegisterSource(routeresolver.Source{
		Directory: place_directory.Directory{},
		Catalog:   trip_catalog.Catalog{},
		Config:    plannerConfig,
	})

	return nil
}
