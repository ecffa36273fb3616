package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/mofussil/mofussil/pkg/dataaggregator"
	"github.com/mofussil/mofussil/pkg/dataaggregator/query"
	"github.com/mofussil/mofussil/pkg/rbdf"
	"github.com/mofussil/mofussil/pkg/redis_client"
	"github.com/mofussil/mofussil/pkg/searchstats"
	"github.com/rs/zerolog/log"
)

var plannerCache *cache.Cache[string]

// SetupPlannerCache wires the Redis response cache. A zero TTL or a dead
// Redis leaves the planner uncached, never broken.
func SetupPlannerCache(ttl time.Duration) {
	if !redis_client.Connected() || ttl <= 0 {
		return
	}

	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(ttl))
	plannerCache = cache.New[string](redisStore)
}

func PlannerRouter(router fiber.Router) {
	router.Get("/:origin/:destination", getRoutePlan)
}

func getRoutePlan(c *fiber.Ctx) error {
	originName, err := url.QueryUnescape(c.Params("origin"))
	if err != nil {
		originName = c.Params("origin")
	}
	destinationName, err := url.QueryUnescape(c.Params("destination"))
	if err != nil {
		destinationName = c.Params("destination")
	}

	var travelDate time.Time
	dateString := c.Query("date")
	if dateString != "" {
		travelDate, err = time.Parse("2006-01-02", dateString)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter date should be formatted YYYY-MM-DD",
			})
		}
	}

	maxResults := c.QueryInt("max_results")
	if maxResults < 0 {
		maxResults = 0
	}

	cacheKey := fmt.Sprintf("planner/%s/%s/%s/%d",
		strings.ToLower(originName), strings.ToLower(destinationName), dateString, maxResults)

	if plannerCache != nil && c.Query("fresh") != "true" {
		if cached, err := plannerCache.Get(context.Background(), cacheKey); err == nil && cached != "" {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(cached)
		}
	}

	startTime := time.Now()

	results, err := dataaggregator.Lookup[*rbdf.RouteSearchResults](query.RouteSearch{
		OriginPlaceName:      originName,
		DestinationPlaceName: destinationName,
		TravelDate:           travelDate,
	})
	if err != nil {
		if errors.Is(err, rbdf.ErrCatalogUnavailable) || errors.Is(err, rbdf.ErrDirectoryUnavailable) {
			c.SendStatus(fiber.StatusBadGateway)
		} else {
			c.SendStatus(fiber.StatusInternalServerError)
		}

		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	publishSearchEvent(results, originName, destinationName, travelDate, time.Since(startTime))

	if maxResults > 0 && len(results.Results) > maxResults {
		results.Results = results.Results[:maxResults]
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, results)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "could not reduce route search results",
		})
	}

	if plannerCache != nil && !results.Partial {
		if responseBytes, err := json.Marshal(reduced); err == nil {
			if err := plannerCache.Set(context.Background(), cacheKey, string(responseBytes)); err != nil {
				log.Debug().Err(err).Msg("Failed to cache planner response")
			}
		}
	}

	return c.JSON(reduced)
}

func publishSearchEvent(results *rbdf.RouteSearchResults, originName string, destinationName string, travelDate time.Time, duration time.Duration) {
	event := &searchstats.SearchEvent{
		OriginPlaceName:      originName,
		DestinationPlaceName: destinationName,
		TravelDate:           travelDate,
		UnresolvedPlaces:     results.UnresolvedPlaces,
		Partial:              results.Partial,
		Duration:             duration,
		CreationDateTime:     time.Now(),
	}

	for _, result := range results.Results {
		switch result.Kind {
		case rbdf.MatchKindDirect:
			event.DirectResults++
		case rbdf.MatchKindThroughStop:
			event.ThroughStopResults++
		case rbdf.MatchKindContinuing:
			event.ContinuingResults++
		case rbdf.MatchKindConnecting:
			event.ConnectingResults++
		}
	}

	searchstats.Publish(event)
}
