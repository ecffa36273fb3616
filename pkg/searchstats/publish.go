package searchstats

import (
	"encoding/json"
	"sync"

	"github.com/adjust/rmq/v5"
	"github.com/mofussil/mofussil/pkg/metrics"
	"github.com/mofussil/mofussil/pkg/redis_client"
	"github.com/rs/zerolog/log"
)

const queueName = "search-events"

var eventQueue rmq.Queue
var openQueueOnce sync.Once

// Publish pushes a search event onto the stats queue. Publishing is
// best-effort - a dead Redis must never fail the query that produced the
// event.
func Publish(event *SearchEvent) {
	if !redis_client.Connected() {
		return
	}

	openQueueOnce.Do(func() {
		queue, err := redis_client.QueueConnection.OpenQueue(queueName)
		if err != nil {
			log.Error().Err(err).Msg("Failed to open search-events queue")
			return
		}

		eventQueue = queue
	})

	if eventQueue == nil {
		return
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal search event")
		return
	}

	if err := eventQueue.PublishBytes(eventBytes); err != nil {
		log.Error().Err(err).Msg("Failed to publish search event")
		return
	}

	metrics.SearchEventsPublished.Inc()
}
