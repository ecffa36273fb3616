package searchstats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/kr/pretty"
	"github.com/mofussil/mofussil/pkg/database"
	"github.com/mofussil/mofussil/pkg/redis_client"
	"github.com/rs/zerolog/log"
)

const numConsumers = 2
const batchSize = 50

func StartConsumers() {
	log.Info().Str("queue", queueName).Msg("Starting search-stats consumers")

	queue, err := redis_client.QueueConnection.OpenQueue(queueName)
	if err != nil {
		panic(err)
	}
	if err := queue.StartConsuming(int64(numConsumers*batchSize), 1*time.Second); err != nil {
		panic(err)
	}

	for i := 0; i < numConsumers; i++ {
		go startQueueConsumer(queue, i)
	}

	startStatsServer()
}

func startQueueConsumer(queue rmq.Queue, id int) {
	log.Info().Msgf("Starting %s consumer %d", queueName, id)

	if _, err := queue.AddBatchConsumer(fmt.Sprintf("search-events-%d", id), batchSize, 2*time.Second, NewBatchConsumer(id)); err != nil {
		panic(err)
	}
}

type BatchConsumer struct {
	id int

	debug bool
}

func NewBatchConsumer(id int) *BatchConsumer {
	return &BatchConsumer{
		id:    id,
		debug: os.Getenv("MOFUSSIL_DEBUG") == "YES",
	}
}

func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	events := make([]*SearchEvent, 0, len(payloads))
	for _, payload := range payloads {
		var event *SearchEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Error().Err(err).Msg("Failed to decode search event")
			continue
		}

		if consumer.debug {
			pretty.Println(event)
		}

		events = append(events, event)
	}

	if len(events) > 0 {
		if err := InsertEvents(context.Background(), events); err != nil {
			log.Error().Err(err).Int("events", len(events)).Msg("Failed to insert search events")
			batch.Reject()
			return
		}
	}

	batch.Ack()
}

func startStatsServer() {
	http.Handle("/search-events/stats", &statsServerHandler{redisConnection: redis_client.QueueConnection})
	http.Handle("/health", &healthHandler{})

	log.Info().Msg("Stats server listening on http://localhost:3333/search-events/stats")
	if err := http.ListenAndServe(":3333", nil); err != nil {
		panic(err)
	}
}

type statsServerHandler struct {
	redisConnection rmq.Connection
}

func (handler *statsServerHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	layout := request.FormValue("layout")
	refresh := request.FormValue("refresh")

	queues, err := handler.redisConnection.GetOpenQueues()
	if err != nil {
		panic(err)
	}

	stats, err := handler.redisConnection.CollectStats(queues)
	if err != nil {
		panic(err)
	}

	fmt.Fprint(writer, stats.GetHtml(layout, refresh))
}

type healthHandler struct {
}

func (handler *healthHandler) ServeHTTP(writer http.ResponseWriter, _ *http.Request) {
	testRedis := redis_client.Client.ClientID(context.TODO())
	if testRedis.Err() != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, testRedis.Err())

		return
	}

	if err := database.PostgresPool.Ping(context.TODO()); err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)

		return
	}

	writer.WriteHeader(http.StatusOK)
	fmt.Fprint(writer, "ok")
}
