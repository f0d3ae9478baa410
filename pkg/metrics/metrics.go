package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sessions source labels.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	SessionsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "study_sessions_ingested_total",
			Help: "Total number of study sessions persisted",
		},
		[]string{"channel"},
	)

	SessionListingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "study_session_listings_total",
			Help: "Session listings served, by the source that answered",
		},
		[]string{"source"},
	)

	RemoteFetchFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "remote_sessions_fetch_failures_total",
			Help: "Remote session fetches that failed and fell back to the local store",
		},
	)

	RemoteFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "remote_sessions_fetch_duration_seconds",
			Help:    "Duration of remote session fetches including retries",
			Buckets: prometheus.DefBuckets,
		},
	)

	WebSocketConnectionsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of live session feed connections",
		},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"exchange", "event", "status"},
	)

	RabbitMQMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_consumed_total",
			Help: "Total number of messages consumed from RabbitMQ",
		},
		[]string{"queue", "status"},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(operation string, err error, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(operation, statusOf(err)).Inc()
	DatabaseQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRabbitMQPublish counts a publish by exchange and event kind.
// Per-entity routing key suffixes must not be passed as event.
func RecordRabbitMQPublish(exchange, event string, err error) {
	RabbitMQMessagesPublished.WithLabelValues(exchange, event, statusOf(err)).Inc()
}

// RecordRabbitMQConsume records RabbitMQ consume metrics
func RecordRabbitMQConsume(queue string, err error) {
	RabbitMQMessagesConsumed.WithLabelValues(queue, statusOf(err)).Inc()
}

// RecordSessionListing counts a listing served from source and, for remote
// failures, the fallback.
func RecordSessionListing(source string, remoteFailed bool) {
	SessionListingsTotal.WithLabelValues(source).Inc()
	if remoteFailed {
		RemoteFetchFailuresTotal.Inc()
	}
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
