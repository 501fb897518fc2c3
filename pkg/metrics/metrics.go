package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
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
	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_quotes_total",
			Help: "Total number of fare quote requests",
		},
		[]string{"status"},
	)

	TicketsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_tickets_total",
			Help: "Total number of confirmations, by result (created, existing, error)",
		},
		[]string{"result"},
	)

	FareAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fare_ticket_amount",
			Help:    "Confirmed fare amounts in minor currency units",
			Buckets: prometheus.ExponentialBuckets(5000, 1.5, 10),
		},
	)

	LocationSamplesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bus_location_samples_total",
			Help: "Total number of recorded bus location samples",
		},
		[]string{"status"},
	)

	TerminalTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terminal_transitions_total",
			Help: "Driver terminal state transitions",
		},
		[]string{"from", "to"},
	)

	FareEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_events_published_total",
			Help: "Fare lifecycle events handed to the notifier transport",
		},
		[]string{"transport", "type", "status"},
	)

	FareEventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_events_received_total",
			Help: "Fare lifecycle events delivered to subscribers",
		},
		[]string{"transport", "type"},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"service", "operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache lookups by result (hit, miss, error)",
		},
		[]string{"cache", "result"},
	)
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	code := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, code).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, code).Observe(duration.Seconds())
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(service, operation string, err error, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(service, operation, status(err)).Inc()
	DatabaseQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

func RecordQuote(err error) {
	QuotesTotal.WithLabelValues(status(err)).Inc()
}

func RecordTicket(result string, fare int64) {
	TicketsTotal.WithLabelValues(result).Inc()
	if result == "created" {
		FareAmount.Observe(float64(fare))
	}
}

func RecordLocationSample(err error) {
	LocationSamplesTotal.WithLabelValues(status(err)).Inc()
}

func RecordTransition(from, to string) {
	TerminalTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordFareEventPublish records a publish attempt on the notifier transport
func RecordFareEventPublish(transport, eventType string, err error) {
	FareEventsPublished.WithLabelValues(transport, eventType, status(err)).Inc()
}

func RecordFareEventReceived(transport, eventType string) {
	FareEventsReceived.WithLabelValues(transport, eventType).Inc()
}

func RecordCache(cache, result string) {
	CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}
