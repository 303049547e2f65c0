package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairing_http_requests_total",
			Help: "Total number of HTTP requests processed by the pairing service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pairing_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pairing_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairing_ws_events_total",
			Help: "Total number of websocket events by name.",
		},
		[]string{"event"},
	)
	waitingPoolSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pairing_waiting_pool_size",
			Help: "Current number of entries in the waiting pool.",
		},
	)
	sessionsFormedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pairing_sessions_formed_total",
			Help: "Total number of sessions formed by the matchmaker.",
		},
	)
	answersRelayedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairing_answers_relayed_total",
			Help: "Total number of answers relayed to session co-members.",
		},
		[]string{"event"},
	)
	relayDropsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pairing_relay_drops_total",
			Help: "Total number of relays dropped because the recipient was gone.",
		},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pairing_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		wsEventsTotal,
		waitingPoolSize,
		sessionsFormedTotal,
		answersRelayedTotal,
		relayDropsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func SetWaitingPoolSize(n int) {
	waitingPoolSize.Set(float64(n))
}

func IncSessionFormed() {
	sessionsFormedTotal.Inc()
}

func IncAnswerRelayed(event string) {
	answersRelayedTotal.WithLabelValues(event).Inc()
}

func IncRelayDrop() {
	relayDropsTotal.Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
