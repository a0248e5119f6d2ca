package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	TaskTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdo_task_transitions_total",
			Help: "Task status changes by action and source/target status",
		},
		[]string{"action", "from", "to"},
	)

	AssignmentChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdo_assignment_relations_total",
			Help: "User-task relations created or removed by assignment",
		},
		[]string{"op"},
	)

	ReviewPending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sdo_review_pending",
			Help: "Task case memberships waiting for admin review",
		},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call twice.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(TaskTransitions)
		prometheus.MustRegister(AssignmentChanges)
		prometheus.MustRegister(ReviewPending)
	})
}

// ObserveTransition records one status change.
func ObserveTransition(action, from, to string) {
	TaskTransitions.WithLabelValues(action, from, to).Inc()
}

// ObserveAssignment records relations created and removed by one assignment or completion.
func ObserveAssignment(created, removed int64) {
	if created > 0 {
		AssignmentChanges.WithLabelValues("created").Add(float64(created))
	}
	if removed > 0 {
		AssignmentChanges.WithLabelValues("removed").Add(float64(removed))
	}
}

// MetricsMiddleware counts requests by route template. Scrapes of the
// metrics endpoint itself are not counted.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestCounter.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
