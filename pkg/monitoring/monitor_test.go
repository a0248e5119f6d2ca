package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveTransition(t *testing.T) {
	c := TaskTransitions.WithLabelValues("accept", "CHECK", "ACCEPT")
	before := testutil.ToFloat64(c)

	ObserveTransition("accept", "CHECK", "ACCEPT")

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestObserveAssignmentSkipsZero(t *testing.T) {
	created := testutil.ToFloat64(AssignmentChanges.WithLabelValues("created"))
	removed := testutil.ToFloat64(AssignmentChanges.WithLabelValues("removed"))

	ObserveAssignment(3, 0)

	assert.Equal(t, created+3, testutil.ToFloat64(AssignmentChanges.WithLabelValues("created")))
	assert.Equal(t, removed, testutil.ToFloat64(AssignmentChanges.WithLabelValues("removed")))
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Init()
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/api/tasks/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", PrometheusHandler())

	hits := RequestCounter.WithLabelValues(http.MethodGet, "/api/tasks/:id", "200")
	before := testutil.ToFloat64(hits)
	scrapes := RequestCounter.WithLabelValues(http.MethodGet, "/metrics", "200")
	scrapesBefore := testutil.ToFloat64(scrapes)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tasks/7", nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(hits))
	assert.Equal(t, scrapesBefore, testutil.ToFloat64(scrapes))
	assert.Contains(t, w.Body.String(), "sdo_task_transitions_total")
}
