package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestEndRecordsError(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartSpan(context.Background(), "op")
	End(span, errors.New("boom"))
	_, ok := StartSpan(context.Background(), "ok")
	End(ok, nil)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
}

func TestGinMiddlewareNamesSpanByRoute(t *testing.T) {
	rec := withRecorder(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/taskcases/:id", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/taskcases/4", nil))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/taskcases/:id", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
