package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns OpenTelemetry tracing middleware. Each span carries the
// request ID set by the RequestID middleware, and the span name follows the
// route pattern (e.g. "GET /api/v1/products/:productId").
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	base := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		base(c)

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if requestID := c.GetString("request_id"); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
	}
}

// SpanErrorMarker marks spans with error status for 4xx/5xx responses.
// Place it after the Tracing middleware.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status >= http.StatusBadRequest {
			msg := "Client Error"
			if status >= http.StatusInternalServerError {
				msg = "Internal Server Error"
			}
			span.SetStatus(codes.Error, msg)
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
	}
}
