package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware returns otelgin followed by a handler that adds request
// attributes to the server span. Register both with router.Use(...).
func TracingMiddleware(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName),
		annotateSpan,
	}
}

func annotateSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		c.Next()
		return
	}

	if requestID := c.GetString("request_id"); requestID != "" {
		span.SetAttributes(attribute.String("request.id", requestID))
	}
	for _, param := range []string{"pageNumber", "pageSize", "commentPageNumber", "commentsPerPage", "includeComments"} {
		if v := c.Query(param); v != "" {
			span.SetAttributes(attribute.String("query."+param, v))
		}
	}

	c.Next()

	// user_id is only known once the auth middleware has run
	if userID, ok := c.Get("user_id"); ok {
		if id, ok := userID.(uint); ok {
			span.SetAttributes(attribute.Int64("user.id", int64(id)))
		}
	}
	for _, ginErr := range c.Errors {
		if ginErr.Err != nil {
			span.RecordError(ginErr.Err)
			span.SetStatus(codes.Error, ginErr.Error())
		}
	}
}
