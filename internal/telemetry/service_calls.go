package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TraceExternalCall starts a client span named "<service>.<operation>"
func TraceExternalCall(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer("external-api")

	attrs = append(attrs,
		attribute.String("service.name", service),
		attribute.String("service.operation", operation),
	)
	return tracer.Start(ctx, fmt.Sprintf("%s.%s", service, operation),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// TraceS3Call traces an object storage operation
func TraceS3Call(ctx context.Context, operation, bucket, key string) (context.Context, trace.Span) {
	return TraceExternalCall(ctx, "s3", operation,
		attribute.String("s3.bucket", bucket),
		attribute.String("s3.key", key),
	)
}

// TraceCacheCall traces a Redis operation
func TraceCacheCall(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return TraceExternalCall(ctx, "redis", operation,
		attribute.String("cache.key", key),
	)
}

// TraceBotCommand traces the handling of one chat message
func TraceBotCommand(ctx context.Context, chatID int64, command string) (context.Context, trace.Span) {
	return otel.Tracer("bot").Start(ctx, "bot.command",
		trace.WithAttributes(
			attribute.Int64("bot.chat_id", chatID),
			attribute.String("bot.command", command),
		),
	)
}

// RecordServiceError marks span as failed
func RecordServiceError(span trace.Span, service string, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, fmt.Sprintf("%s error: %v", service, err))
}
