package telemetry

import (
	"fmt"
	"strings"
	"time"

	"github.com/blogworks/postapi/internal/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	dbSystemKey    = "db.system"
	dbTableKey     = "db.table"
	dbOperationKey = "db.operation"
	dbStatementKey = "db.statement"

	spanKey      = "telemetry:span"
	startTimeKey = "telemetry:start"
	operationKey = "telemetry:operation"
)

// GORMPlugin returns a GORM plugin that traces every query and records its
// latency in the database metrics. A nil provider uses the global one.
func GORMPlugin(tp trace.TracerProvider) gorm.Plugin {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &tracingPlugin{
		tracer: tp.Tracer("gorm"),
	}
}

type tracingPlugin struct {
	tracer trace.Tracer
}

func (p *tracingPlugin) Name() string {
	return "telemetry:tracing"
}

func (p *tracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	register := []struct {
		name string
		err  error
	}{
		{"before_query", cb.Query().Before("gorm:query").Register("telemetry:before_query", p.before("SELECT"))},
		{"before_create", cb.Create().Before("gorm:create").Register("telemetry:before_create", p.before("INSERT"))},
		{"before_update", cb.Update().Before("gorm:update").Register("telemetry:before_update", p.before("UPDATE"))},
		{"before_delete", cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", p.before("DELETE"))},
		{"before_row", cb.Row().Before("gorm:row").Register("telemetry:before_row", p.before("SELECT"))},
		{"after_query", cb.Query().After("gorm:query").Register("telemetry:after_query", p.after)},
		{"after_create", cb.Create().After("gorm:create").Register("telemetry:after_create", p.after)},
		{"after_update", cb.Update().After("gorm:update").Register("telemetry:after_update", p.after)},
		{"after_delete", cb.Delete().After("gorm:delete").Register("telemetry:after_delete", p.after)},
		{"after_row", cb.Row().After("gorm:row").Register("telemetry:after_row", p.after)},
	}
	for _, r := range register {
		if r.err != nil {
			return fmt.Errorf("failed to register %s callback: %w", r.name, r.err)
		}
	}
	return nil
}

func (p *tracingPlugin) before(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}

		_, span := p.tracer.Start(ctx, "db."+strings.ToLower(operation),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String(dbSystemKey, db.Dialector.Name()),
				attribute.String(dbTableKey, tableName(db)),
				attribute.String(dbOperationKey, operation),
			),
		)

		db.InstanceSet(spanKey, span)
		db.InstanceSet(startTimeKey, time.Now())
		db.InstanceSet(operationKey, operation)
	}
}

func (p *tracingPlugin) after(db *gorm.DB) {
	spanRaw, exists := db.InstanceGet(spanKey)
	if !exists {
		return
	}
	span, ok := spanRaw.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	operation, _ := db.InstanceGet(operationKey)
	op, _ := operation.(string)
	table := tableName(db)

	status := "success"
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		status = "error"
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startRaw, ok := db.InstanceGet(startTimeKey); ok {
		if start, ok := startRaw.(time.Time); ok {
			elapsed := time.Since(start)
			span.SetAttributes(attribute.Int64("db.duration_ms", elapsed.Milliseconds()))
			metrics.Get().DatabaseQueryDuration.WithLabelValues(op, table).Observe(elapsed.Seconds())
		}
	}
	metrics.Get().DatabaseQueriesTotal.WithLabelValues(op, table, status).Inc()

	if sql := db.Statement.SQL.String(); sql != "" {
		if len(sql) > 500 {
			sql = sql[:500] + "... (truncated)"
		}
		span.SetAttributes(attribute.String(dbStatementKey, sql))
	}
	if db.RowsAffected > 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.RowsAffected))
	}
}

func tableName(db *gorm.DB) string {
	if db.Statement.Table != "" {
		return db.Statement.Table
	}
	if db.Statement.Schema != nil {
		return db.Statement.Schema.Table
	}
	return "unknown"
}
