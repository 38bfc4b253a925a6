package telemetry

import (
	"context"
	"testing"

	"github.com/blogworks/postapi/internal/models"
	"github.com/blogworks/postapi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func spanAttr(span sdktrace.ReadOnlySpan, key string) string {
	for _, kv := range span.Attributes() {
		if kv.Key == attribute.Key(key) {
			return kv.Value.Emit()
		}
	}
	return ""
}

func TestGORMPluginRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	db := testutil.NewDB(t)
	require.NoError(t, db.Use(GORMPlugin(tp)))

	ctx := context.Background()
	post := models.Post{Title: "Traced", Content: "Traced content"}
	require.NoError(t, db.WithContext(ctx).Create(&post).Error)

	var found []models.Post
	require.NoError(t, db.WithContext(ctx).Find(&found).Error)

	spans := recorder.Ended()
	require.GreaterOrEqual(t, len(spans), 2)

	byName := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range spans {
		byName[s.Name()] = s
	}

	insert, ok := byName["db.insert"]
	require.True(t, ok)
	assert.Equal(t, "posts", spanAttr(insert, dbTableKey))
	assert.Equal(t, "sqlite", spanAttr(insert, dbSystemKey))
	assert.Contains(t, spanAttr(insert, dbStatementKey), "INSERT")

	_, ok = byName["db.select"]
	assert.True(t, ok)
}

func TestGORMPluginName(t *testing.T) {
	assert.Equal(t, "telemetry:tracing", GORMPlugin(nil).Name())
}
