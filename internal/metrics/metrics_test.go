package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitializeIsSingleton(t *testing.T) {
	first := Initialize()
	second := Get()
	assert.Same(t, first, second)
}

func TestCountersRecord(t *testing.T) {
	m := Get()

	before := testutil.ToFloat64(m.PostOperationsTotal.WithLabelValues("add_post", "success"))
	m.PostOperationsTotal.WithLabelValues("add_post", "success").Inc()
	after := testutil.ToFloat64(m.PostOperationsTotal.WithLabelValues("add_post", "success"))

	assert.Equal(t, before+1, after)
}
