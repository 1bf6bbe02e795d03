package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New("hrfaq_test")

	m.ObserveResolution("answered")
	m.ObserveResolution("answered")
	m.ObserveResolution("pending")
	m.ObserveCacheLookup("hit")
	m.ObserveTransition("vacation_query")
	m.ObserveFeedback(true)
	m.ObserveRerank(120 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolutions.WithLabelValues("answered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("vacation_query")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedback.WithLabelValues("true")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveResolution("answered")
		m.ObserveCacheLookup("miss")
		m.ObserveRerank(time.Second)
		m.ObserveTransition("query_cancelled")
		m.ObserveFeedback(false)
	})
}
