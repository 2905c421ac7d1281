//go:build unit

package metrics_test

import (
	"testing"
	"time"

	"offer-compare/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := metrics.New()

	m.ObserveSettlement("ByteMe", true, 120*time.Millisecond)
	m.ObserveSettlement("ByteMe", false, time.Second)
	m.ObserveSettlement("WebWunder", true, 10*time.Millisecond)
	m.IncStale()
	m.AddDuplicates("ByteMe", 2)
	m.AddDuplicates("ByteMe", 0)
	m.IncShareDecodeFailure()
	m.ObserveHTTP("/api/sessions", 201)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "offer_source_settlements_total")
	assert.Contains(t, names, "offer_source_fetch_seconds")

	stale, err := testutil.GatherAndCount(m.Registry(), "offer_stale_settlements_total")
	require.NoError(t, err)
	assert.Equal(t, 1, stale)

	settlements, err := testutil.GatherAndCount(m.Registry(), "offer_source_settlements_total")
	require.NoError(t, err)
	assert.Equal(t, 3, settlements)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveSettlement("ByteMe", true, time.Millisecond)
		m.IncStale()
		m.AddDuplicates("ByteMe", 1)
		m.IncShareDecodeFailure()
		m.ObserveHTTP("/health", 200)
	})
}
