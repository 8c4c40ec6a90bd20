package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersOnGivenRegistry(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterFailureTests.WithLabelValues("gold").Inc()
	m.CounterFailureTests.WithLabelValues("gold").Inc()
	m.CounterFailureTests.WithLabelValues("bronze").Inc()
	m.CounterProfileSaves.Inc()
	m.CounterRateLimitedRequests.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterFailureTests.WithLabelValues("gold")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterProfileSaves))

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		byName[f.GetName()] = f
	}
	require.Contains(t, byName, "mm2k_test_server_failure_tests")
	assert.Len(t, byName["mm2k_test_server_failure_tests"].GetMetric(), 2)
	assert.Contains(t, byName, "mm2k_test_server_rate_limited_requests")

	// a second manager on its own registry does not collide
	assert.NotPanics(t, func() {
		NewTestManager()
		NewTestManager()
	})
}

func TestSetupPrometheus(t *testing.T) {
	reg := SetupPrometheus()
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewHitRateGauge(t *testing.T) {
	rate := 0.0
	gauge := NewHitRateGauge("mm2k", "test_server", "blob_cache_hit_rate", func() float64 {
		return rate
	})
	reg := SetupPrometheus(gauge)

	assert.Equal(t, 0.0, testutil.ToFloat64(gauge))
	rate = 0.75
	assert.Equal(t, 0.75, testutil.ToFloat64(gauge))

	count, err := testutil.GatherAndCount(reg, "mm2k_test_server_blob_cache_hit_rate")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
