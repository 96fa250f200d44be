package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMigrationsStartedTotal_Increment(t *testing.T) {
	before := testutil.ToFloat64(MigrationsStartedTotal.WithLabelValues("test-svc", ScopePrimary))
	MigrationsStartedTotal.WithLabelValues("test-svc", ScopePrimary).Inc()
	after := testutil.ToFloat64(MigrationsStartedTotal.WithLabelValues("test-svc", ScopePrimary))

	assert.Equal(t, before+1, after)
}

func TestMigrationsInFlight_SetValue(t *testing.T) {
	MigrationsInFlight.WithLabelValues("test-svc-2").Set(1)
	value := testutil.ToFloat64(MigrationsInFlight.WithLabelValues("test-svc-2"))

	assert.Equal(t, float64(1), value)
}

func TestMigrationDuration_Observe(t *testing.T) {
	MigrationDuration.WithLabelValues("test-svc-3", "committed").Observe(0.25)
	count := testutil.CollectAndCount(MigrationDuration)

	assert.Greater(t, count, 0)
}

func TestMetrics_RegisteredWithDefaultRegistry(t *testing.T) {
	collectors := []prometheus.Collector{
		MigrationsStartedTotal,
		MigrationsCommittedTotal,
		MigrationsRolledBackTotal,
		ServiceErrorsTotal,
		StampValidationsTotal,
		ContractViolationsTotal,
		MigrationsInFlight,
		MigrationDuration,
	}

	for _, c := range collectors {
		err := prometheus.DefaultRegisterer.Register(c)
		var already prometheus.AlreadyRegisteredError
		assert.ErrorAs(t, err, &already)
	}
}
