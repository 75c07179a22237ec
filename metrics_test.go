package bootdep

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_SuccessfulBootstrap(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m := NewMetrics(promReg)

	reg := NewRegistry().Register(newTestLeaf, newTestNode, newTestRunner)
	require.NoError(t, New(reg, WithMetrics(m)).Bootstrap(context.Background(), testNamespace, nil))

	assert.Equal(t, float64(3), testutil.ToFloat64(m.componentsDiscovered))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.componentsConstructed))
	assert.Equal(t, 1, testutil.CollectAndCount(m.constructorDuration))
	assert.Equal(t, 0, testutil.CollectAndCount(m.bootstrapFailures))

	count, err := testutil.GatherAndCount(promReg, "bootdep_components_constructed_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_FailuresByKind(t *testing.T) {
	m := NewMetrics(nil)

	cycle := New(NewRegistry().Register(newCycA, newCycB), WithMetrics(m))
	require.Error(t, cycle.Bootstrap(context.Background(), testNamespace, nil))

	noEntry := New(NewRegistry().Register(newTestLeaf), WithMetrics(m))
	require.Error(t, noEntry.Bootstrap(context.Background(), testNamespace, nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.bootstrapFailures.WithLabelValues("cyclic_dependency")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bootstrapFailures.WithLabelValues("no_entry_point")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.componentsConstructed))

	m.observeFailure(errors.New("mystery"))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bootstrapFailures.WithLabelValues("unknown")))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeDiscovered(1)
		m.observeConstruction(0)
		m.observeFailure(ErrCycle)
	})
}
