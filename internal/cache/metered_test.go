package cache

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetered(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := NewStore[string](t.TempDir())

	m, err := NewMetered[string]("recipes/search", reg, store)
	require.NoError(t, err)

	_, ok := m.Get("k")
	assert.False(t, ok)
	m.Put("k", "v")
	got, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
	m.Clear()

	assert.InDelta(t, 1, testutil.ToFloat64(m.metrics.getCount.WithLabelValues(resultHit)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.metrics.getCount.WithLabelValues(resultMiss)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.metrics.putCount), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.metrics.clearCount), 0)

	count, err := testutil.GatherAndCount(reg, "fscache_get_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, ok = store.Get("k")
	assert.False(t, ok, "Clear reaches the wrapped store")
}

func TestMetered_SeparateNamespacesShareRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewMetered[int]("recipes/search", reg, NewStore[int](t.TempDir()))
	require.NoError(t, err)
	_, err = NewMetered[int]("recipes/info", reg, NewStore[int](t.TempDir()))
	require.NoError(t, err)

	t.Run("duplicate namespace", func(t *testing.T) {
		dup, err := NewMetered[int]("recipes/info", reg, NewStore[int](t.TempDir()))
		var already prometheus.AlreadyRegisteredError
		require.True(t, errors.As(err, &already))
		require.NotNil(t, dup)
		assert.NotPanics(t, func() { dup.Put("k", 1) })
	})
}

func TestMetered_NilRegisterer(t *testing.T) {
	m, err := NewMetered[int]("ns", nil, NewStore[int](t.TempDir()))
	require.NoError(t, err)
	m.Put("k", 1)
	assert.InDelta(t, 1, testutil.ToFloat64(m.metrics.putCount), 0)
}
