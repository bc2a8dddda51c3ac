package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/aurora/pkg/core"
)

func TestMetrics_CountWritesByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := New(Config{Interval: time.Hour, Registerer: reg})
	defer s.Close(context.Background())

	require.NoError(t, s.Flush(context.Background(), []Entry{
		{Slot: core.SlotTasks, Write: func(ctx context.Context) error { return nil }},
	}))
	require.Error(t, s.Flush(context.Background(), []Entry{
		{Slot: core.SlotTasks, Write: func(ctx context.Context) error { return errors.New("nope") }},
	}))

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.writes.WithLabelValues("tasks", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.writes.WithLabelValues("tasks", "error")))

	s.Schedule(core.SlotSettings, func(ctx context.Context) error { return nil })
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.pending))
}

func TestMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(Config{Registerer: reg})
	b := New(Config{Registerer: reg})
	defer a.Close(context.Background())
	defer b.Close(context.Background())

	assert.Same(t, a.metrics.writes, b.metrics.writes)
}
