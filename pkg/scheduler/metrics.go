package scheduler

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/aurora/pkg/core"
)

type metrics struct {
	writes   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	pending  prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "aurora",
				Subsystem: "store",
				Name:      "writes_total",
				Help:      "Slot writes performed by the save queue, by result.",
			},
			[]string{"slot", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "aurora",
				Subsystem: "store",
				Name:      "write_duration_seconds",
				Help:      "Time spent serializing and writing a slot.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"slot"},
		),
		pending: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "aurora",
				Subsystem: "store",
				Name:      "pending_saves",
				Help:      "Slots with an armed debounce timer.",
			},
		),
	}

	if reg != nil {
		m.writes = register(reg, m.writes)
		m.duration = register(reg, m.duration)
		m.pending = register(reg, m.pending)
	}
	return m
}

// register returns the already registered collector when another scheduler
// shares the registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *metrics) observe(slot core.Slot, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.writes.WithLabelValues(string(slot), result).Inc()
	m.duration.WithLabelValues(string(slot)).Observe(elapsed.Seconds())
}
