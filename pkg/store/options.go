package store

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// options holds the configuration of a Store.
type options struct {
	logger     *slog.Logger
	clock      func() time.Time
	debounce   time.Duration
	registerer prometheus.Registerer
	newID      func() string
	seed       bool
}

// Option defines a functional option for configuring a Store.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger: slog.New(slog.DiscardHandler),
		clock:  time.Now,
		newID:  uuid.NewString,
		seed:   true,
	}
}

// WithLogger sets the logger for the store and its save queue.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock replaces time.Now. Used for "today", soft-delete stamps and the
// retention sweep.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithDebounce sets the quiet period before a scheduled save fires.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithRegisterer registers the save metrics with r.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = r
	}
}

// WithIDGenerator replaces the UUID generator used for new entities.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// WithSampleTasks controls whether a missing tasks slot is filled with the
// sample tasks (true by default) or left empty.
func WithSampleTasks(enabled bool) Option {
	return func(o *options) {
		o.seed = enabled
	}
}
