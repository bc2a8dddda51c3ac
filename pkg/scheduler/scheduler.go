// Package scheduler coalesces bursts of save requests per slot and runs the
// resulting writes on a single background queue.
//
// Each slot owns one timer. Scheduling a slot again before its timer fires
// re-arms the timer (trailing-edge debounce); it never cancels a write that
// is already executing. All writes, for every slot, run one at a time on the
// same queue, so two slots are never written concurrently.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/aurora/pkg/core"
)

// DefaultInterval is the quiet period before a scheduled save fires.
const DefaultInterval = 500 * time.Millisecond

// ErrClosed is returned by operations on a closed scheduler.
var ErrClosed = errors.New("scheduler is closed")

// Writer persists the current state of one slot. It must read the live
// state when invoked, not a copy captured when it was scheduled.
type Writer func(ctx context.Context) error

// Entry pairs a slot with its writer for Flush.
type Entry struct {
	Slot  core.Slot
	Write Writer
}

// Config holds the scheduler configuration.
type Config struct {
	Interval   time.Duration         // Debounce interval. Zero means DefaultInterval.
	QueueSize  int                   // Buffered jobs before Schedule callers block. Zero means 64.
	Logger     *slog.Logger          // Optional.
	Registerer prometheus.Registerer // Optional. Metrics are still kept when nil.
}

type pendingSave struct {
	timer *time.Timer
	write Writer
}

type job struct {
	entries []Entry
	result  chan error // nil for fire-and-forget saves
}

// Scheduler is a debounced key-value save scheduler.
type Scheduler struct {
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics

	mu      sync.Mutex
	pending map[core.Slot]*pendingSave
	closed  bool

	queue chan job
	stop  context.CancelFunc
	done  chan struct{}
}

// New creates a scheduler and starts its background queue.
func New(cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		interval: cfg.Interval,
		logger:   logger,
		metrics:  newMetrics(cfg.Registerer),
		pending:  make(map[core.Slot]*pendingSave),
		queue:    make(chan job, cfg.QueueSize),
		stop:     cancel,
		done:     make(chan struct{}),
	}

	lifecycle.Go(ctx, s.run, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("save queue stopped", "error", err)
	}))

	return s
}

// Interval returns the debounce interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Schedule arms (or re-arms) the timer of slot. When the timer fires, write
// is queued on the background queue. It returns false if the scheduler is
// closed.
func (s *Scheduler) Schedule(slot core.Slot, write Writer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	if p, ok := s.pending[slot]; ok {
		p.timer.Stop()
	}

	p := &pendingSave{write: write}
	p.timer = time.AfterFunc(s.interval, func() { s.fire(slot, p) })
	s.pending[slot] = p
	s.metrics.pending.Set(float64(len(s.pending)))

	return true
}

// Now queues write immediately, without debouncing. A pending timer for the
// same slot is cancelled since the queued write supersedes it.
func (s *Scheduler) Now(slot core.Slot, write Writer) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if p, ok := s.pending[slot]; ok {
		p.timer.Stop()
		delete(s.pending, slot)
		s.metrics.pending.Set(float64(len(s.pending)))
	}
	s.mu.Unlock()

	return s.enqueue(context.Background(), job{entries: []Entry{{Slot: slot, Write: write}}})
}

// Flush cancels every pending timer, then runs entries in order on the
// background queue and waits for them. Writes queued before the flush
// complete first. The returned error joins every failed write.
func (s *Scheduler) Flush(ctx context.Context, entries []Entry) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.cancelPendingLocked()
	s.mu.Unlock()

	return s.submit(ctx, entries)
}

// Pending returns the slots with an armed timer, in flush order.
func (s *Scheduler) Pending() []core.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Slot, 0, len(s.pending))
	for slot := range s.pending {
		out = append(out, slot)
	}
	slices.SortFunc(out, func(a, b core.Slot) int {
		return slotRank(a) - slotRank(b)
	})
	return out
}

// Close cancels pending timers, waits for queued writes to finish and stops
// the background queue. Pending timers are dropped, not written: callers
// that need them persisted flush first.
func (s *Scheduler) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancelPendingLocked()
	s.mu.Unlock()

	// Drain whatever is already queued.
	err := s.submit(ctx, nil)
	s.stop()

	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}

func (s *Scheduler) cancelPendingLocked() {
	for slot, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, slot)
	}
	s.metrics.pending.Set(0)
}

// fire runs on the timer goroutine. A timer that was superseded or
// cancelled after it started firing finds another (or no) entry and bails.
func (s *Scheduler) fire(slot core.Slot, p *pendingSave) {
	s.mu.Lock()
	if s.pending[slot] != p {
		s.mu.Unlock()
		return
	}
	delete(s.pending, slot)
	s.metrics.pending.Set(float64(len(s.pending)))
	s.mu.Unlock()

	s.enqueue(context.Background(), job{entries: []Entry{{Slot: slot, Write: p.write}}})
}

func (s *Scheduler) submit(ctx context.Context, entries []Entry) error {
	j := job{entries: entries, result: make(chan error, 1)}
	if !s.enqueue(ctx, j) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrClosed
	}

	select {
	case err := <-j.result:
		return err
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) enqueue(ctx context.Context, j job) bool {
	select {
	case s.queue <- j:
		return true
	case <-s.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// run is the background queue loop.
func (s *Scheduler) run(ctx context.Context) error {
	defer close(s.done)

	// Writes are never interrupted half-way, even while stopping.
	writeCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case j := <-s.queue:
			s.execute(writeCtx, j)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, j job) {
	var errs []error
	for _, e := range j.entries {
		start := time.Now()
		err := s.safeWrite(ctx, e)
		elapsed := time.Since(start)
		s.metrics.observe(e.Slot, elapsed, err)

		if err != nil {
			s.logger.Error("save failed", "slot", e.Slot, "error", err)
			errs = append(errs, err)
			continue
		}
		s.logger.Debug("slot saved", "slot", e.Slot, "duration", elapsed)
	}

	if j.result != nil {
		j.result <- errors.Join(errs...)
	}
}

// safeWrite keeps a panicking writer from taking the queue down with it.
func (s *Scheduler) safeWrite(ctx context.Context, e Entry) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("writer panic: %v", recovered)
			if s.logger.Enabled(ctx, slog.LevelDebug) {
				s.logger.Error("writer panic", "slot", e.Slot, "error", err, "stack", string(debug.Stack()))
			}
		}
	}()
	return e.Write(ctx)
}

func slotRank(s core.Slot) int {
	if i := slices.Index(core.AllSlots, s); i >= 0 {
		return i
	}
	return len(core.AllSlots)
}
