package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/aurora/pkg/core"
)

// WatchDebounce is how long a slot file must stay quiet before its change
// is reported.
var WatchDebounce = 50 * time.Millisecond

// Watch reports changes made to slot files by other processes. pattern is
// a doublestar glob matched against file names ("*" when empty). Temp
// files of atomic writes are ignored and bursts on one slot collapse into
// a single event. The channel closes when ctx is cancelled.
func (b *Backend) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(b.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", b.Path, err)
	}

	events := make(chan core.Event, 16)
	w := &watchWorker{
		backend:   b,
		pattern:   pattern,
		watcher:   watcher,
		events:    events,
		debouncer: newDebouncer(WatchDebounce),
	}

	b.setWatcherActive(true)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		b.config.Logger.Error("watcher stopped", "error", err)
	}))
	return events, nil
}

type watchWorker struct {
	backend   *Backend
	pattern   string
	watcher   *fsnotify.Watcher
	events    chan core.Event
	debouncer *debouncer
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	logger := w.backend.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", err)
			}
		}
		w.debouncer.stopAndWait()
		_ = w.watcher.Close()
		w.backend.setWatcherActive(false)
		close(w.events)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.process(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("fsnotify error", "error", wErr)
		}
	}
}

// process filters, maps and debounces one filesystem event.
func (w *watchWorker) process(ctx context.Context, event fsnotify.Event) bool {
	if isTempFile(event.Name) {
		return false
	}
	name := filepath.Base(event.Name)
	if ok, _ := doublestar.Match(w.pattern, name); !ok {
		return false
	}
	slot, ok := core.SlotFromKey(name)
	if !ok {
		return false
	}
	eType := mapEventType(event)
	if eType == "" {
		return false
	}

	w.backend.config.Logger.Debug("slot file changed", "slot", slot, "op", event.Op.String())
	w.debouncer.add(core.Event{Type: eType, Slot: slot, Timestamp: time.Now()}, func(e core.Event) {
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
	return true
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	default:
		return ""
	}
}

// debouncer keeps the latest event per slot and delivers it once the slot
// has been quiet for the configured delay.
type debouncer struct {
	delay time.Duration

	mu       sync.Mutex
	timers   map[core.Slot]*time.Timer
	latest   map[core.Slot]core.Event
	closed   bool
	inflight sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[core.Slot]*time.Timer),
		latest: make(map[core.Slot]core.Event),
	}
}

func (d *debouncer) add(e core.Event, deliver func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.latest[e.Slot] = e
	if t, ok := d.timers[e.Slot]; ok {
		t.Reset(d.delay)
		return
	}
	d.timers[e.Slot] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return
		}
		ev, ok := d.latest[e.Slot]
		if !ok {
			// a Reset raced with this fire and the event was already sent
			d.mu.Unlock()
			return
		}
		delete(d.latest, e.Slot)
		delete(d.timers, e.Slot)
		d.inflight.Add(1)
		d.mu.Unlock()

		defer d.inflight.Done()
		deliver(ev)
	})
}

// stopAndWait cancels pending timers and waits for deliveries in flight.
func (d *debouncer) stopAndWait() {
	d.mu.Lock()
	d.closed = true
	for slot, t := range d.timers {
		t.Stop()
		delete(d.timers, slot)
	}
	d.mu.Unlock()
	d.inflight.Wait()
}
