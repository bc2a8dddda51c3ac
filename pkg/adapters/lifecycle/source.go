// Package lifecycle bridges aurora change events onto the generic
// lifecycle.Source interface so supervisors and CLIs can consume file
// watcher and store notifications through one channel type.
package lifecycle

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/aurora/pkg/core"
)

// Subscriber is anything that delivers change events to a callback.
// *store.Store satisfies it.
type Subscriber interface {
	Subscribe(fn func(core.Event)) (cancel func())
}

type eventSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits aurora events.
// The source stops when events is closed or the Start context ends.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &eventSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *eventSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *eventSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				// core.Event implements lifecycle.Event (has String())
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

// Feed is a buffered channel fed by a Subscriber.
type Feed struct {
	C <-chan core.Event

	dropped atomic.Int64
}

// Dropped reports how many events were discarded because the buffer was full.
func (f *Feed) Dropped() int64 {
	return f.dropped.Load()
}

// Subscribe turns sub's callbacks into a Feed. Callbacks run on the
// mutating goroutine, so delivery never blocks: when the buffer is full the
// event is dropped and counted. The channel closes when ctx ends.
func Subscribe(ctx context.Context, sub Subscriber, buffer int) *Feed {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan core.Event, buffer)
	feed := &Feed{C: ch}

	var (
		mu     sync.Mutex
		closed bool
	)
	cancel := sub.Subscribe(func(e core.Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- e:
		default:
			feed.dropped.Add(1)
		}
	})

	go func() {
		<-ctx.Done()
		cancel()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()
	return feed
}
