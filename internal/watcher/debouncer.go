package watcher

import (
	"sync"
	"time"
)

// BatchDebouncer collects events and hands them to emit as one batch once no
// new event has arrived for the delay. Batches are delivered one at a time:
// events added while emit runs form the next batch.
type BatchDebouncer struct {
	delay time.Duration
	emit  func([]Event)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending []Event
	stopped bool

	// held for the duration of every emit call
	emitting sync.Mutex
}

// NewBatchDebouncer creates a debouncer delivering batches to emit.
func NewBatchDebouncer(delay time.Duration, emit func([]Event)) *BatchDebouncer {
	return &BatchDebouncer{delay: delay, emit: emit}
}

// Add queues an event and restarts the quiet period. Events added after
// Stop are dropped.
func (b *BatchDebouncer) Add(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}
	b.pending = append(b.pending, event)

	if b.timer != nil {
		b.timer.Stop()
	}
	b.gen++
	gen := b.gen
	b.timer = time.AfterFunc(b.delay, func() { b.fire(gen) })
}

// fire delivers the pending batch if no Add has re-armed the timer since gen.
func (b *BatchDebouncer) fire(gen uint64) {
	b.emitting.Lock()
	defer b.emitting.Unlock()

	b.mu.Lock()
	if b.stopped || gen != b.gen {
		b.mu.Unlock()
		return
	}
	events := b.pending
	b.pending = nil
	b.timer = nil
	b.mu.Unlock()

	if len(events) > 0 && b.emit != nil {
		b.emit(events)
	}
}

// Stop drops pending events and waits for a batch already being emitted to
// finish. It must not be called from inside emit. Stop is idempotent.
func (b *BatchDebouncer) Stop() {
	b.mu.Lock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.pending = nil
	b.mu.Unlock()

	b.emitting.Lock()
	b.emitting.Unlock() //nolint:staticcheck // waiting for an in-flight emit
}
