// Package queue implements the bounded FIFO bridging the link-paced
// producer domain and the processing-paced consumer domain.
package queue

import (
	"context"

	"firestige.xyz/tyto/internal/core"
)

// Queue is a fixed-capacity, ordered, lossless buffer of octet events.
// Single producer, single consumer. Each event (byte plus SOF/EOF/VALID
// flags) is passed atomically as one unit; the queue carries no
// frame-level semantics beyond forwarding the markers unchanged.
type Queue struct {
	ch  chan core.OctetEvent
	cap int
}

// New creates a queue with the given capacity.
func New(capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, core.ErrQueueCapacity
	}
	return &Queue{
		ch:  make(chan core.OctetEvent, capacity),
		cap: capacity,
	}, nil
}

// TryPush enqueues ev without blocking. Returns false when the queue is
// full; the caller decides what refusal means (see framing backpressure).
func (q *Queue) TryPush(ev core.OctetEvent) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		return false
	}
}

// Pop blocks until an event is available, the queue is closed and
// drained, or ctx is cancelled. The second return value is false in the
// latter two cases.
func (q *Queue) Pop(ctx context.Context) (core.OctetEvent, bool) {
	select {
	case ev, ok := <-q.ch:
		return ev, ok
	case <-ctx.Done():
		return core.OctetEvent{}, false
	}
}

// TryPop dequeues without blocking.
func (q *Queue) TryPop() (core.OctetEvent, bool) {
	select {
	case ev, ok := <-q.ch:
		return ev, ok
	default:
		return core.OctetEvent{}, false
	}
}

// Close signals the consumer that no further events will arrive. Must
// only be called by the producer, after its last push.
func (q *Queue) Close() {
	close(q.ch)
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap returns the fixed capacity.
func (q *Queue) Cap() int {
	return q.cap
}

// Full reports whether the queue is at capacity. With a single producer
// this is stable from the producer's point of view: only the consumer
// can change the answer, and only towards "not full".
func (q *Queue) Full() bool {
	return len(q.ch) == q.cap
}
