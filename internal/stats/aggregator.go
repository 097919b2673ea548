// Package stats accumulates per-frame outcome vectors into running
// aggregate counters.
package stats

import (
	"sync/atomic"

	"firestige.xyz/tyto/internal/validator"
)

// Aggregator holds the monotonic counters. Mutated only by the single
// consumer task; atomics keep Snapshot safe to call from anywhere
// without disturbing in-flight accumulation.
type Aggregator struct {
	frames     atomic.Uint64
	bytes      atomic.Uint64
	discarded  atomic.Uint64
	valid      atomic.Uint64
	badCRC     atomic.Uint64
	undersized atomic.Uint64
	oversized  atomic.Uint64
	broadcast  atomic.Uint64
	multicast  atomic.Uint64
	unicast    atomic.Uint64

	discardSourceMAC atomic.Uint64
	discardVLAN      atomic.Uint64
	discardBadCRC    atomic.Uint64
	discardBadSize   atomic.Uint64

	// Frames lost to queue overflow: a distinct condition, not part of
	// the per-frame vector (the validator never saw those frames whole).
	overflow atomic.Uint64
}

// New creates an aggregator with all counters at zero.
func New() *Aggregator {
	return &Aggregator{}
}

// Accumulate folds one frame result into the counters. Bytes are
// counted for valid and invalid frames alike.
func (a *Aggregator) Accumulate(res validator.Result) {
	a.frames.Add(1)
	a.bytes.Add(uint64(res.Length))

	if res.Verdict.Discard() {
		a.discarded.Add(1)
	}
	if res.Verdict.SourceMAC {
		a.discardSourceMAC.Add(1)
	}
	if res.Verdict.VLAN {
		a.discardVLAN.Add(1)
	}
	if res.Verdict.BadCRC {
		a.discardBadCRC.Add(1)
	}
	if res.Verdict.BadSize {
		a.discardBadSize.Add(1)
	}

	if res.Stats.Valid {
		a.valid.Add(1)
	}
	if res.Stats.BadCRC {
		a.badCRC.Add(1)
	}
	if res.Stats.Undersized {
		a.undersized.Add(1)
	}
	if res.Stats.Oversized {
		a.oversized.Add(1)
	}
	if res.Stats.Broadcast {
		a.broadcast.Add(1)
	}
	if res.Stats.Multicast {
		a.multicast.Add(1)
	}
	if res.Stats.Unicast {
		a.unicast.Add(1)
	}
}

// AddOverflow records frames lost to queue overflow.
func (a *Aggregator) AddOverflow(n uint64) {
	a.overflow.Add(n)
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Frames     uint64
	Bytes      uint64
	Discarded  uint64
	Valid      uint64
	BadCRC     uint64
	Undersized uint64
	Oversized  uint64
	Broadcast  uint64
	Multicast  uint64
	Unicast    uint64

	DiscardSourceMAC uint64
	DiscardVLAN      uint64
	DiscardBadCRC    uint64
	DiscardBadSize   uint64

	Overflow uint64
}

// Snapshot returns the current counter values.
func (a *Aggregator) Snapshot() Snapshot {
	return Snapshot{
		Frames:     a.frames.Load(),
		Bytes:      a.bytes.Load(),
		Discarded:  a.discarded.Load(),
		Valid:      a.valid.Load(),
		BadCRC:     a.badCRC.Load(),
		Undersized: a.undersized.Load(),
		Oversized:  a.oversized.Load(),
		Broadcast:  a.broadcast.Load(),
		Multicast:  a.multicast.Load(),
		Unicast:    a.unicast.Load(),

		DiscardSourceMAC: a.discardSourceMAC.Load(),
		DiscardVLAN:      a.discardVLAN.Load(),
		DiscardBadCRC:    a.discardBadCRC.Load(),
		DiscardBadSize:   a.discardBadSize.Load(),

		Overflow: a.overflow.Load(),
	}
}

// Reset zeroes all counters. Explicit external reset only; nothing in
// the pipeline ever decreases a counter.
func (a *Aggregator) Reset() {
	a.frames.Store(0)
	a.bytes.Store(0)
	a.discarded.Store(0)
	a.valid.Store(0)
	a.badCRC.Store(0)
	a.undersized.Store(0)
	a.oversized.Store(0)
	a.broadcast.Store(0)
	a.multicast.Store(0)
	a.unicast.Store(0)
	a.discardSourceMAC.Store(0)
	a.discardVLAN.Store(0)
	a.discardBadCRC.Store(0)
	a.discardBadSize.Store(0)
	a.overflow.Store(0)
}
