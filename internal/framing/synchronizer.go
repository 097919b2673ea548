// Package framing implements byte-stream synchronization: hunting the
// preamble/start-delimiter pattern in the raw link stream and emitting a
// normalized octet-event stream with explicit SOF and EOF markers.
package framing

import (
	"sync/atomic"

	"firestige.xyz/tyto/internal/core"
	"firestige.xyz/tyto/internal/link"
	"firestige.xyz/tyto/internal/queue"
)

type state uint8

const (
	seekPreamble state = iota
	seekDelimiter
	streaming
)

// Synchronizer scans link symbols for frame boundaries and forwards
// marker-annotated octet events into the domain-crossing queue.
//
// Backpressure is admission-only: a new frame is refused while the
// queue reports full, but a frame that has started draining is never
// stalled byte-by-byte. A frame that overruns the queue mid-flight is
// counted as lost to overflow rather than silently dropped.
type Synchronizer struct {
	q     *queue.Queue
	state state

	// overrun marks a streaming frame that has already lost an event to
	// a full queue; such a frame forwards no further data bytes.
	overrun bool

	admitted  atomic.Uint64
	refused   atomic.Uint64
	truncated atomic.Uint64
}

// New creates a synchronizer feeding q.
func New(q *queue.Queue) *Synchronizer {
	return &Synchronizer{q: q, state: seekPreamble}
}

// Feed advances the state machine by one byte-time.
func (s *Synchronizer) Feed(sym link.Symbol) {
	switch s.state {
	case seekPreamble:
		if sym.Valid && !sym.Err && sym.Data == core.PreambleByte {
			s.state = seekDelimiter
		}

	case seekDelimiter:
		switch {
		case !sym.Valid || sym.Err:
			s.state = seekPreamble
		case sym.Data == core.PreambleByte:
			// still in the preamble run
		case sym.Data == core.SFDByte:
			s.startFrame()
		default:
			s.state = seekPreamble
		}

	case streaming:
		if !sym.Valid || sym.Err {
			// Link idle or errored: either way the frame is over. A
			// malformed tail is caught downstream by size/CRC checks.
			s.endFrame()
			return
		}
		if s.overrun {
			return
		}
		if !s.q.TryPush(core.OctetEvent{Data: sym.Data, Valid: true}) {
			// Mid-frame overflow. The already-admitted prefix stays in
			// the queue untouched; the remainder of this frame is lost.
			s.overrun = true
			s.truncated.Add(1)
		}
	}
}

func (s *Synchronizer) startFrame() {
	if s.q.Full() {
		// Refuse admission at frame-start granularity. Keep hunting; the
		// frame currently on the wire is lost and counted.
		s.refused.Add(1)
		s.state = seekPreamble
		return
	}
	// Single producer: nothing can fill the slot between the Full check
	// and this push.
	s.q.TryPush(core.OctetEvent{SOF: true})
	s.admitted.Add(1)
	s.overrun = false
	s.state = streaming
}

func (s *Synchronizer) endFrame() {
	// Deliver EOF even for an overrun frame so the validator closes it
	// out; if even the marker does not fit the validator resynchronizes
	// on the next SOF. An overrun frame was already counted when it
	// lost its first byte; the failed marker does not count it again.
	if !s.q.TryPush(core.OctetEvent{EOF: true}) && !s.overrun {
		s.truncated.Add(1)
	}
	s.overrun = false
	s.state = seekPreamble
}

// Admitted returns the number of frames granted a SOF.
func (s *Synchronizer) Admitted() uint64 { return s.admitted.Load() }

// Refused returns the number of frames refused admission because the
// queue was full at their start delimiter.
func (s *Synchronizer) Refused() uint64 { return s.refused.Load() }

// Truncated returns the number of frames that lost events to queue
// overflow after admission.
func (s *Synchronizer) Truncated() uint64 { return s.truncated.Load() }
