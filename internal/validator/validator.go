// Package validator implements the per-frame positional state machine:
// field extraction, the delayed CRC-32 integrity check, VLAN and size
// admission policy, and the per-frame statistics vector.
package validator

import (
	"firestige.xyz/tyto/internal/core"
	"firestige.xyz/tyto/internal/fcs"
)

// MembershipFunc answers whether a 12-bit VLAN ID is admitted on this
// port. Supplied by an external collaborator; the validator never owns
// the membership list itself.
type MembershipFunc func(id uint16) bool

// Config is the resolved admission policy for one validator.
type Config struct {
	VLANAware bool
	Member    MembershipFunc
	// AcceptUntagged resolves the untagged-frame ambiguity in VLAN-aware
	// mode: false discards untagged frames outright, true admits them
	// and attributes DefaultVLANID.
	AcceptUntagged bool
	DefaultVLANID  uint16

	MinFrameBytes int
	MaxFrameBytes int
}

type fieldState uint8

const (
	stateIdle fieldState = iota
	stateDstMAC
	stateSrcMAC
	stateEtherType
	stateVLANTag
	statePayload
)

// Field byte quotas.
const (
	dstMACLen    = core.MACLen
	srcMACLen    = core.MACLen
	etherTypeLen = core.EtherTypeLen
	vlanTagLen   = core.VLANTagLen
)

// Result is the once-per-frame output, produced at EOF and valid for
// exactly that frame.
type Result struct {
	Verdict core.Verdict
	Stats   core.FrameStats

	// Length counts every valid byte of the frame, FCS included.
	Length int

	DstMAC    [core.MACLen]byte
	SrcMAC    [core.MACLen]byte
	EtherType uint16
	Tagged    bool
	Tag       core.VLANTag
}

// Validator owns exactly one frame-in-progress: created on SOF,
// consumed and reset on EOF, never shared.
type Validator struct {
	cfg Config

	state fieldState
	idx   int // byte offset within the current field

	dstMAC [core.MACLen]byte
	srcMAC [core.MACLen]byte

	etherType uint16
	tagged    bool
	tag       core.VLANTag

	dstDone   bool
	srcDone   bool
	etherDone bool
	tagDone   bool

	length int

	// Running CRC plus a fixed-depth delay line: the transmitted FCS
	// covers everything except itself, so the comparison at EOF uses
	// the CRC state as it stood exactly FCSLen valid bytes earlier.
	crc      uint32
	delay    [core.FCSLen]uint32
	delayIdx int
	delayed  uint32

	// Sliding capture of the last four bytes, arrival order.
	fcsShift [core.FCSLen]byte
}

// New creates a validator for cfg. The only structural misconfiguration
// is an inverted size window; everything else is per-frame policy.
func New(cfg Config) (*Validator, error) {
	if cfg.MinFrameBytes > cfg.MaxFrameBytes {
		return nil, core.ErrSizeBounds
	}
	if cfg.VLANAware && cfg.Member == nil {
		return nil, core.ErrConfigInvalid
	}
	return &Validator{cfg: cfg, state: stateIdle}, nil
}

// Feed consumes one octet event. It returns a Result exactly once per
// frame, at EOF; the boolean is false on every other step.
func (v *Validator) Feed(ev core.OctetEvent) (Result, bool) {
	switch {
	case ev.SOF:
		// A SOF while mid-frame means the producer lost this frame's
		// EOF to overflow; resynchronize on the new frame.
		v.reset()
		v.state = stateDstMAC
		return Result{}, false

	case ev.EOF:
		if v.state == stateIdle {
			return Result{}, false
		}
		res := v.finalize()
		v.reset()
		return res, true

	case ev.Valid:
		if v.state == stateIdle {
			return Result{}, false
		}
		v.consume(ev.Data)
		return Result{}, false
	}
	return Result{}, false
}

// consume folds one valid byte into the running CRC, the delay line,
// the FCS capture register, the byte counter and the field extractor.
func (v *Validator) consume(b byte) {
	next := fcs.Step(v.crc, b)
	v.delayed = v.delay[v.delayIdx]
	v.delay[v.delayIdx] = next
	v.delayIdx = (v.delayIdx + 1) % core.FCSLen
	v.crc = next

	copy(v.fcsShift[:core.FCSLen-1], v.fcsShift[1:])
	v.fcsShift[core.FCSLen-1] = b

	v.length++
	v.extract(b)
}

// extract advances the positional field state machine by one byte.
func (v *Validator) extract(b byte) {
	switch v.state {
	case stateDstMAC:
		v.dstMAC[v.idx] = b
		v.idx++
		if v.idx == dstMACLen {
			v.dstDone = true
			v.state = stateSrcMAC
			v.idx = 0
		}

	case stateSrcMAC:
		v.srcMAC[v.idx] = b
		v.idx++
		if v.idx == srcMACLen {
			v.srcDone = true
			v.state = stateEtherType
			v.idx = 0
		}

	case stateEtherType:
		v.etherType = v.etherType<<8 | uint16(b)
		v.idx++
		if v.idx == etherTypeLen {
			v.etherDone = true
			v.idx = 0
			if v.etherType == core.EtherTypeVLAN || v.etherType == core.EtherTypeQinQ {
				v.tagged = true
				v.state = stateVLANTag
			} else {
				v.state = statePayload
			}
		}

	case stateVLANTag:
		// Four bytes past the TPID: the TCI, then the encapsulated
		// ethertype. A second (Q-in-Q inner) tag is not parsed; it
		// passes through as ordinary payload.
		switch v.idx {
		case 0:
			v.tag.Priority = b >> 5
			v.tag.DropEligible = b&0x10 != 0
			v.tag.ID = uint16(b&0x0F) << 8
		case 1:
			v.tag.ID |= uint16(b)
		case 2:
			v.etherType = uint16(b) << 8
		case 3:
			v.etherType |= uint16(b)
		}
		v.idx++
		if v.idx == vlanTagLen {
			v.tagDone = true
			v.state = statePayload
			v.idx = 0
		}

	case statePayload:
		// Byte already accounted for by the counters above.
	}
}

// finalize computes the verdict and statistics vector from the state
// latched during the frame. Discard reasons whose fields were never
// fully captured are left unasserted; size and CRC always run on
// whatever bytes were seen.
func (v *Validator) finalize() Result {
	captured := uint32(v.fcsShift[0]) |
		uint32(v.fcsShift[1])<<8 |
		uint32(v.fcsShift[2])<<16 |
		uint32(v.fcsShift[3])<<24
	crcOK := captured == fcs.Finish(v.delayed)

	undersized := v.length < v.cfg.MinFrameBytes
	oversized := v.length > v.cfg.MaxFrameBytes

	res := Result{
		Length:    v.length,
		DstMAC:    v.dstMAC,
		SrcMAC:    v.srcMAC,
		EtherType: v.etherType,
		Tagged:    v.tagged && v.tagDone,
		Tag:       v.tag,
	}
	if !v.tagged && v.cfg.VLANAware && v.cfg.AcceptUntagged && v.etherDone {
		// Stated intent of the accept policy: admit and internally tag
		// with the default VLAN ID.
		res.Tag = core.VLANTag{ID: v.cfg.DefaultVLANID}
	}

	res.Verdict = core.Verdict{
		SourceMAC: v.srcDone && core.IsZeroMAC(v.srcMAC),
		VLAN:      v.vlanViolation(),
		BadCRC:    !crcOK,
		BadSize:   undersized || oversized,
	}

	res.Stats = core.FrameStats{
		Valid:      crcOK && !undersized && !oversized,
		BadCRC:     !crcOK,
		Undersized: undersized,
		Oversized:  oversized,
	}
	if v.dstDone {
		switch core.ClassifyMAC(v.dstMAC) {
		case core.MACBroadcast:
			res.Stats.Broadcast = true
		case core.MACMulticast:
			res.Stats.Multicast = true
		default:
			res.Stats.Unicast = true
		}
	}

	return res
}

// vlanViolation evaluates the VLAN admission policy. In VLAN-aware mode
// every frame must carry an admitted tag; untagged frames are admitted
// only under the accept-untagged policy, which attributes the default
// VLAN ID instead of discarding.
func (v *Validator) vlanViolation() bool {
	if !v.cfg.VLANAware {
		return false
	}
	if v.tagged {
		if !v.tagDone {
			// Tag truncated by EOF: field never captured, reason not
			// asserted. The size check flags the frame anyway.
			return false
		}
		return !v.cfg.Member(v.tag.ID)
	}
	if !v.etherDone {
		return false
	}
	return !v.cfg.AcceptUntagged
}

// reset returns the validator to idle with a clean frame-in-progress.
func (v *Validator) reset() {
	cfg := v.cfg
	*v = Validator{cfg: cfg, state: stateIdle, crc: fcs.Init}
	for i := range v.delay {
		v.delay[i] = fcs.Init
	}
	v.delayed = fcs.Init
}
