// Package core defines core types with zero external dependencies.
package core

// Ethernet frame constants.
const (
	// Line coding
	PreambleByte = 0xAA // repeated preamble octet
	SFDByte      = 0xD5 // start frame delimiter

	// Field widths in bytes
	MACLen       = 6
	EtherTypeLen = 2
	VLANTagLen   = 4
	FCSLen       = 4

	// EtherType values
	EtherTypeVLAN = 0x8100 // 802.1Q single tag
	EtherTypeQinQ = 0x88A8 // 802.1ad provider tag

	// Reference size policy: MTU 1500 plus 18 bytes of
	// addressing/ethertype/tag overhead.
	DefaultMinFrameBytes = 64
	DefaultMaxFrameBytes = 1518
)

// OctetEvent is one step of the synchronized byte stream. SOF precedes a
// frame's first valid byte, EOF marks the boundary after its last valid
// byte; neither marker carries data. Transient — lives only inside the
// domain-crossing queue.
type OctetEvent struct {
	Data  byte
	SOF   bool
	EOF   bool
	Valid bool
}

// VLANTag is a parsed 802.1Q tag.
type VLANTag struct {
	Priority     uint8  // PCP, 3 bits
	DropEligible bool   // DEI
	ID           uint16 // VID, 12 bits
}

// MACClass classifies a destination MAC address.
type MACClass uint8

const (
	MACUnicast MACClass = iota
	MACMulticast
	MACBroadcast
)

// ClassifyMAC returns the class of a destination MAC: all-ones is
// broadcast, an LSB-set first octet is multicast, everything else unicast.
func ClassifyMAC(mac [MACLen]byte) MACClass {
	broadcast := true
	for _, b := range mac {
		if b != 0xFF {
			broadcast = false
			break
		}
	}
	if broadcast {
		return MACBroadcast
	}
	if mac[0]&0x01 != 0 {
		return MACMulticast
	}
	return MACUnicast
}

// IsZeroMAC reports whether every octet of mac is zero.
func IsZeroMAC(mac [MACLen]byte) bool {
	for _, b := range mac {
		if b != 0 {
			return false
		}
	}
	return true
}

// Verdict holds the four independent discard reasons for one frame,
// computed once at EOF and valid for that frame only.
type Verdict struct {
	SourceMAC bool // source MAC is all-zero
	VLAN      bool // VLAN admission policy violated
	BadCRC    bool // captured FCS does not match the delayed CRC state
	BadSize   bool // total byte count outside [min, max]
}

// Discard is the OR of the four reasons.
func (v Verdict) Discard() bool {
	return v.SourceMAC || v.VLAN || v.BadCRC || v.BadSize
}

// FrameStats is the per-frame statistics vector. Exactly one of
// Broadcast/Multicast/Unicast is set for a frame whose destination MAC
// was fully captured; Valid means size in range and CRC match,
// independent of the VLAN and source-MAC checks.
type FrameStats struct {
	Valid      bool
	BadCRC     bool
	Undersized bool
	Oversized  bool
	Broadcast  bool
	Multicast  bool
	Unicast    bool
}
