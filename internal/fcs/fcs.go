// Package fcs implements the IEEE 802.3 frame check sequence: a
// byte-at-a-time CRC-32 engine plus helpers for producing the trailing
// checksum a sender embeds in a frame.
package fcs

// Init is the all-ones seed loaded at the start of each frame.
const Init uint32 = 0xFFFFFFFF

// poly is the reflected form of the 802.3 generator polynomial
// x^32+x^26+x^23+x^22+x^16+x^12+x^11+x^10+x^8+x^7+x^5+x^4+x^2+x+1.
const poly uint32 = 0xEDB88320

var table = makeTable()

func makeTable() [256]uint32 {
	var t [256]uint32
	for i := range t {
		crc := uint32(i)
		for k := 0; k < 8; k++ {
			if crc&1 != 0 {
				crc = crc>>1 ^ poly
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return t
}

// Step folds one octet into the running CRC state. Pure function: no
// side effects, always returns a value.
func Step(state uint32, b byte) uint32 {
	return table[byte(state)^b] ^ state>>8
}

// Finish applies the final complement. A conforming sender transmits
// Finish of the state covering every frame byte except the FCS itself,
// least significant byte first.
func Finish(state uint32) uint32 {
	return ^state
}

// Checksum computes the FCS value over data in one call.
func Checksum(data []byte) uint32 {
	state := Init
	for _, b := range data {
		state = Step(state, b)
	}
	return Finish(state)
}

// AppendFCS appends the 4-byte FCS for frame, LSB first, and returns the
// extended slice. Used by replay sources and tests to build conforming
// frames from captures that carry no checksum.
func AppendFCS(frame []byte) []byte {
	crc := Checksum(frame)
	return append(frame,
		byte(crc),
		byte(crc>>8),
		byte(crc>>16),
		byte(crc>>24),
	)
}
