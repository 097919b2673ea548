package link

import (
	"firestige.xyz/tyto/internal/core"
	"firestige.xyz/tyto/internal/fcs"
)

// Line coding constants.
const (
	preambleLen      = 7  // preamble octets before the SFD
	interframeGapLen = 12 // idle byte-times between frames
)

// FrameSymbols encodes one wire-ready frame (FCS included) as the
// symbol sequence a link would carry: preamble, start delimiter, frame
// bytes, interframe gap.
func FrameSymbols(frame []byte) []Symbol {
	syms := make([]Symbol, 0, preambleLen+1+len(frame)+interframeGapLen)
	for i := 0; i < preambleLen; i++ {
		syms = append(syms, Symbol{Data: core.PreambleByte, Valid: true})
	}
	syms = append(syms, Symbol{Data: core.SFDByte, Valid: true})
	for _, b := range frame {
		syms = append(syms, Symbol{Data: b, Valid: true})
	}
	for i := 0; i < interframeGapLen; i++ {
		syms = append(syms, Symbol{})
	}
	return syms
}

// PayloadSymbols is FrameSymbols for a frame that does not yet carry its
// FCS: the checksum is computed and appended first.
func PayloadSymbols(frame []byte) []Symbol {
	return FrameSymbols(fcs.AppendFCS(frame))
}
