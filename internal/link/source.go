// Package link models the physical-link collaborator: a producer of
// per-byte-time symbols at its own pace.
package link

import "context"

// Symbol is one byte-time on the link: a data octet, a data-valid flag
// and a link-error flag. Valid=false means the line is idle at this
// step; Err=true mid-frame invalidates the frame the same way idle does.
type Symbol struct {
	Data  byte
	Valid bool
	Err   bool
}

// Source produces symbols into out until the stream is exhausted or ctx
// is cancelled. Implementations close nothing; the caller owns out.
type Source interface {
	Run(ctx context.Context, out chan<- Symbol) error
}
