package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/google/gopacket/pcapgo"

	"firestige.xyz/tyto/internal/core"
	"firestige.xyz/tyto/internal/fcs"
)

// PcapConfig configures a pcap replay source.
type PcapConfig struct {
	Path string
	// Loop replays the file indefinitely instead of stopping at EOF.
	Loop bool
	// CorruptFCSRate is the fraction of frames (0..1) whose synthesized
	// FCS is flipped, for fault injection.
	CorruptFCSRate float64
}

// PcapSource replays the Ethernet frames of a capture file as link
// symbols. Capture files carry no FCS, so one is computed and appended
// to every frame before line coding.
type PcapSource struct {
	cfg PcapConfig
	rng *rand.Rand
}

// NewPcapSource creates a replay source for cfg.Path.
func NewPcapSource(cfg PcapConfig) (*PcapSource, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("pcap source requires a path")
	}
	if cfg.CorruptFCSRate < 0 || cfg.CorruptFCSRate > 1 {
		return nil, fmt.Errorf("corrupt_fcs_rate %v outside [0,1]", cfg.CorruptFCSRate)
	}
	return &PcapSource{cfg: cfg, rng: rand.New(rand.NewSource(1))}, nil
}

// Run reads the capture and emits symbols until EOF (or forever when
// looping) or ctx cancellation. Looping over a capture that holds no
// frames would spin without ever emitting, so that is an error.
func (s *PcapSource) Run(ctx context.Context, out chan<- Symbol) error {
	for {
		n, err := s.replayOnce(ctx, out)
		if err != nil {
			return err
		}
		if !s.cfg.Loop {
			return nil
		}
		if n == 0 {
			return fmt.Errorf("%w: capture %s holds no frames to loop over",
				core.ErrSourceExhausted, s.cfg.Path)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// replayOnce emits one pass over the capture and reports how many
// frames it replayed.
func (s *PcapSource) replayOnce(ctx context.Context, out chan<- Symbol) (int, error) {
	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return 0, fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()

	r, err := pcapgo.NewReader(f)
	if err != nil {
		return 0, fmt.Errorf("read capture header: %w", err)
	}

	frames := 0
	for {
		data, _, err := r.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, fmt.Errorf("read capture packet: %w", err)
		}

		frame := fcs.AppendFCS(data)
		if s.cfg.CorruptFCSRate > 0 && s.rng.Float64() < s.cfg.CorruptFCSRate {
			frame[len(frame)-1] ^= 0xFF
		}

		for _, sym := range FrameSymbols(frame) {
			select {
			case out <- sym:
			case <-ctx.Done():
				return frames, ctx.Err()
			}
		}
		frames++
	}
}
