package pipeline

import (
	"context"
	"testing"
	"time"

	"firestige.xyz/tyto/internal/core"
	"firestige.xyz/tyto/internal/fcs"
	"firestige.xyz/tyto/internal/link"
	"firestige.xyz/tyto/internal/validator"
)

// sliceSource replays a fixed symbol sequence and stops.
type sliceSource struct {
	syms []link.Symbol
}

func (s *sliceSource) Run(ctx context.Context, out chan<- link.Symbol) error {
	for _, sym := range s.syms {
		select {
		case out <- sym:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func testFrame(t *testing.T, dst byte, totalLen int) []byte {
	t.Helper()
	content := make([]byte, totalLen-core.FCSLen)
	for i := 0; i < core.MACLen; i++ {
		content[i] = dst
		content[core.MACLen+i] = 0xAA
	}
	content[12] = 0x08
	return fcs.AppendFCS(content)
}

func defaultValidatorConfig() validator.Config {
	return validator.Config{
		MinFrameBytes: core.DefaultMinFrameBytes,
		MaxFrameBytes: core.DefaultMaxFrameBytes,
	}
}

func runToCompletion(t *testing.T, p *Pipeline) {
	t.Helper()
	if err := p.Start(); err != nil {
		t.Fatalf("pipeline start failed: %v", err)
	}
	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not drain in time")
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	good := testFrame(t, 0x02, 64)
	bad := testFrame(t, 0x02, 64)
	bad[len(bad)-1] ^= 0xFF
	broadcast := testFrame(t, 0xFF, 64)

	var syms []link.Symbol
	for _, f := range [][]byte{good, bad, broadcast} {
		syms = append(syms, link.FrameSymbols(f)...)
	}

	p, err := New(Config{
		Source:        &sliceSource{syms: syms},
		Validator:     defaultValidatorConfig(),
		QueueCapacity: 256,
	})
	if err != nil {
		t.Fatalf("pipeline build failed: %v", err)
	}
	runToCompletion(t, p)

	snap := p.Stats()
	if snap.Frames != 3 {
		t.Fatalf("Frames = %d, want 3", snap.Frames)
	}
	if snap.Valid != 2 {
		t.Errorf("Valid = %d, want 2", snap.Valid)
	}
	if snap.BadCRC != 1 || snap.DiscardBadCRC != 1 {
		t.Errorf("bad CRC counters wrong: %+v", snap)
	}
	if snap.Broadcast != 1 || snap.Unicast != 2 {
		t.Errorf("class counters wrong: %+v", snap)
	}
	if snap.Bytes != 3*64 {
		t.Errorf("Bytes = %d, want %d", snap.Bytes, 3*64)
	}
	if snap.Discarded != 1 {
		t.Errorf("Discarded = %d, want 1", snap.Discarded)
	}
}

func TestPipelineVLANPolicy(t *testing.T) {
	untagged := testFrame(t, 0x02, 64)

	cfg := defaultValidatorConfig()
	cfg.VLANAware = true
	cfg.Member = func(id uint16) bool { return id == 10 }

	p, err := New(Config{
		Source:        &sliceSource{syms: link.FrameSymbols(untagged)},
		Validator:     cfg,
		QueueCapacity: 256,
	})
	if err != nil {
		t.Fatalf("pipeline build failed: %v", err)
	}
	runToCompletion(t, p)

	snap := p.Stats()
	if snap.DiscardVLAN != 1 {
		t.Errorf("DiscardVLAN = %d, want 1", snap.DiscardVLAN)
	}
	// VLAN rejection does not touch the size/CRC validity statistic.
	if snap.Valid != 1 {
		t.Errorf("Valid = %d, want 1", snap.Valid)
	}
}

func TestPipelineRejectsBadConfig(t *testing.T) {
	cfg := defaultValidatorConfig()
	cfg.MinFrameBytes = 100
	cfg.MaxFrameBytes = 50

	if _, err := New(Config{
		Source:        &sliceSource{},
		Validator:     cfg,
		QueueCapacity: 16,
	}); err == nil {
		t.Error("inverted size window must fail pipeline construction")
	}

	if _, err := New(Config{
		Source:        &sliceSource{},
		Validator:     defaultValidatorConfig(),
		QueueCapacity: 0,
	}); err == nil {
		t.Error("non-positive queue capacity must fail pipeline construction")
	}
}

func TestPipelineResetStats(t *testing.T) {
	p, err := New(Config{
		Source:        &sliceSource{syms: link.FrameSymbols(testFrame(t, 0x02, 64))},
		Validator:     defaultValidatorConfig(),
		QueueCapacity: 64,
	})
	if err != nil {
		t.Fatalf("pipeline build failed: %v", err)
	}
	runToCompletion(t, p)

	if snap := p.Stats(); snap.Frames != 1 {
		t.Fatalf("Frames = %d, want 1", snap.Frames)
	}
	p.ResetStats()
	if snap := p.Stats(); snap.Frames != 0 {
		t.Errorf("Frames after reset = %d, want 0", snap.Frames)
	}
}
