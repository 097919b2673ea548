// Package pipeline implements the frame ingestion and validation engine.
package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"firestige.xyz/tyto/internal/framing"
	"firestige.xyz/tyto/internal/link"
	"firestige.xyz/tyto/internal/metrics"
	"firestige.xyz/tyto/internal/queue"
	"firestige.xyz/tyto/internal/stats"
	"firestige.xyz/tyto/internal/validator"
)

// Pipeline wires the two timing domains: a producer task advancing at
// the link's byte rate (source → synchronizer → queue) and a consumer
// task advancing at the processing rate (queue → validator →
// aggregator), bridged only by the bounded queue.
type Pipeline struct {
	source       link.Source
	q            *queue.Queue
	synchronizer *framing.Synchronizer
	validator    *validator.Validator
	aggregator   *stats.Aggregator

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	symbolChan chan link.Symbol

	// last synchronizer overflow total folded into the aggregator
	overflowSeen uint64
}

// Config contains pipeline configuration.
type Config struct {
	Source        link.Source
	Validator     validator.Config
	QueueCapacity int
	// SymbolBuffer sizes the channel between the source goroutine and
	// the synchronizer. It models link pacing, not the domain crossing.
	SymbolBuffer int
}

// New creates a pipeline. The queue capacity and validator policy are
// checked here; everything downstream is infallible per-frame work.
func New(cfg Config) (*Pipeline, error) {
	if cfg.SymbolBuffer == 0 {
		cfg.SymbolBuffer = 256
	}

	q, err := queue.New(cfg.QueueCapacity)
	if err != nil {
		return nil, err
	}
	val, err := validator.New(cfg.Validator)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		source:       cfg.Source,
		q:            q,
		synchronizer: framing.New(q),
		validator:    val,
		aggregator:   stats.New(),
		ctx:          ctx,
		cancel:       cancel,
		symbolChan:   make(chan link.Symbol, cfg.SymbolBuffer),
	}, nil
}

// Start launches the producer and consumer tasks.
func (p *Pipeline) Start() error {
	slog.Info("pipeline starting", "queue_capacity", p.q.Cap())

	p.wg.Add(2)
	go p.produceLoop()
	go p.consumeLoop()

	return nil
}

// Stop cancels both tasks and waits for them to drain.
func (p *Pipeline) Stop() error {
	slog.Info("pipeline stopping")
	p.cancel()
	p.wg.Wait()

	snap := p.Stats()
	slog.Info("pipeline stopped",
		"frames", snap.Frames,
		"valid", snap.Valid,
		"discarded", snap.Discarded,
		"bytes", snap.Bytes,
		"overflow", snap.Overflow)
	return nil
}

// Wait blocks until both tasks have finished on their own, i.e. the
// source is exhausted and the queue drained.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// produceLoop runs the link source and the synchronizer in the producer
// timing domain. The synchronizer never blocks mid-frame: admission-only
// backpressure against the queue, refusals counted.
func (p *Pipeline) produceLoop() {
	defer p.wg.Done()

	go func() {
		defer close(p.symbolChan)
		if err := p.source.Run(p.ctx, p.symbolChan); err != nil && p.ctx.Err() == nil {
			slog.Error("link source failed", "error", err)
		}
	}()

	for sym := range p.symbolChan {
		p.synchronizer.Feed(sym)
	}
	// Source exhausted: signal the consumer that no more events follow.
	p.q.Close()
}

// consumeLoop runs the validator and aggregator in the consumer timing
// domain. It suspends on an empty queue and resumes per event.
func (p *Pipeline) consumeLoop() {
	defer p.wg.Done()

	for {
		ev, ok := p.q.Pop(p.ctx)
		if !ok {
			p.syncOverflow()
			return
		}

		res, done := p.validator.Feed(ev)
		if !done {
			continue
		}

		p.aggregator.Accumulate(res)
		p.publish(res)
		p.syncOverflow()

		if res.Verdict.Discard() {
			slog.Debug("frame discarded",
				"length", res.Length,
				"source_mac", res.Verdict.SourceMAC,
				"vlan", res.Verdict.VLAN,
				"bad_crc", res.Verdict.BadCRC,
				"bad_size", res.Verdict.BadSize)
		}
	}
}

// publish mirrors one frame result into the Prometheus registry.
func (p *Pipeline) publish(res validator.Result) {
	if res.Verdict.Discard() {
		metrics.FramesTotal.WithLabelValues(metrics.OutcomeDiscarded).Inc()
	} else {
		metrics.FramesTotal.WithLabelValues(metrics.OutcomeAccepted).Inc()
	}
	if res.Verdict.SourceMAC {
		metrics.DiscardsTotal.WithLabelValues(metrics.ReasonSourceMAC).Inc()
	}
	if res.Verdict.VLAN {
		metrics.DiscardsTotal.WithLabelValues(metrics.ReasonVLAN).Inc()
	}
	if res.Verdict.BadCRC {
		metrics.DiscardsTotal.WithLabelValues(metrics.ReasonBadCRC).Inc()
	}
	if res.Verdict.BadSize {
		metrics.DiscardsTotal.WithLabelValues(metrics.ReasonBadSize).Inc()
	}

	switch {
	case res.Stats.Broadcast:
		metrics.FrameClassTotal.WithLabelValues("broadcast").Inc()
	case res.Stats.Multicast:
		metrics.FrameClassTotal.WithLabelValues("multicast").Inc()
	case res.Stats.Unicast:
		metrics.FrameClassTotal.WithLabelValues("unicast").Inc()
	}

	metrics.BytesTotal.Add(float64(res.Length))
	metrics.QueueDepth.Set(float64(p.q.Len()))
}

// syncOverflow folds the synchronizer's producer-side overflow counters
// into the aggregate view.
func (p *Pipeline) syncOverflow() {
	total := p.synchronizer.Refused() + p.synchronizer.Truncated()
	if delta := total - p.overflowSeen; delta > 0 {
		p.overflowSeen = total
		p.aggregator.AddOverflow(delta)
		metrics.QueueOverflowsTotal.Add(float64(delta))
	}
}

// Stats returns the aggregate counter snapshot.
func (p *Pipeline) Stats() stats.Snapshot {
	return p.aggregator.Snapshot()
}

// ResetStats zeroes the aggregate counters (explicit external reset).
func (p *Pipeline) ResetStats() {
	p.aggregator.Reset()
}
