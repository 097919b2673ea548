// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesTotal counts frames by final outcome
	FramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tyto_frames_total",
			Help: "Total number of frames reaching a verdict",
		},
		[]string{"outcome"}, // accepted | discarded
	)

	// DiscardsTotal counts discard reasons asserted per frame
	DiscardsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tyto_discards_total",
			Help: "Total number of discard reasons asserted",
		},
		[]string{"reason"}, // source_mac | vlan | bad_crc | bad_size
	)

	// FrameClassTotal counts frames by destination MAC class
	FrameClassTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tyto_frame_class_total",
			Help: "Total number of frames by destination MAC class",
		},
		[]string{"class"}, // broadcast | multicast | unicast
	)

	// BytesTotal counts frame bytes across valid and invalid frames
	BytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tyto_bytes_total",
			Help: "Total frame bytes processed, FCS included",
		},
	)

	// QueueOverflowsTotal counts frames lost to the domain-crossing queue
	QueueOverflowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tyto_queue_overflows_total",
			Help: "Total number of frames refused or truncated by queue overflow",
		},
	)

	// QueueDepth tracks the current domain-crossing queue occupancy
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tyto_queue_depth",
			Help: "Current number of octet events buffered in the queue",
		},
	)
)

// Label values for FramesTotal.
const (
	OutcomeAccepted  = "accepted"
	OutcomeDiscarded = "discarded"
)

// Label values for DiscardsTotal.
const (
	ReasonSourceMAC = "source_mac"
	ReasonVLAN      = "vlan"
	ReasonBadCRC    = "bad_crc"
	ReasonBadSize   = "bad_size"
)
