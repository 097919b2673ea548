// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors. Frame-level anomalies (bad CRC, bad size, VLAN
// mismatch, zero source MAC, overflow) are statistics, not errors —
// only structural conditions appear here.
var (
	// Configuration errors
	ErrConfigInvalid = errors.New("tyto: invalid configuration")
	ErrSizeBounds    = errors.New("tyto: min_frame_bytes exceeds max_frame_bytes")

	// Queue errors
	ErrQueueCapacity = errors.New("tyto: queue capacity must be positive")
	ErrQueueClosed   = errors.New("tyto: queue closed")

	// Link source errors
	ErrSourceExhausted = errors.New("tyto: link source exhausted")

	// Pipeline errors
	ErrPipelineStopped = errors.New("tyto: pipeline stopped")
)
