package workerpool

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the worker pool to report
// submission and execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking
type MetricsPolicy interface {

	// IncSubmitted increments the accepted items counter.
	IncSubmitted()

	// IncExecuted increments the executed items counter.
	// Items that panicked are counted too.
	IncExecuted()

	// IncFailed increments the panicked items counter.
	IncFailed()
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	submitted atomic.Uint64

	_ [56]byte // padding to avoid false sharing

	executed atomic.Uint64

	_ [56]byte

	failed atomic.Uint64
}

// Submitted returns the total number of accepted items.
func (m *AtomicMetrics) Submitted() uint64 {
	return m.submitted.Load()
}

// Executed returns the total number of executed items.
func (m *AtomicMetrics) Executed() uint64 {
	return m.executed.Load()
}

// Failed returns the total number of items that panicked.
func (m *AtomicMetrics) Failed() uint64 {
	return m.failed.Load()
}

func (m *AtomicMetrics) IncSubmitted() { m.submitted.Add(1) }
func (m *AtomicMetrics) IncExecuted()  { m.executed.Add(1) }
func (m *AtomicMetrics) IncFailed()    { m.failed.Add(1) }

// metricsReader is implemented by policies whose counters can be read back.
type metricsReader interface {
	Submitted() uint64
	Executed() uint64
	Failed() uint64
}

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted() {}
func (m *NoopMetrics) IncExecuted()  {}
func (m *NoopMetrics) IncFailed()    {}
