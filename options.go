package workerpool

import (
	"context"
)

// DefaultMaxThreads is the worker cap used when Options.MaxThreads is unset.
// The target devices have few cores, so the pool stays small.
const DefaultMaxThreads = 5

// Options configure a worker Pool.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// MaxThreads caps the number of workers. Workers are started lazily,
	// one per Submit, until the cap is reached.
	MaxThreads int

	// PinWorkers restricts each worker's OS thread to a single CPU
	// (worker id modulo the CPU count). Linux only.
	PinWorkers bool

	// WorkerInit, if set, runs on a new worker's thread before it serves
	// any item. A non-nil error aborts that worker's start. It runs while
	// Submit holds the pool lock and must not submit to the same pool.
	WorkerInit func(workerID int) error

	// Ctx carries the logger and is handed to lg.FromContext.
	// It does not cancel queued work.
	Ctx context.Context

	// OnJobError receives a *TaskError for every item that panicked.
	OnJobError func(error)

	// OnInternalError receives pool failures such as a worker that could
	// not start or work discarded at shutdown.
	OnInternalError func(error)
}

func (o *Options) FillDefaults() {
	if o.MaxThreads <= 0 {
		o.MaxThreads = DefaultMaxThreads
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
}
