package workerpool

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed is returned by Submit once Shutdown has started.
	ErrPoolClosed = errors.New("workerpool: pool closed")

	// ErrNilItem is returned when a nil WorkItem is submitted.
	ErrNilItem = errors.New("workerpool: work item is nil")

	// ErrNoWorkers is reported when work is still queued at shutdown
	// and no worker is left to drain it.
	ErrNoWorkers = errors.New("workerpool: no workers to drain pending items")

	// ErrItemExited is the failure recorded for an item that called
	// runtime.Goexit instead of returning.
	ErrItemExited = errors.New("workerpool: work item exited its worker")

	// ErrPinUnsupported is returned by PinToCPU on platforms without
	// thread affinity support.
	ErrPinUnsupported = errors.New("workerpool: cpu pinning not supported on this platform")
)

// TaskError describes a work item that panicked or exited its worker.
type TaskError struct {
	WorkerID int
	Panic    any
	Stack    string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("workerpool: item panicked on worker %d: %v", e.WorkerID, e.Panic)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *TaskError) Unwrap() error {
	if err, ok := e.Panic.(error); ok {
		return err
	}
	return nil
}

// WorkerStartError describes a worker whose thread could not be brought up.
// The pool keeps running with one slot less.
type WorkerStartError struct {
	WorkerID int
	Err      error
}

func (e *WorkerStartError) Error() string {
	return fmt.Sprintf("workerpool: worker %d failed to start: %v", e.WorkerID, e.Err)
}

func (e *WorkerStartError) Unwrap() error { return e.Err }
