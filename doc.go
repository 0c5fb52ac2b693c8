// Package workerpool provides the background-work primitive of the
// embedded device framework: a small, bounded pool of OS threads that runs
// short fire-and-forget work items for collaborators such as LED pulse
// scheduling, message-bus I/O and file flushes.
//
// Growth model
//
// A Pool starts with no workers. Each Submit made while fewer than
// MaxThreads workers exist starts exactly one more, regardless of how much
// work is already queued. Workers are never stopped before Shutdown.
//
// Synchronization
//
// One mutex guards the pending FIFO queue, the worker count and a
// manual-reset wake signal. Submit appends, sets the signal and wakes every
// idle worker. A worker takes the lock, pops the head item if there is one,
// and otherwise clears the signal and goes back to sleep. The lock is never
// held while an item runs, so a slow item only costs its own worker.
//
// The invariant that keeps the pool live:
//
//   - pending work implies the signal is set
//   - the signal is only cleared by a worker that holds the lock and sees
//     an empty queue
//
// Error handling
//
// The pool distinguishes between two classes of errors:
//
//   - Item failures: panics recovered while running an item, reported as
//     *TaskError through Options.OnJobError
//   - Internal errors: a worker thread that could not start, or work
//     dropped at shutdown, reported through Options.OnInternalError
//
// Neither reaches the submitter. Callers that need an outcome capture it in
// the item itself, or use Go, which returns a Future.
//
// A worker that fails to start does not lose work: the item stays queued
// and the pool simply runs with one worker less until a later Submit
// retries the growth.
//
// CPU pinning
//
// On Linux, workers may optionally be pinned to specific CPUs. Every
// worker is locked to its OS thread; with Options.PinWorkers the thread is
// also restricted to a single core.
//
// Dedicated threads
//
// StartThread runs a long-lived function on its own OS thread outside any
// pool. It takes no slot and is not tracked.
package workerpool
