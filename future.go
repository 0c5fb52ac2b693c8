package workerpool

import (
	"context"
	"runtime/debug"
)

// Future is the result handle returned by Go.
type Future struct {
	done chan struct{}
	err  error
}

// Done is closed once the function has returned or panicked.
func (f *Future) Done() <-chan struct{} { return f.done }

// Err returns the function's error. It is only meaningful after Done is
// closed and returns nil before that.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Wait blocks until the function finishes or ctx ends.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Go submits fn to p and returns a Future for its outcome. A panic in fn is
// captured as a *TaskError (WorkerID -1, since the wrapper does not know
// which worker ran it) instead of reaching the pool's job error hook.
//
// If the submission itself is rejected, the returned Future is already
// done with that error.
func Go(p *Pool, fn func() error) *Future {
	f := &Future{done: make(chan struct{})}
	if fn == nil {
		f.err = ErrNilItem
		close(f.done)
		return f
	}

	err := p.Submit(func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = &TaskError{WorkerID: -1, Panic: r, Stack: string(debug.Stack())}
			}
		}()
		f.err = fn()
	})
	if err != nil {
		f.err = err
		close(f.done)
	}
	return f
}
