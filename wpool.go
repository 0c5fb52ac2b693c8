package workerpool

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"

	lg "github.com/Andrej220/go-utils/zlog"
)

// WorkItem is a deferred unit of work. It takes no arguments and returns
// nothing; results travel through whatever the closure captures.
type WorkItem func()

// Pool runs WorkItems on a bounded, lazily grown set of workers.
//
// Every worker is a goroutine locked to its own OS thread. One mutex guards
// the pending queue, the worker count and the wake signal; it is never held
// while an item runs.
type Pool struct {
	mu   sync.Mutex
	cond *sync.Cond // waits on mu until signaled or closing

	queue *fifoQueue

	// workers is the size of the worker set, changed only while mu is
	// held. It grows with Submit and shrinks only when an item takes its
	// worker down, in which case a replacement is started.
	workers int
	nextID  int

	// signaled is the manual-reset wake signal. Invariant: a non-empty
	// queue implies signaled. Only a worker that holds mu and sees an
	// empty queue clears it.
	signaled bool
	closing  bool

	wg       sync.WaitGroup
	stopOnce sync.Once
	done     chan struct{} // closed once every worker has exited after Shutdown

	opts    Options
	metrics MetricsPolicy
}

// Stats is a point-in-time view of the pool's shared state.
type Stats struct {
	Workers    int
	MaxThreads int
	Queued     int
	Signaled   bool
	Closing    bool

	Submitted uint64
	Executed  uint64
	Failed    uint64
}

// New creates a pool with AtomicMetrics. No worker is started until the
// first Submit.
func New(opts Options) *Pool {
	return NewWithMetrics(opts, &AtomicMetrics{})
}

// NewWithMetrics creates a pool reporting to m. A nil m disables metrics.
func NewWithMetrics(opts Options, m MetricsPolicy) *Pool {
	opts.FillDefaults()
	if m == nil {
		m = &NoopMetrics{}
	}
	p := &Pool{
		queue:   newFifoQueue(initialFifoCapacity),
		done:    make(chan struct{}),
		opts:    opts,
		metrics: m,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Submit queues item for execution and returns without waiting for it.
//
// While fewer than MaxThreads workers exist, every call starts exactly one
// more worker on the caller's goroutine, so the first MaxThreads calls can
// be slow. A worker that fails to start is reported and the item stays
// queued for the workers that do exist or for a later growth attempt.
//
// Submit fails only for a nil item or after Shutdown has begun.
func (p *Pool) Submit(item WorkItem) error {
	if item == nil {
		return ErrNilItem
	}

	p.mu.Lock()
	if p.closing {
		p.mu.Unlock()
		return ErrPoolClosed
	}

	p.queue.Push(item)
	p.metrics.IncSubmitted()

	var startErr error
	if p.workers < p.opts.MaxThreads {
		startErr = p.startWorkerLocked()
	}

	p.signaled = true
	p.cond.Broadcast()
	p.mu.Unlock()

	if startErr != nil {
		p.reportInternalError(startErr)
	}
	return nil
}

// startWorkerLocked starts one worker and waits for its thread to come up.
// The caller must hold p.mu; the new worker does not touch it before
// reporting readiness.
func (p *Pool) startWorkerLocked() error {
	id := p.nextID
	p.nextID++

	ready := make(chan error, 1)
	p.wg.Add(1)
	go p.worker(id, ready)

	if err := <-ready; err != nil {
		return &WorkerStartError{WorkerID: id, Err: err}
	}
	p.workers++
	return nil
}

// worker is the loop run by every pool thread:
// wait for the signal, dequeue under the lock, execute outside it.
func (p *Pool) worker(id int, ready chan<- error) {
	defer p.wg.Done()

	// The thread is never unlocked; if the worker exits, the runtime
	// tears the thread down along with any affinity set on it.
	runtime.LockOSThread()

	if err := p.initWorker(id); err != nil {
		ready <- err
		return
	}
	ready <- nil

	logger := lg.FromContext(p.opts.Ctx).With(lg.Int("worker_id", id))
	logger.Info("worker started")

	// Runs before wg.Done, so a replacement is registered with the
	// WaitGroup before this worker leaves it.
	stopped := false
	defer func() {
		if !stopped {
			logger.Warn("worker lost to an exiting item")
			p.replaceWorker()
		}
	}()

	for {
		item, ok := p.next()
		if !ok {
			stopped = true
			logger.Info("worker stopped")
			return
		}
		p.execute(id, item)
	}
}

// replaceWorker takes a worker that died mid-item out of the worker set
// and starts another one if there is still work it could do. If no worker
// is left at shutdown, pending items are dropped and reported.
func (p *Pool) replaceWorker() {
	p.mu.Lock()
	p.workers--

	var startErr error
	if !p.closing || p.queue.Len() > 0 {
		startErr = p.startWorkerLocked()
	}

	dropped := 0
	if p.closing && p.workers == 0 {
		dropped = p.queue.reset()
	}
	p.mu.Unlock()

	if startErr != nil {
		p.reportInternalError(startErr)
	}
	if dropped > 0 {
		p.reportInternalError(fmt.Errorf("%w: %d items dropped", ErrNoWorkers, dropped))
	}
}

func (p *Pool) initWorker(id int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker init panicked: %v", r)
		}
	}()

	if p.opts.PinWorkers {
		if err := PinToCPU(id % runtime.NumCPU()); err != nil {
			return err
		}
	}
	if p.opts.WorkerInit != nil {
		return p.opts.WorkerInit(id)
	}
	return nil
}

// next blocks until an item can be dequeued. It returns false once the
// pool is closing and the queue has been drained.
func (p *Pool) next() (WorkItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		for !p.signaled && !p.closing {
			p.cond.Wait()
		}
		if item, ok := p.queue.Pop(); ok {
			return item, true
		}
		// Queue observed empty under the lock: re-arm.
		p.signaled = false
		if p.closing {
			return nil, false
		}
	}
}

// execute runs one item, turning a panic into a reported *TaskError.
// An item that calls runtime.Goexit cannot be stopped from unwinding the
// worker; it is reported with ErrItemExited and the worker is replaced.
func (p *Pool) execute(id int, item WorkItem) {
	finished := false
	defer func() {
		r := recover()
		if r == nil && !finished {
			r = ErrItemExited
		}
		if r != nil {
			p.metrics.IncFailed()
			p.reportJobError(&TaskError{
				WorkerID: id,
				Panic:    r,
				Stack:    string(debug.Stack()),
			})
		}
		p.metrics.IncExecuted()
	}()
	item()
	finished = true
}

// Shutdown stops accepting work, lets the workers drain the queue and
// waits for them to exit. It returns ctx.Err() if ctx ends first; the
// workers keep draining in the background and a later call can wait again.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.closing = true
		dropped := 0
		if p.workers == 0 {
			dropped = p.queue.reset()
		}
		p.cond.Broadcast()
		p.mu.Unlock()

		if dropped > 0 {
			p.reportInternalError(fmt.Errorf("%w: %d items dropped", ErrNoWorkers, dropped))
		}
		lg.FromContext(p.opts.Ctx).Info("pool shutting down", lg.Int("workers", p.Workers()))

		go func() {
			p.wg.Wait()
			close(p.done)
		}()
	})

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop is a blocking Shutdown.
func (p *Pool) Stop() { _ = p.Shutdown(context.Background()) }

// Workers returns the number of workers started so far.
func (p *Pool) Workers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.workers
}

// QueueLength returns the number of items waiting for a worker.
func (p *Pool) QueueLength() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

// Signaled reports the state of the wake signal.
func (p *Pool) Signaled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signaled
}

// Stats returns a snapshot of the pool. The counters are filled only when
// the pool's MetricsPolicy can report them, as AtomicMetrics does.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	st := Stats{
		Workers:    p.workers,
		MaxThreads: p.opts.MaxThreads,
		Queued:     p.queue.Len(),
		Signaled:   p.signaled,
		Closing:    p.closing,
	}
	p.mu.Unlock()

	if r, ok := p.metrics.(metricsReader); ok {
		st.Submitted = r.Submitted()
		st.Executed = r.Executed()
		st.Failed = r.Failed()
	}
	return st
}

// Metrics returns the MetricsPolicy the pool reports to.
func (p *Pool) Metrics() MetricsPolicy { return p.metrics }
