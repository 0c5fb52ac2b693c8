package workerpool

import (
	"context"
	"runtime"
	"runtime/debug"

	lg "github.com/Andrej220/go-utils/zlog"
)

type threadConfig struct {
	name string
	cpu  int
	pin  bool
}

// ThreadOption configures StartThread.
type ThreadOption func(*threadConfig)

// WithCPU pins the thread to cpu.
func WithCPU(cpu int) ThreadOption {
	return func(c *threadConfig) {
		c.cpu = cpu
		c.pin = true
	}
}

// WithName labels the thread in log entries.
func WithName(name string) ThreadOption {
	return func(c *threadConfig) { c.name = name }
}

// StartThread runs fn on a dedicated OS thread outside any pool.
//
// The thread is not tracked and takes no pool slot. If the thread cannot
// be set up, the failure is logged and fn is not run; a panic in fn is
// logged as well. Neither is reported to the caller.
func StartThread(ctx context.Context, fn func(), opts ...ThreadOption) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := threadConfig{name: "thread"}
	for _, o := range opts {
		o(&cfg)
	}
	logger := lg.FromContext(ctx).With(lg.String("thread", cfg.name))

	if fn == nil {
		logger.Error("thread start failed", lg.Any("error", ErrNilItem))
		return
	}

	go func() {
		runtime.LockOSThread()

		if cfg.pin {
			if err := PinToCPU(cfg.cpu); err != nil {
				logger.Error("thread start failed", lg.Int("cpu", cfg.cpu), lg.Any("error", err))
				return
			}
		}

		defer func() {
			if r := recover(); r != nil {
				logger.Error("thread panicked",
					lg.Any("panic", r),
					lg.String("stack", string(debug.Stack())),
				)
			}
		}()
		fn()
	}()
}
