package workerpool_test

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	wp "github.com/ukkiwisurfer/Framework.Embedded-sub001"
)

func newTestPool(t *testing.T, maxThreads int) *wp.Pool {
	t.Helper()

	p := wp.New(wp.Options{MaxThreads: maxThreads})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := p.Shutdown(ctx); err != nil {
			t.Errorf("cleanup shutdown: %v", err)
		}
	})
	return p
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

func waitClosed(t *testing.T, ch <-chan struct{}, timeout time.Duration, what string) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("%s did not happen within %v", what, timeout)
	}
}

// runLog records the order and count of executed items.
type runLog struct {
	mu    sync.Mutex
	order []int
	count map[int]int
}

func newRunLog() *runLog {
	return &runLog{count: make(map[int]int)}
}

func (l *runLog) record(i int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = append(l.order, i)
	l.count[i]++
}

func (l *runLog) snapshot() ([]int, map[int]int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	order := append([]int(nil), l.order...)
	count := make(map[int]int, len(l.count))
	for k, v := range l.count {
		count[k] = v
	}
	return order, count
}
