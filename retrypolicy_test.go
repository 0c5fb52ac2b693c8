package workerpool_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	wp "github.com/ukkiwisurfer/Framework.Embedded-sub001"
)

var fastRetry = wp.RetryPolicy{Attempts: 3, Initial: 2 * time.Millisecond, Max: 5 * time.Millisecond}

func TestDefaultRetryPolicy(t *testing.T) {
	rp := wp.DefaultRetryPolicy()
	if rp.Attempts <= 0 || rp.Initial <= 0 || rp.Max < rp.Initial {
		t.Fatalf("bad default policy: %+v", rp)
	}
}

func TestRetryThenSuccess(t *testing.T) {
	var attempts atomic.Int32

	fn := wp.Retry(func() error {
		if attempts.Add(1) < 3 {
			return errors.New("bus busy")
		}
		return nil
	}, fastRetry)

	if err := fn(); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got := attempts.Load(); got != 3 {
		t.Fatalf("attempts = %d; want 3", got)
	}
}

func TestRetryExhausted(t *testing.T) {
	var attempts atomic.Int32
	want := errors.New("still busy")

	fn := wp.Retry(func() error {
		attempts.Add(1)
		return want
	}, fastRetry)

	if err := fn(); !errors.Is(err, want) {
		t.Fatalf("got %v; want %v", err, want)
	}
	if got := attempts.Load(); got != 3 {
		t.Fatalf("attempts = %d; want 3", got)
	}
}

func TestRetryContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var attempts atomic.Int32

	fn := wp.RetryContext(ctx, func() error {
		if attempts.Add(1) == 1 {
			cancel()
		}
		return errors.New("fail")
	}, wp.RetryPolicy{Attempts: 5, Initial: time.Second, Max: time.Second})

	start := time.Now()
	if err := fn(); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v; want context.Canceled", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("backoff was not cut short by cancellation")
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("attempts = %d; want 1", got)
	}
}

func TestRetryInsidePool(t *testing.T) {
	p := newTestPool(t, 1)

	var attempts atomic.Int32
	f := wp.Go(p, wp.Retry(func() error {
		if attempts.Add(1) < 2 {
			return errors.New("transient")
		}
		return nil
	}, fastRetry))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := f.Wait(ctx); err != nil {
		t.Fatalf("future: %v", err)
	}
	if got := attempts.Load(); got != 2 {
		t.Fatalf("attempts = %d; want 2", got)
	}
}
