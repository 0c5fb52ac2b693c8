package main

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	wp "github.com/ukkiwisurfer/Framework.Embedded-sub001"
)

// deviceSink stands in for the device collaborators. Items write their
// results here, the way real callers hand results back out of band.
type deviceSink struct {
	mu       sync.Mutex
	ledOn    bool
	toggles  int
	messages []string
	flushed  bytes.Buffer
}

func newDeviceSink() *deviceSink {
	return &deviceSink{}
}

func (s *deviceSink) item(kind string, i int, d time.Duration) wp.WorkItem {
	switch kind {
	case "bus":
		return func() {
			time.Sleep(d)
			s.mu.Lock()
			s.messages = append(s.messages, fmt.Sprintf("telemetry/%d", i))
			s.mu.Unlock()
		}
	case "flush":
		return func() {
			time.Sleep(d)
			s.mu.Lock()
			fmt.Fprintf(&s.flushed, "record %d\n", i)
			s.mu.Unlock()
		}
	default:
		return func() {
			time.Sleep(d)
			s.mu.Lock()
			s.ledOn = !s.ledOn
			s.toggles++
			s.mu.Unlock()
		}
	}
}

func (s *deviceSink) summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("led toggles=%d on=%t, bus messages=%d, flushed bytes=%d",
		s.toggles, s.ledOn, len(s.messages), s.flushed.Len())
}
