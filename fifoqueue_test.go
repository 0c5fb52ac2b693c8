package workerpool

import (
	"testing"
)

func tagged(log *[]int, i int) WorkItem {
	return func() { *log = append(*log, i) }
}

func TestFifoGrow_NoWrap(t *testing.T) {
	capacity := 4
	newSize := 5
	q := newFifoQueue(capacity)

	var log []int
	for i := 1; i <= capacity; i++ {
		q.Push(tagged(&log, i))
	}

	if q.size != capacity {
		t.Fatalf("expected size=4, got %d", q.size)
	}

	q.Push(tagged(&log, 5))

	if q.capacity <= capacity {
		t.Fatalf("grow() didn't increase capacity, got %d", q.capacity)
	}
	if q.size != newSize {
		t.Fatalf("after grow: expected size=%d, got %d", newSize, q.size)
	}

	for expected := 1; expected <= newSize; expected++ {
		it, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop returned false, expected %d", expected)
		}
		it()
		if got := log[len(log)-1]; got != expected {
			t.Fatalf("FIFO order broken: expected %d, got %d", expected, got)
		}
	}
}

func TestFifoGrow_WithWrap(t *testing.T) {
	q := newFifoQueue(4)
	var log []int

	q.Push(tagged(&log, 1))
	q.Push(tagged(&log, 2))
	q.Push(tagged(&log, 3))

	it, _ := q.Pop()
	it()
	if log[0] != 1 {
		t.Fatalf("expected to pop 1, got %d", log[0])
	}

	// head=1, tail wraps past the end of the buffer
	q.Push(tagged(&log, 4))
	q.Push(tagged(&log, 5))
	q.Push(tagged(&log, 6)) // forces grow with a wrapped ring

	if q.capacity != 8 {
		t.Fatalf("expected capacity 8 after grow, got %d", q.capacity)
	}

	log = log[:0]
	for {
		it, ok := q.Pop()
		if !ok {
			break
		}
		it()
	}

	want := []int{2, 3, 4, 5, 6}
	if len(log) != len(want) {
		t.Fatalf("popped %d items, want %d", len(log), len(want))
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("position %d: got %d, want %d", i, log[i], want[i])
		}
	}
}

func TestFifoPopEmpty(t *testing.T) {
	q := newFifoQueue(0)

	if q.capacity != initialFifoCapacity {
		t.Fatalf("expected default capacity %d, got %d", initialFifoCapacity, q.capacity)
	}
	if it, ok := q.Pop(); ok || it != nil {
		t.Fatal("Pop on empty queue returned an item")
	}
}

func TestFifoReset(t *testing.T) {
	q := newFifoQueue(2)
	for i := 0; i < 5; i++ {
		q.Push(func() {})
	}

	if n := q.reset(); n != 5 {
		t.Fatalf("reset dropped %d, want 5", n)
	}
	if q.Len() != 0 {
		t.Fatalf("Len after reset = %d", q.Len())
	}
	for i, it := range q.buf {
		if it != nil {
			t.Fatalf("slot %d still holds an item", i)
		}
	}
}
