// fifo_queue.go
package workerpool

const (
	initialFifoCapacity = 16
)

// fifoQueue is the pending-work queue of a Pool.
//
// It is a growable circular buffer of WorkItems. Items are popped strictly
// in the order they were pushed. The queue is not safe for concurrent use;
// the pool only touches it while holding its lock.
type fifoQueue struct {
	buf        []WorkItem // circular buffer
	head, tail int        // read/write indices
	size       int        // number of items currently buffered
	capacity   int
}

// newFifoQueue creates a FIFO queue with the given initial capacity.
// The buffer doubles whenever a Push finds it full.
func newFifoQueue(capacity int) *fifoQueue {
	if capacity <= 0 {
		capacity = initialFifoCapacity
	}
	return &fifoQueue{
		buf:      make([]WorkItem, capacity),
		capacity: capacity,
	}
}

// Len returns the number of items currently waiting in the queue.
func (q *fifoQueue) Len() int { return q.size }

// Push inserts an item at the tail of the queue.
func (q *fifoQueue) Push(it WorkItem) {
	if q.size == q.capacity {
		q.grow()
	}
	q.buf[q.tail] = it
	q.tail++
	if q.tail == q.capacity {
		q.tail = 0
	}
	q.size++
}

// Pop removes and returns the oldest item.
//
// If the queue is empty, returns nil and false.
func (q *fifoQueue) Pop() (WorkItem, bool) {
	if q.size == 0 {
		return nil, false
	}
	it := q.buf[q.head]
	q.buf[q.head] = nil // drop the reference so the closure can be collected
	q.head++
	if q.head == q.capacity {
		q.head = 0
	}
	q.size--
	return it, true
}

// grow doubles the buffer and unwraps the ring so head starts at zero.
func (q *fifoQueue) grow() {
	newCap := q.capacity * 2
	buf := make([]WorkItem, newCap)

	if q.head < q.tail {
		copy(buf, q.buf[q.head:q.tail])
	} else {
		n := copy(buf, q.buf[q.head:])
		copy(buf[n:], q.buf[:q.tail])
	}

	q.buf = buf
	q.head = 0
	q.tail = q.size
	q.capacity = newCap
}

// reset drops every queued item and returns how many were dropped.
func (q *fifoQueue) reset() int {
	n := q.size
	for i := range q.buf {
		q.buf[i] = nil
	}
	q.head, q.tail, q.size = 0, 0, 0
	return n
}
