// Package queue implements a ring buffer queue with bulk insertion at the head.
// The reader uses it to hold runes pushed back in front of the underlying source.
package queue

const minSize = 3

// Queue is a growable ring buffer. Its capacity is always 2^n, size holds capacity - 1.
type Queue[T any] struct {
	items      []T
	size       int
	head, tail int
	zero       T
}

// New creates a queue containing items in the given order.
func New[T any](items ...T) *Queue[T] {
	result := &Queue[T]{}
	l := len(items)
	result.tail = l
	result.size = computeSize(l)
	result.items = make([]T, result.size+1)
	copy(result.items, items)
	return result
}

// IsEmpty reports whether the queue contains no items.
func (q *Queue[T]) IsEmpty() bool {
	return q.head == q.tail
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	return (q.tail + q.size + 1 - q.head) & q.size
}

// Items returns queued items from head to tail.
// The result may share memory with the queue and must not be modified.
func (q *Queue[T]) Items() []T {
	if q.tail >= q.head {
		return q.items[q.head:q.tail]
	}

	l := q.Len()
	result := make([]T, l)
	copy(result, q.items[q.head:q.size+1])
	copy(result[q.size-q.head+1:], q.items[:q.tail])
	return result
}

// PrependAll puts items before the head keeping their order,
// so that items[0] becomes the new head.
func (q *Queue[T]) PrependAll(items []T) *Queue[T] {
	need := q.Len() + len(items)
	if need > q.size {
		q.reserve(need)
	}
	for i := len(items) - 1; i >= 0; i-- {
		q.head = (q.head - 1) & q.size
		q.items[q.head] = items[i]
	}
	return q
}

// Peek returns the head item without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if q.head == q.tail {
		return q.zero, false
	}

	return q.items[q.head], true
}

// First removes and returns the head item.
func (q *Queue[T]) First() (T, bool) {
	if q.head == q.tail {
		return q.zero, false
	}

	result := q.items[q.head]
	q.items[q.head] = q.zero
	q.head = (q.head + 1) & q.size

	if q.head == 0 && q.size > minSize && (q.tail<<2) <= q.size {
		q.size = computeSize(q.tail << 1)
		items := make([]T, q.size+1)
		copy(items, q.items[:q.tail])
		q.items = items
	}

	return result, true
}

func computeSize(length int) (size int) {
	if length <= minSize {
		size = minSize
	} else {
		length |= length >> 1
		length |= length >> 2
		length |= length >> 4
		length |= length >> 8
		size = length | length>>16
	}
	return
}

// reserve reallocates the buffer so that it holds at least length items
// with at least one free slot left.
func (q *Queue[T]) reserve(length int) {
	l := q.Len()
	size := computeSize(length + 1)
	items := make([]T, size+1)
	copy(items, q.Items())
	q.items = items
	q.size = size
	q.head = 0
	q.tail = l
}
