package queue

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// InMemoryQueue is a fixed-capacity ring buffer. Two counting semaphores
// track free slots and pending items; the lock only guards the indexes.
type InMemoryQueue struct {
	lock   sync.Mutex
	buf    []interface{}
	head   int
	tail   int
	count  int
	spaces *semaphore.Weighted
	items  *semaphore.Weighted
}

// NewInMemoryQueue creates a queue holding at most capacity items.
func NewInMemoryQueue(capacity int) *InMemoryQueue {
	if capacity < 1 {
		capacity = 1
	}
	items := semaphore.NewWeighted(int64(capacity))
	// items starts empty
	items.TryAcquire(int64(capacity))

	return &InMemoryQueue{
		buf:    make([]interface{}, capacity),
		spaces: semaphore.NewWeighted(int64(capacity)),
		items:  items,
	}
}

// Enqueue adds an item to the end of the queue.
func (q *InMemoryQueue) Enqueue(item interface{}) error {
	if !q.spaces.TryAcquire(1) {
		return &ErrQueueFull{}
	}

	q.lock.Lock()
	q.buf[q.tail] = item
	q.tail = (q.tail + 1) % len(q.buf)
	q.count++
	q.lock.Unlock()

	q.items.Release(1)
	return nil
}

// Dequeue removes and returns the item from the front of the queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) (interface{}, error) {
	if err := q.items.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to wait for queue item: %w", err)
	}
	item := q.pop()
	q.spaces.Release(1)
	return item, nil
}

// Size returns the current size of the queue.
func (q *InMemoryQueue) Size() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.count
}

// ReadAllMessages reads all pending messages in the queue
func (q *InMemoryQueue) ReadAllMessages() ([]interface{}, error) {
	var messages []interface{}
	for q.items.TryAcquire(1) {
		messages = append(messages, q.pop())
		q.spaces.Release(1)
	}
	return messages, nil
}

func (q *InMemoryQueue) pop() interface{} {
	q.lock.Lock()
	defer q.lock.Unlock()
	item := q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return item
}
