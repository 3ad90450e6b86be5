package queue

import "context"

// Queue is a bounded FIFO shared by many producers and one consumer.
type Queue interface {
	// Enqueue adds an item without blocking. It returns ErrQueueFull if
	// there is no space.
	Enqueue(item interface{}) error
	// Dequeue blocks until an item is available or ctx is done.
	Dequeue(ctx context.Context) (interface{}, error)
	Size() int
	// ReadAllMessages removes and returns every pending item without blocking.
	ReadAllMessages() ([]interface{}, error)
}

type ErrQueueFull struct{}

func (e *ErrQueueFull) Error() string {
	return "queue is full"
}

func IsQueueFull(err error) bool {
	_, ok := err.(*ErrQueueFull)
	return ok
}
