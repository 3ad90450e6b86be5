package workers

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cbodonnell/snakes/pkg/log"
	"github.com/cbodonnell/snakes/pkg/queue"
)

// EventLogWorker is the single consumer of the event log queue. Each message
// is appended to the output as one timestamped line.
type EventLogWorker struct {
	queue queue.Queue
	out   io.Writer
	now   func() time.Time
}

type NewEventLogWorkerOptions struct {
	Queue queue.Queue
	Out   io.Writer
	// Now defaults to time.Now
	Now func() time.Time
}

// NewEventLogWorker creates a new EventLogWorker.
// The worker drains the event log queue into durable storage.
func NewEventLogWorker(opts NewEventLogWorkerOptions) *EventLogWorker {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &EventLogWorker{
		queue: opts.Queue,
		out:   opts.Out,
		now:   now,
	}
}

// Start blocks until ctx is done, then writes whatever is still queued.
func (w *EventLogWorker) Start(ctx context.Context) {
	for {
		item, err := w.queue.Dequeue(ctx)
		if err != nil {
			break
		}
		w.write(item)
	}

	pending, err := w.queue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read pending event log messages: %v", err)
		return
	}
	for _, item := range pending {
		w.write(item)
	}
}

func (w *EventLogWorker) write(item interface{}) {
	msg, ok := item.(string)
	if !ok {
		log.Error("Unexpected event log item type: %T", item)
		return
	}
	line := fmt.Sprintf("%s %s\n", w.now().Format(time.RFC3339), msg)
	if _, err := io.WriteString(w.out, line); err != nil {
		log.Error("Failed to write event log entry: %v", err)
	}
}
