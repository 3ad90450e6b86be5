package eventlog

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/cbodonnell/snakes/pkg/game/constants"
	"github.com/cbodonnell/snakes/pkg/messages"
	"github.com/cbodonnell/snakes/pkg/queue"
)

// Sink is the producer side of the gameplay event log. Messages are
// truncated to a fixed length and dropped when the queue is full, so
// logging never stalls a turn.
type Sink struct {
	queue     queue.Queue
	maxLength int
	dropped   atomic.Uint64
}

func NewSink(q queue.Queue) *Sink {
	return &Sink{
		queue:     q,
		maxLength: constants.LogMessageLength,
	}
}

func (s *Sink) Logf(format string, args ...interface{}) {
	msg := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	msg = messages.Truncate(msg, s.maxLength)
	if err := s.queue.Enqueue(msg); err != nil {
		s.dropped.Add(1)
	}
}

// Dropped returns how many messages were lost to a full queue.
func (s *Sink) Dropped() uint64 {
	return s.dropped.Load()
}
