package eventlog

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cbodonnell/snakes/pkg/game/constants"
	"github.com/cbodonnell/snakes/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_Logf(t *testing.T) {
	q := queue.NewInMemoryQueue(4)
	s := NewSink(q)

	s.Logf("Player %s rolled %d -> position %d\n", "A", 3, 3)
	s.Logf("%s", strings.Repeat("x", 500))

	messages, err := q.ReadAllMessages()
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Player A rolled 3 -> position 3", messages[0])
	assert.Len(t, messages[1], constants.LogMessageLength)
}

func TestSink_LogfKeepsUTF8Intact(t *testing.T) {
	q := queue.NewInMemoryQueue(1)
	s := NewSink(q)

	s.Logf("%s%s", strings.Repeat("x", constants.LogMessageLength-1), "\u00e9")

	entries, err := q.ReadAllMessages()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, strings.Repeat("x", constants.LogMessageLength-1), entries[0])
	assert.True(t, utf8.ValidString(entries[0].(string)))
}

func TestSink_DropsWhenFull(t *testing.T) {
	q := queue.NewInMemoryQueue(1)
	s := NewSink(q)

	s.Logf("first")
	s.Logf("second")
	s.Logf("third")

	assert.Equal(t, uint64(2), s.Dropped())
	messages, err := q.ReadAllMessages()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"first"}, messages)
}
