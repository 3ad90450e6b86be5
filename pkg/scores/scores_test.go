package scores

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_RecordWin(t *testing.T) {
	l := NewLedger(2)

	assert.True(t, l.RecordWin("alice"))
	assert.True(t, l.RecordWin("bob"))
	assert.True(t, l.RecordWin("alice"))
	assert.False(t, l.RecordWin("carol"), "table is full")
	assert.True(t, l.RecordWin("bob"), "existing entries still update when full")

	assert.Equal(t, []Entry{{Name: "alice", Wins: 2}, {Name: "bob", Wins: 2}}, l.Entries())
	assert.Equal(t, 0, l.Wins("carol"))
}

func TestLedger_LoadRespectsCapacity(t *testing.T) {
	l := NewLedger(2)
	l.Load([]Entry{{Name: "a", Wins: 1}, {Name: "b", Wins: 2}, {Name: "a", Wins: 3}, {Name: "c", Wins: 4}})
	assert.Equal(t, []Entry{{Name: "a", Wins: 4}, {Name: "b", Wins: 2}}, l.Entries())
}

func TestLedger_Ranked(t *testing.T) {
	l := NewLedger(10)
	l.Load([]Entry{{Name: "a", Wins: 1}, {Name: "b", Wins: 3}, {Name: "c", Wins: 1}, {Name: "d", Wins: 5}})

	ranked := l.Ranked()
	assert.Equal(t, []Entry{{Name: "d", Wins: 5}, {Name: "b", Wins: 3}, {Name: "a", Wins: 1}, {Name: "c", Wins: 1}}, ranked)
	assert.Equal(t, "a", l.Entries()[0].Name, "ranking does not reorder the table")
}

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"alice 3",
		"garbage",
		"bob notanumber",
		"",
		"  carol\t7  ",
		"dave 1 extra",
	}, "\n")

	entries, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "alice", Wins: 3}, {Name: "carol", Wins: 7}}, entries)
}

func TestWriteThenParse(t *testing.T) {
	want := []Entry{{Name: "zed", Wins: 0}, {Name: "amy", Wins: 12}, {Name: "Player3", Wins: 1}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, want))
	assert.Equal(t, "zed 0\namy 12\nPlayer3 1\n", buf.String())

	got, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFormatScoreboard(t *testing.T) {
	assert.Equal(t, []string{"(no scores yet)"}, FormatScoreboard(nil))
	assert.Equal(t, []string{"1) A - 1 wins", "2) B - 0 wins"},
		FormatScoreboard([]Entry{{Name: "A", Wins: 1}, {Name: "B", Wins: 0}}))
}
