package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBoardIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestBoard_Validate(t *testing.T) {
	tests := []struct {
		name  string
		board *Board
	}{
		{
			name:  "snake going up",
			board: &Board{Size: 100, Snakes: map[int]int{10: 20}},
		},
		{
			name:  "ladder going down",
			board: &Board{Size: 100, Ladders: map[int]int{20: 10}},
		},
		{
			name:  "shared start cell",
			board: &Board{Size: 100, Snakes: map[int]int{30: 5}, Ladders: map[int]int{30: 50}},
		},
		{
			name:  "ladder off the board",
			board: &Board{Size: 100, Ladders: map[int]int{90: 101}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.board.Validate())
		})
	}
}

func TestBoard_ApplyPlainMoves(t *testing.T) {
	b := Default()
	for p := 0; p <= 94; p++ {
		for d := 1; d <= 6; d++ {
			if _, kind := b.Redirect(p + d); kind != RedirectNone {
				continue
			}
			m := b.Apply(p, d)
			assert.True(t, m.Moved)
			assert.Equal(t, p+d, m.To, "p=%d d=%d", p, d)
			assert.Equal(t, RedirectNone, m.Redirect)
		}
	}
}

func TestBoard_ApplyOvershootStaysInPlace(t *testing.T) {
	b := Default()
	for p := 95; p <= 100; p++ {
		for d := 1; d <= 6; d++ {
			if p+d <= 100 {
				continue
			}
			m := b.Apply(p, d)
			assert.False(t, m.Moved)
			assert.Equal(t, p, m.To)
			assert.False(t, m.Won)
		}
	}
}

func TestBoard_ApplyRedirects(t *testing.T) {
	b := Default()
	for head, tail := range b.Snakes {
		m := b.Apply(head-1, 1)
		assert.Equal(t, tail, m.To)
		assert.Less(t, m.To, head)
		assert.Equal(t, RedirectSnake, m.Redirect)
		assert.Equal(t, head, m.Landed)
	}
	for foot, top := range b.Ladders {
		m := b.Apply(foot-1, 1)
		assert.Equal(t, top, m.To)
		assert.Greater(t, m.To, foot)
		assert.Equal(t, RedirectLadder, m.Redirect)
	}
}

func TestBoard_LadderOntoSnakeHeadIsNotChained(t *testing.T) {
	m := Default().Apply(0, 6)
	assert.Equal(t, 25, m.To)
	assert.Equal(t, RedirectLadder, m.Redirect)
}

func TestBoard_ApplyExactWin(t *testing.T) {
	m := Default().Apply(95, 5)
	assert.True(t, m.Won)
	assert.Equal(t, 100, m.To)
}

func TestBoard_Summary(t *testing.T) {
	assert.Equal(t, []string{
		"Snakes: 25->2 52->42 70->55 99->54",
		"Ladders: 6->25 11->40 46->90 60->85",
	}, Default().Summary())
}

func TestRandomRollerRange(t *testing.T) {
	r := NewRandomRoller(42)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		roll := r.Roll()
		require.GreaterOrEqual(t, roll, 1)
		require.LessOrEqual(t, roll, 6)
		seen[roll] = true
	}
	assert.Len(t, seen, 6)
}

func TestSequenceRoller(t *testing.T) {
	r := NewSequenceRoller(3, 5)
	assert.Equal(t, 3, r.Roll())
	assert.Equal(t, 5, r.Roll())
	assert.Equal(t, 1, r.Roll())
}
