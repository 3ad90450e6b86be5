package board

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cbodonnell/snakes/pkg/game/constants"
)

// RedirectKind tells whether a landing cell moved the player down or up.
type RedirectKind uint8

const (
	RedirectNone RedirectKind = iota
	RedirectSnake
	RedirectLadder
)

func (k RedirectKind) String() string {
	switch k {
	case RedirectSnake:
		return "snake"
	case RedirectLadder:
		return "ladder"
	default:
		return "none"
	}
}

// Board is the fixed topology of a game: the final cell plus the snake
// (head -> tail) and ladder (foot -> top) redirections.
type Board struct {
	Size    int
	Snakes  map[int]int
	Ladders map[int]int
}

// Default returns the board every round is played on.
func Default() *Board {
	return &Board{
		Size: constants.BoardSize,
		Snakes: map[int]int{
			99: 54,
			70: 55,
			52: 42,
			25: 2,
		},
		Ladders: map[int]int{
			6:  25,
			11: 40,
			46: 90,
			60: 85,
		},
	}
}

// Validate checks that snakes go down, ladders go up, every cell is on the
// board, and no cell starts both a snake and a ladder.
func (b *Board) Validate() error {
	for head, tail := range b.Snakes {
		if tail >= head {
			return fmt.Errorf("snake %d -> %d does not go down", head, tail)
		}
		if head > b.Size || tail < 0 {
			return fmt.Errorf("snake %d -> %d is off the board", head, tail)
		}
		if _, ok := b.Ladders[head]; ok {
			return fmt.Errorf("cell %d starts both a snake and a ladder", head)
		}
	}
	for foot, top := range b.Ladders {
		if top <= foot {
			return fmt.Errorf("ladder %d -> %d does not go up", foot, top)
		}
		if top > b.Size || foot < 0 {
			return fmt.Errorf("ladder %d -> %d is off the board", foot, top)
		}
	}
	return nil
}

// Redirect applies at most one snake or ladder to a landing cell.
func (b *Board) Redirect(pos int) (int, RedirectKind) {
	if tail, ok := b.Snakes[pos]; ok {
		return tail, RedirectSnake
	}
	if top, ok := b.Ladders[pos]; ok {
		return top, RedirectLadder
	}
	return pos, RedirectNone
}

// Move is the outcome of a single roll.
type Move struct {
	From int
	Roll int
	// Landed is the cell reached by the roll before any redirection.
	Landed int
	To     int
	// Moved is false when the roll overshot the final cell.
	Moved    bool
	Redirect RedirectKind
	Won      bool
}

// Apply moves a player at pos by roll. Overshooting the final cell forfeits
// the move.
func (b *Board) Apply(pos, roll int) Move {
	m := Move{
		From:   pos,
		Roll:   roll,
		Landed: pos,
		To:     pos,
	}
	if pos+roll > b.Size {
		return m
	}

	m.Moved = true
	m.Landed = pos + roll
	m.To, m.Redirect = b.Redirect(m.Landed)
	m.Won = m.To == b.Size
	return m
}

// Summary lists the snakes and ladders in ascending order of their start cell.
func (b *Board) Summary() []string {
	return []string{
		"Snakes: " + formatPairs(b.Snakes),
		"Ladders: " + formatPairs(b.Ladders),
	}
}

func formatPairs(pairs map[int]int) string {
	starts := make([]int, 0, len(pairs))
	for start := range pairs {
		starts = append(starts, start)
	}
	sort.Ints(starts)

	parts := make([]string, 0, len(starts))
	for _, start := range starts {
		parts = append(parts, fmt.Sprintf("%d->%d", start, pairs[start]))
	}
	return strings.Join(parts, " ")
}
