package types

import (
	"fmt"
	"strings"

	"github.com/cbodonnell/snakes/pkg/scores"
)

// NoWinner marks a round without a winner.
const NoWinner = -1

// PlayerSlot is one seat at the table.
type PlayerSlot struct {
	// ClientID identifies the connection occupying the slot
	ClientID  string `json:"clientID"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
	Connected bool   `json:"connected"`
	Ready     bool   `json:"ready"`
}

// DisplayName returns the player's name, or a numbered placeholder before
// the player has chosen one.
func (p *PlayerSlot) DisplayName(slot int) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("Player%d", slot+1)
}

type GameState struct {
	Slots       []PlayerSlot `json:"slots"`
	CurrentTurn int          `json:"currentTurn"`
	Started     bool         `json:"started"`
	Over        bool         `json:"over"`
	Winner      int          `json:"winner"`
	// Round increases by one on every reset
	Round     int `json:"round"`
	TurnCount int `json:"turnCount"`
	// Dispatches counts every turn handed out, across rounds
	Dispatches uint64 `json:"dispatches"`
	// NoticeRound is the last round whose game-over notice was sent
	NoticeRound   int `json:"noticeRound"`
	TargetPlayers int `json:"targetPlayers"`
	ActivePlayers int `json:"activePlayers"`
}

func NewGameState(targetPlayers int) *GameState {
	return &GameState{
		Slots:         make([]PlayerSlot, targetPlayers),
		CurrentTurn:   0,
		Winner:        NoWinner,
		TargetPlayers: targetPlayers,
	}
}

func (g *GameState) Copy() *GameState {
	newGameState := *g
	newGameState.Slots = make([]PlayerSlot, len(g.Slots))
	copy(newGameState.Slots, g.Slots)
	return &newGameState
}

// Reset starts a new round. Positions and round flags are cleared; who is
// connected and ready is kept.
func (g *GameState) Reset() {
	for i := range g.Slots {
		g.Slots[i].Position = 0
	}
	g.CurrentTurn = 0
	g.Over = false
	g.Winner = NoWinner
	g.TurnCount = 0
	g.Started = true
	g.Round++
}

// NextActive returns the first connected slot after the given one, wrapping
// around, or -1 if nobody is connected. Pass -1 to start from slot 0.
func (g *GameState) NextActive(after int) int {
	n := len(g.Slots)
	for i := 1; i <= n; i++ {
		idx := ((after+i)%n + n) % n
		if g.Slots[idx].Connected {
			return idx
		}
	}
	return -1
}

// NextReady is NextActive restricted to slots that are also ready.
func (g *GameState) NextReady(after int) int {
	n := len(g.Slots)
	for i := 1; i <= n; i++ {
		idx := ((after+i)%n + n) % n
		if g.Slots[idx].Connected && g.Slots[idx].Ready {
			return idx
		}
	}
	return -1
}

// ReadyPlayers counts connected slots that have sent a name.
func (g *GameState) ReadyPlayers() int {
	count := 0
	for i := range g.Slots {
		if g.Slots[i].Connected && g.Slots[i].Ready {
			count++
		}
	}
	return count
}

// AllReady reports whether every connected slot is ready.
func (g *GameState) AllReady() bool {
	for i := range g.Slots {
		if g.Slots[i].Connected && !g.Slots[i].Ready {
			return false
		}
	}
	return true
}

// WinnerName returns the winner's name, or "" if there is none.
func (g *GameState) WinnerName() string {
	if g.Winner < 0 || g.Winner >= len(g.Slots) {
		return ""
	}
	return g.Slots[g.Winner].DisplayName(g.Winner)
}

// Positions renders "name:pos" for each connected slot.
func (g *GameState) Positions() string {
	parts := make([]string, 0, len(g.Slots))
	for i := range g.Slots {
		if !g.Slots[i].Connected {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d", g.Slots[i].DisplayName(i), g.Slots[i].Position))
	}
	return strings.Join(parts, " ")
}

// GameOverNotice is what every player is told when a round ends.
type GameOverNotice struct {
	Round int
	// Winner is empty when the round ended without one
	Winner     string
	Scoreboard []scores.Entry
}
