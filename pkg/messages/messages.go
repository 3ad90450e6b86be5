package messages

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cbodonnell/snakes/pkg/scores"
)

// Fixed lines of the player protocol. Every message is one line of text.
const (
	NamePrompt      = "Enter your name (no spaces):"
	Rules           = "Rules: first to reach 100 wins (exact roll needed). Snakes down, ladders up."
	WaitingPlayers  = "Waiting for other players to join..."
	WaitingTurn     = "Waiting for your turn..."
	GameStarted     = "Game started! Your turn will be announced."
	YourTurn        = "YOUR_TURN: press ENTER to roll the dice."
	ExactRoll       = "Exact roll needed to reach 100. You stay in place."
	Banner          = "=============================="
	GameOver        = "GAME OVER"
	ScoreboardTitle = "Scoreboard:"
	BoardHeader     = "----- Board -----"
	BoardFooter     = "-----------------"
	GameFull        = "Game is full, try again later."

	// Roll is what a client sends to take its turn; the content is not checked
	Roll = "roll"
)

// MessageType classifies a line received from the server.
type MessageType int

const (
	MessageTypeInfo MessageType = iota
	MessageTypeNamePrompt
	MessageTypeYourTurn
	MessageTypeRolled
	MessageTypeSnake
	MessageTypeLadder
	MessageTypePositions
	MessageTypeWon
	MessageTypeWinner
	MessageTypeGameOver
	MessageTypeBanner
	MessageTypeScoreboard
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeInfo:
		return "Info"
	case MessageTypeNamePrompt:
		return "NamePrompt"
	case MessageTypeYourTurn:
		return "YourTurn"
	case MessageTypeRolled:
		return "Rolled"
	case MessageTypeSnake:
		return "Snake"
	case MessageTypeLadder:
		return "Ladder"
	case MessageTypePositions:
		return "Positions"
	case MessageTypeWon:
		return "Won"
	case MessageTypeWinner:
		return "Winner"
	case MessageTypeGameOver:
		return "GameOver"
	case MessageTypeBanner:
		return "Banner"
	case MessageTypeScoreboard:
		return "Scoreboard"
	default:
		return "Unknown"
	}
}

const (
	winnerPrefix    = "WINNER: "
	positionsPrefix = "Positions: "
	wonSuffix       = " WON the game"
)

// Classify returns the type of a server line.
func Classify(line string) MessageType {
	switch {
	case line == NamePrompt:
		return MessageTypeNamePrompt
	case strings.HasPrefix(line, "YOUR_TURN"):
		return MessageTypeYourTurn
	case line == Banner:
		return MessageTypeBanner
	case line == GameOver:
		return MessageTypeGameOver
	case line == ScoreboardTitle:
		return MessageTypeScoreboard
	case strings.HasPrefix(line, winnerPrefix):
		return MessageTypeWinner
	case strings.HasPrefix(line, positionsPrefix):
		return MessageTypePositions
	case strings.HasPrefix(line, "Snake! "):
		return MessageTypeSnake
	case strings.HasPrefix(line, "Ladder! "):
		return MessageTypeLadder
	case strings.HasPrefix(line, "Player ") && strings.HasSuffix(line, wonSuffix):
		return MessageTypeWon
	case strings.HasPrefix(line, "Player ") && strings.Contains(line, " rolled "):
		return MessageTypeRolled
	default:
		return MessageTypeInfo
	}
}

func Welcome(name string) string {
	return fmt.Sprintf("Welcome %s! Waiting for the game to start...", name)
}

func PlayersConnected(active, target int) string {
	return fmt.Sprintf("Players connected: %d/%d", active, target)
}

func Rolled(name string, roll, position int) string {
	return fmt.Sprintf("Player %s rolled %d -> position %d", name, roll, position)
}

func Snake(from, to int) string {
	return fmt.Sprintf("Snake! %d -> %d", from, to)
}

func Ladder(from, to int) string {
	return fmt.Sprintf("Ladder! %d -> %d", from, to)
}

func Positions(positions string) string {
	return positionsPrefix + positions
}

func Won(name string) string {
	return "Player " + name + wonSuffix
}

// GameOverLines is the end-of-round announcement. An empty winner means
// the round ended without one.
func GameOverLines(winner string, ranked []scores.Entry) []string {
	result := GameOver
	if winner != "" {
		result = winnerPrefix + winner
	}
	lines := []string{"", Banner, result, Banner, ScoreboardTitle}
	return append(lines, scores.FormatScoreboard(ranked)...)
}

// Truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
