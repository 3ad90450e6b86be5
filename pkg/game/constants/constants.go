package constants

import "time"

const (
	// MinPlayers is the fewest connected players a round can be played with
	MinPlayers int = 3
	// MaxPlayers is the largest player count a session can be configured for
	MaxPlayers int = 5

	// BoardSize is the final cell; it must be reached with an exact roll
	BoardSize int = 100
	// DieFaces is the number of faces on the die
	DieFaces int = 6

	// MaxNameLength is the longest player name kept, in bytes
	MaxNameLength int = 31

	// ScoreCapacity is the maximum number of entries in the score table
	ScoreCapacity int = 50

	// LogQueueSize is the number of pending event log messages
	LogQueueSize int = 64
	// LogMessageLength is the longest event log message kept, in bytes
	LogMessageLength int = 127

	// BoardSummaryEvery controls how often a player is shown the board summary
	BoardSummaryEvery int = 3

	// DefaultGracePeriod is the pause between game over and the next round
	DefaultGracePeriod time.Duration = 2 * time.Second

	// DefaultTCPPort is the port players connect to
	DefaultTCPPort int = 5555
)
