package network

import (
	"context"
	"strings"

	"github.com/cbodonnell/snakes/pkg/messages"
)

const (
	// MaxLineLength is the longest line kept from a client; the rest is dropped
	MaxLineLength = 255
)

// Conn is a line-oriented connection to one player. Lines are sent and
// received without their trailing newline.
type Conn interface {
	ReadLine(ctx context.Context) (string, error)
	WriteLine(ctx context.Context, line string) error
	Close() error
	RemoteAddr() string
}

// ConnectionHandler serves one accepted connection until it is done with it.
type ConnectionHandler func(ctx context.Context, conn Conn)

// ErrConnectionClosed is returned when the peer closed the connection
type ErrConnectionClosed struct{}

func (e *ErrConnectionClosed) Error() string {
	return "connection closed"
}

func IsConnectionClosed(err error) bool {
	_, ok := err.(*ErrConnectionClosed)
	return ok
}

// cleanLine strips carriage returns and caps the line length.
func cleanLine(line string) string {
	return messages.Truncate(strings.ReplaceAll(line, "\r", ""), MaxLineLength)
}
