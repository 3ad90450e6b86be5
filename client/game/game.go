package game

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/cbodonnell/snakes/client/ui"
	"github.com/cbodonnell/snakes/pkg/log"
	"github.com/cbodonnell/snakes/pkg/messages"
	"github.com/cbodonnell/snakes/pkg/network"
)

const rollPrompt = "Press ENTER to roll... "

// Player drives one client connection: it answers the name prompt and
// rolls when the server hands over the turn.
type Player struct {
	conn     network.Conn
	name     string
	input    *bufio.Reader
	printer  ui.Printer
	autoRoll bool
}

type NewPlayerOptions struct {
	Conn network.Conn
	// Name is sent when the server asks; an empty name lets the server pick
	Name string
	// Input supplies the key presses that roll the die
	Input   io.Reader
	Printer ui.Printer
	// AutoRoll rolls without waiting for input
	AutoRoll bool
}

func NewPlayer(opts NewPlayerOptions) *Player {
	return &Player{
		conn:     opts.Conn,
		name:     opts.Name,
		input:    bufio.NewReader(opts.Input),
		printer:  opts.Printer,
		autoRoll: opts.AutoRoll,
	}
}

// Run plays until the server closes the connection or ctx is done.
func (p *Player) Run(ctx context.Context) error {
	for {
		line, err := p.conn.ReadLine(ctx)
		if err != nil {
			if network.IsConnectionClosed(err) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read from server: %v", err)
		}
		p.printer.Print(line)

		switch messages.Classify(line) {
		case messages.MessageTypeNamePrompt:
			if err := p.conn.WriteLine(ctx, p.name); err != nil {
				return fmt.Errorf("failed to send name: %v", err)
			}
		case messages.MessageTypeYourTurn:
			if !p.autoRoll {
				p.printer.Prompt(rollPrompt)
				if _, err := p.input.ReadString('\n'); err != nil {
					log.Debug("Input closed: %v", err)
					return nil
				}
			}
			if err := p.conn.WriteLine(ctx, messages.Roll); err != nil {
				return fmt.Errorf("failed to roll: %v", err)
			}
		}
	}
}
