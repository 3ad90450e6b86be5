package ui

import (
	"github.com/cbodonnell/snakes/pkg/messages"
	"github.com/pterm/pterm"
)

// Printer shows server lines and local prompts to the player.
type Printer interface {
	Print(line string)
	Prompt(msg string)
}

// Terminal renders lines with pterm, highlighting the ones that matter.
type Terminal struct{}

func NewTerminal() *Terminal {
	return &Terminal{}
}

func (t *Terminal) Print(line string) {
	switch messages.Classify(line) {
	case messages.MessageTypeYourTurn:
		pterm.Info.Println(line)
	case messages.MessageTypeWinner, messages.MessageTypeWon:
		pterm.Success.Println(line)
	case messages.MessageTypeGameOver:
		pterm.Warning.Println(line)
	case messages.MessageTypeSnake:
		pterm.Println(pterm.LightRed(line))
	case messages.MessageTypeLadder:
		pterm.Println(pterm.LightGreen(line))
	case messages.MessageTypeBanner:
		pterm.Println(pterm.LightYellow(line))
	case messages.MessageTypePositions:
		pterm.Println(pterm.LightCyan(line))
	default:
		pterm.Println(line)
	}
}

func (t *Terminal) Prompt(msg string) {
	pterm.Print(pterm.LightMagenta(msg))
}
