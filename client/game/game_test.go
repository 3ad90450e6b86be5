package game

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/cbodonnell/snakes/pkg/messages"
	"github.com/cbodonnell/snakes/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPrinter struct {
	lock    sync.Mutex
	lines   []string
	prompts int
}

func (p *recordingPrinter) Print(line string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.lines = append(p.lines, line)
}

func (p *recordingPrinter) Prompt(msg string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.prompts++
}

func TestPlayer_Run(t *testing.T) {
	tests := []struct {
		name        string
		playerName  string
		input       string
		autoRoll    bool
		wantName    string
		wantPrompts int
	}{
		{"waits for enter", "alice", "\n", false, "alice", 1},
		{"auto roll", "bob", "", true, "bob", 0},
		{"server picks the name", "", "\n", false, "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, client := net.Pipe()
			printer := &recordingPrinter{}
			p := NewPlayer(NewPlayerOptions{
				Conn:     network.NewTCPConn(client),
				Name:     tt.playerName,
				Input:    strings.NewReader(tt.input),
				Printer:  printer,
				AutoRoll: tt.autoRoll,
			})

			done := make(chan error, 1)
			go func() { done <- p.Run(context.Background()) }()

			r := bufio.NewReader(server)
			_, err := server.Write([]byte(messages.NamePrompt + "\n"))
			require.NoError(t, err)
			name, err := r.ReadString('\n')
			require.NoError(t, err)
			assert.Equal(t, tt.wantName+"\n", name)

			_, err = server.Write([]byte(messages.YourTurn + "\n"))
			require.NoError(t, err)
			roll, err := r.ReadString('\n')
			require.NoError(t, err)
			assert.Equal(t, "roll\n", roll)

			server.Close()
			require.NoError(t, <-done)
			assert.Equal(t, []string{messages.NamePrompt, messages.YourTurn}, printer.lines)
			assert.Equal(t, tt.wantPrompts, printer.prompts)
		})
	}
}

func TestPlayer_StopsWhenInputEnds(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	p := NewPlayer(NewPlayerOptions{
		Conn:    network.NewTCPConn(client),
		Input:   strings.NewReader(""),
		Printer: &recordingPrinter{},
	})

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()
	_, err := server.Write([]byte(messages.YourTurn + "\n"))
	require.NoError(t, err)
	assert.NoError(t, <-done)
}
