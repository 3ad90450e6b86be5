package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cbodonnell/snakes/client/game"
	"github.com/cbodonnell/snakes/client/network"
	"github.com/cbodonnell/snakes/client/ui"
	"github.com/cbodonnell/snakes/pkg/game/constants"
	"github.com/cbodonnell/snakes/pkg/log"
	"github.com/cbodonnell/snakes/pkg/version"
	"github.com/pterm/pterm"
)

func main() {
	addr := flag.String("addr", fmt.Sprintf("%s:%d", network.DefaultServerHostname, constants.DefaultTCPPort), "Server TCP address")
	wsURL := flag.String("ws", "", "Server WebSocket URL, e.g. ws://localhost:8080/play (overrides -addr)")
	name := flag.String("name", "", "Player name; asked for when empty")
	autoRoll := flag.Bool("auto-roll", false, "Roll without waiting for ENTER")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	logger := log.New(os.Stderr, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)

	pterm.DefaultHeader.Println("Snakes & Ladders " + version.Get())

	playerName := strings.TrimSpace(*name)
	if playerName == "" {
		playerName, err = pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your name (no spaces)").Show()
		if err != nil {
			panic(fmt.Sprintf("Failed to read name: %v", err))
		}
		playerName = strings.TrimSpace(playerName)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := network.Dial(ctx, *addr, *wsURL)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	defer conn.Close()
	context.AfterFunc(ctx, func() {
		conn.Close()
	})

	player := game.NewPlayer(game.NewPlayerOptions{
		Conn:     conn,
		Name:     playerName,
		Input:    os.Stdin,
		Printer:  ui.NewTerminal(),
		AutoRoll: *autoRoll,
	})
	if err := player.Run(ctx); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	pterm.Info.Println("Disconnected from server")
}
