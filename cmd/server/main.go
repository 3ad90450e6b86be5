package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cbodonnell/snakes/pkg/api"
	"github.com/cbodonnell/snakes/pkg/config"
	"github.com/cbodonnell/snakes/pkg/eventlog"
	"github.com/cbodonnell/snakes/pkg/game"
	"github.com/cbodonnell/snakes/pkg/game/board"
	"github.com/cbodonnell/snakes/pkg/game/constants"
	"github.com/cbodonnell/snakes/pkg/log"
	"github.com/cbodonnell/snakes/pkg/network"
	"github.com/cbodonnell/snakes/pkg/queue"
	"github.com/cbodonnell/snakes/pkg/repositories"
	"github.com/cbodonnell/snakes/pkg/scores"
	"github.com/cbodonnell/snakes/pkg/state"
	"github.com/cbodonnell/snakes/pkg/version"
	"github.com/cbodonnell/snakes/pkg/workers"
)

// shutdownTimeout bounds how long sessions get to wind down on exit
const shutdownTimeout = 5 * time.Second

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		panic(fmt.Sprintf("Failed to load .env: %v", err))
	}
	cfg, err := config.Parse(os.Args[0], os.Args[1:], os.Getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())

	players := cfg.Players
	if players == 0 {
		players, err = config.PromptPlayerCount(os.Stdin, os.Stdout)
		if err != nil {
			panic(fmt.Sprintf("Failed to read player count: %v", err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repository, err := repositories.Open(ctx, cfg.Scores, cfg.Migrations)
	if err != nil {
		panic(fmt.Sprintf("Failed to open score store: %v", err))
	}
	defer repository.Close(context.Background())

	entries, err := repository.LoadScores(ctx)
	if err != nil {
		panic(fmt.Sprintf("Failed to load scores: %v", err))
	}
	ledger := scores.NewLedger(constants.ScoreCapacity)
	ledger.Load(entries)
	log.Info("Loaded %d scores from %s", ledger.Len(), cfg.Scores)

	store := state.NewStore(state.NewStoreOptions{
		TargetPlayers: players,
		Ledger:        ledger,
		Repository:    repository,
	})

	eventLogFile, err := os.OpenFile(cfg.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		panic(fmt.Sprintf("Failed to open event log: %v", err))
	}
	defer eventLogFile.Close()

	// the event log outlives the game so disconnects during shutdown are kept
	eventLogCtx, stopEventLog := context.WithCancel(context.Background())
	eventQueue := queue.NewInMemoryQueue(constants.LogQueueSize)
	events := eventlog.NewSink(eventQueue)
	eventLogWorker := workers.NewEventLogWorker(workers.NewEventLogWorkerOptions{
		Queue: eventQueue,
		Out:   eventLogFile,
	})
	eventLogDone := make(chan struct{})
	go func() {
		defer close(eventLogDone)
		eventLogWorker.Start(eventLogCtx)
	}()

	clientManager := network.NewClientManager()
	gameManager, err := game.NewGameManager(game.NewGameManagerOptions{
		ClientManager: clientManager,
		Store:         store,
		Events:        events,
		Roller:        board.NewRandomRoller(cfg.Seed),
		MinPlayers:    constants.MinPlayers,
		GracePeriod:   cfg.GracePeriod,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game manager: %v", err))
	}

	var sessions sync.WaitGroup
	handleConnection := func(ctx context.Context, conn network.Conn) {
		sessions.Add(1)
		defer sessions.Done()
		gameManager.HandleConnection(ctx, conn)
	}

	tcpServer := network.NewTCPServer(network.NewTCPServerOptions{
		Port: cfg.TCPPort,
	})
	if err := tcpServer.Listen(); err != nil {
		panic(fmt.Sprintf("Failed to start TCP server: %v", err))
	}
	events.Logf("Server started on port %d", cfg.TCPPort)
	events.Logf("Target players: %d", players)
	go tcpServer.Serve(ctx, handleConnection)

	if cfg.WSPort != 0 {
		wsOpts := network.NewWSServerOptions{Port: cfg.WSPort, OriginPatterns: cfg.WSOrigins}
		if cfg.TLS != nil {
			wsOpts.TLS = &network.TLSConfig{CertFile: cfg.TLS.CertFile, KeyFile: cfg.TLS.KeyFile}
		}
		wsServer := network.NewWSServer(wsOpts)
		go wsServer.Start(ctx, handleConnection)
	}

	if cfg.APIPort != 0 {
		apiOpts := api.NewAPIServerOptions{Port: cfg.APIPort, Game: store}
		if cfg.TLS != nil {
			apiOpts.TLS = &api.TLSConfig{CertFile: cfg.TLS.CertFile, KeyFile: cfg.TLS.KeyFile}
		}
		apiServer := api.NewAPIServer(apiOpts)
		go apiServer.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := apiServer.Stop(shutdownCtx); err != nil {
				log.Error("Failed to stop API server: %v", err)
			}
		}()
	}

	log.Info("Waiting for %d players to connect", players)
	if err := gameManager.Start(ctx); err != nil {
		log.Error("Game manager stopped: %v", err)
	}

	log.Info("Shutting down, closing %d client connections", clientManager.Count())
	clientManager.CloseAll()
	waitTimeout(&sessions, shutdownTimeout)

	if err := store.SaveScores(context.Background()); err != nil {
		log.Error("Failed to save scores on shutdown: %v", err)
	}

	stopEventLog()
	<-eventLogDone
	log.Info("Server stopped")
}

func waitTimeout(wg *sync.WaitGroup, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		log.Warn("Timed out waiting for sessions to end")
	}
}
