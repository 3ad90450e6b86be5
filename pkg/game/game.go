package game

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/snakes/pkg/eventlog"
	"github.com/cbodonnell/snakes/pkg/game/board"
	"github.com/cbodonnell/snakes/pkg/game/constants"
	"github.com/cbodonnell/snakes/pkg/log"
	"github.com/cbodonnell/snakes/pkg/messages"
	"github.com/cbodonnell/snakes/pkg/network"
	"github.com/cbodonnell/snakes/pkg/state"
)

// GameManager seats incoming connections and runs the turn coordinator.
type GameManager struct {
	clientManager *network.ClientManager
	store         *state.Store
	events        *eventlog.Sink
	board         *board.Board
	roller        board.Roller
	coordinator   *Coordinator
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	ClientManager *network.ClientManager
	Store         *state.Store
	Events        *eventlog.Sink
	// Board defaults to the standard board
	Board *board.Board
	// Roller defaults to a time-seeded random die
	Roller     board.Roller
	MinPlayers int
	// GracePeriod is the pause between a win and the next round
	GracePeriod time.Duration
}

func NewGameManager(opts NewGameManagerOptions) (*GameManager, error) {
	if opts.Board == nil {
		opts.Board = board.Default()
	}
	if err := opts.Board.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board: %v", err)
	}
	if opts.Roller == nil {
		opts.Roller = board.NewRandomRoller(0)
	}
	if opts.MinPlayers <= 0 {
		opts.MinPlayers = constants.MinPlayers
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = constants.DefaultGracePeriod
	}
	if opts.ClientManager == nil {
		opts.ClientManager = network.NewClientManager()
	}

	return &GameManager{
		clientManager: opts.ClientManager,
		store:         opts.Store,
		events:        opts.Events,
		board:         opts.Board,
		roller:        opts.Roller,
		coordinator: NewCoordinator(NewCoordinatorOptions{
			Store:       opts.Store,
			Events:      opts.Events,
			MinPlayers:  opts.MinPlayers,
			GracePeriod: opts.GracePeriod,
		}),
	}, nil
}

// Start runs the turn coordinator until ctx is done.
func (gm *GameManager) Start(ctx context.Context) error {
	return gm.coordinator.Start(ctx)
}

func (gm *GameManager) Coordinator() *Coordinator {
	return gm.coordinator
}

// HandleConnection seats conn in a free slot and plays its session. It
// returns when the player leaves or ctx is done.
func (gm *GameManager) HandleConnection(ctx context.Context, conn network.Conn) {
	clientID := gm.clientManager.ConnectClient(conn)
	defer gm.clientManager.DisconnectClient(clientID)
	defer conn.Close()

	// closing the connection unblocks any pending read on shutdown
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	slot, err := gm.store.Join(clientID)
	if err != nil {
		if state.IsGameFull(err) {
			log.Warn("Rejected %s: %v", conn.RemoteAddr(), err)
			conn.WriteLine(ctx, messages.GameFull)
			return
		}
		log.Error("Failed to join %s: %v", conn.RemoteAddr(), err)
		return
	}
	log.Debug("Client %s seated in slot %d", clientID, slot)

	NewSession(NewSessionOptions{
		Slot:   slot,
		Conn:   conn,
		Store:  gm.store,
		Events: gm.events,
		Board:  gm.board,
		Roller: gm.roller,
	}).Run(ctx)
}
