package game

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cbodonnell/snakes/pkg/eventlog"
	"github.com/cbodonnell/snakes/pkg/game/types"
	"github.com/cbodonnell/snakes/pkg/log"
	"github.com/cbodonnell/snakes/pkg/state"
)

// Phase is where the coordinator is in its round-robin cycle.
type Phase int32

const (
	PhaseWaitingForPlayers Phase = iota
	PhaseWaitingAllReady
	PhaseDispatch
	PhaseAwaitCompletion
	PhaseGraceAndReset
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitingForPlayers:
		return "WaitingForPlayers"
	case PhaseWaitingAllReady:
		return "WaitingAllReady"
	case PhaseDispatch:
		return "Dispatch"
	case PhaseAwaitCompletion:
		return "AwaitCompletion"
	case PhaseGraceAndReset:
		return "GraceAndReset"
	default:
		return "Unknown"
	}
}

// Coordinator hands out turns one at a time in slot order and restarts the
// game after a round ends.
type Coordinator struct {
	store       *state.Store
	events      *eventlog.Sink
	minPlayers  int
	gracePeriod time.Duration

	phase atomic.Int32
	// pivot is the last dispatched slot; the next turn goes to the first
	// connected slot after it
	pivot     int
	lastRound int
}

type NewCoordinatorOptions struct {
	Store       *state.Store
	Events      *eventlog.Sink
	MinPlayers  int
	GracePeriod time.Duration
}

func NewCoordinator(opts NewCoordinatorOptions) *Coordinator {
	return &Coordinator{
		store:       opts.Store,
		events:      opts.Events,
		minPlayers:  opts.MinPlayers,
		gracePeriod: opts.GracePeriod,
		pivot:       -1,
	}
}

// Phase returns the current phase.
func (c *Coordinator) Phase() Phase {
	return Phase(c.phase.Load())
}

func (c *Coordinator) setPhase(p Phase) {
	if old := Phase(c.phase.Swap(int32(p))); old != p {
		log.Trace("Coordinator phase %s -> %s", old, p)
	}
}

// Start runs the coordinator until ctx is done.
func (c *Coordinator) Start(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		var next Phase
		if err := c.store.WithLock(func(tx *state.Tx) error {
			next = c.advance(tx)
			return nil
		}); err != nil {
			log.Error("Failed to advance coordinator: %v", err)
			continue
		}
		c.setPhase(next)

		var err error
		switch next {
		case PhaseWaitingForPlayers, PhaseWaitingAllReady:
			err = c.awaitChange(ctx)
		case PhaseAwaitCompletion:
			err = c.store.AwaitTurnDone(ctx)
		case PhaseGraceAndReset:
			err = c.graceAndReset(ctx)
		}
		if err != nil {
			return nil
		}
	}
}

// advance decides what happens next and, when a turn can be played,
// dispatches it. Must be called holding the store lock.
func (c *Coordinator) advance(tx *state.Tx) Phase {
	gs := tx.State

	if gs.Over {
		c.broadcastGameOver(tx)
		if gs.ActivePlayers >= c.minPlayers {
			return PhaseGraceAndReset
		}
		return PhaseWaitingForPlayers
	}

	if !gs.Started {
		if gs.ActivePlayers < gs.TargetPlayers {
			return PhaseWaitingForPlayers
		}
		if !gs.AllReady() {
			return PhaseWaitingAllReady
		}
		gs.Reset()
		c.events.Logf("New game started (round %d)", gs.Round)
		log.Info("Game started with %d players", gs.ActivePlayers)
	}

	if gs.ActivePlayers < c.minPlayers {
		return PhaseWaitingForPlayers
	}
	// a seat taken mid-game joins the rotation once its name arrives
	if gs.ReadyPlayers() < c.minPlayers {
		return PhaseWaitingAllReady
	}

	if gs.Round != c.lastRound {
		c.lastRound = gs.Round
		c.pivot = -1
	}
	slot := gs.NextReady(c.pivot)
	if slot < 0 {
		return PhaseWaitingForPlayers
	}

	c.setPhase(PhaseDispatch)
	dispatch := tx.PostTurn(slot)
	c.pivot = slot
	c.events.Logf("Turn -> Player %d (%s)", slot+1, gs.Slots[slot].DisplayName(slot))
	log.Debug("Dispatched turn %d to slot %d", dispatch, slot)
	return PhaseAwaitCompletion
}

// broadcastGameOver wakes every connected, ready player with the result of
// the round. It runs once per round.
func (c *Coordinator) broadcastGameOver(tx *state.Tx) {
	gs := tx.State
	if gs.NoticeRound == gs.Round {
		return
	}
	gs.NoticeRound = gs.Round

	notice := &types.GameOverNotice{
		Round:      gs.Round,
		Winner:     gs.WinnerName(),
		Scoreboard: tx.Scores.Ranked(),
	}
	for i := range gs.Slots {
		if !gs.Slots[i].Connected || !gs.Slots[i].Ready {
			continue
		}
		if !tx.PostNotice(i, notice) {
			log.Warn("Game over notice for slot %d dropped, one is already pending", i)
		}
	}
}

// graceAndReset gives players a moment to see the result, then starts the
// next round if there are still enough of them.
func (c *Coordinator) graceAndReset(ctx context.Context) error {
	timer := time.NewTimer(c.gracePeriod)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	return c.store.WithLock(func(tx *state.Tx) error {
		gs := tx.State
		if !gs.Over || gs.ActivePlayers < c.minPlayers {
			return nil
		}
		gs.Reset()
		c.events.Logf("New game started (round %d)", gs.Round)
		return nil
	})
}

func (c *Coordinator) awaitChange(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.store.Changed():
		return nil
	}
}
