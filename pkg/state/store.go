package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/cbodonnell/snakes/pkg/game/types"
	"github.com/cbodonnell/snakes/pkg/log"
	"github.com/cbodonnell/snakes/pkg/repositories"
	"github.com/cbodonnell/snakes/pkg/scores"
)

type ErrGameFull struct{}

func (e *ErrGameFull) Error() string {
	return "game is full"
}

func IsGameFull(err error) bool {
	_, ok := err.(*ErrGameFull)
	return ok
}

// Store owns the game state and the score table. Both are guarded by one
// lock. Each slot also has a turn baton: a permission the coordinator posts
// when it is that slot's turn, and a channel for game-over notices. One
// shared turn-done signal tells the coordinator the dispatched turn ended.
type Store struct {
	lock       sync.Mutex
	gameState  *types.GameState
	ledger     *scores.Ledger
	repository repositories.Repository

	batons   []*baton
	turnDone chan struct{}
	changed  chan struct{}
}

type baton struct {
	// turn carries the dispatch number; at most one is ever pending
	turn   chan uint64
	notice chan *types.GameOverNotice
}

type NewStoreOptions struct {
	TargetPlayers int
	// Ledger holds the scores loaded at startup
	Ledger     *scores.Ledger
	Repository repositories.Repository
}

func NewStore(opts NewStoreOptions) *Store {
	batons := make([]*baton, opts.TargetPlayers)
	for i := range batons {
		batons[i] = &baton{
			turn:   make(chan uint64, 1),
			notice: make(chan *types.GameOverNotice, 1),
		}
	}
	return &Store{
		gameState:  types.NewGameState(opts.TargetPlayers),
		ledger:     opts.Ledger,
		repository: opts.Repository,
		batons:     batons,
		turnDone:   make(chan struct{}, 1),
		changed:    make(chan struct{}, 1),
	}
}

// Tx is the view of the store handed to WithLock callbacks. It must not be
// kept after the callback returns.
type Tx struct {
	State  *types.GameState
	Scores *scores.Ledger
	store  *Store
}

// SaveScores writes the full score table while the lock is held.
func (tx *Tx) SaveScores(ctx context.Context) error {
	if err := tx.store.repository.SaveScores(ctx, tx.Scores.Entries()); err != nil {
		return fmt.Errorf("failed to save scores: %v", err)
	}
	return nil
}

// PostTurn hands slot the turn. It bumps the dispatch counter, records the
// slot as current and posts one permission credit carrying the new count.
// A game-over notice the slot never picked up belongs to a finished round
// and is discarded, so it cannot surface in the middle of this one.
func (tx *Tx) PostTurn(slot int) uint64 {
	select {
	case notice := <-tx.store.batons[slot].notice:
		log.Debug("Discarded round %d notice for slot %d", notice.Round, slot)
	default:
	}
	tx.State.Dispatches++
	tx.State.CurrentTurn = slot
	dispatch := tx.State.Dispatches
	select {
	case tx.store.batons[slot].turn <- dispatch:
	default:
		// the previous credit was never consumed; replace it
		<-tx.store.batons[slot].turn
		tx.store.batons[slot].turn <- dispatch
		log.Warn("Replaced an unconsumed turn permission for slot %d", slot)
	}
	return dispatch
}

// PostNotice wakes slot with a game-over notice. If one is already pending
// the new one is dropped.
func (tx *Tx) PostNotice(slot int, notice *types.GameOverNotice) bool {
	select {
	case tx.store.batons[slot].notice <- notice:
		return true
	default:
		return false
	}
}

// WithLock runs fn holding the state lock.
func (s *Store) WithLock(fn func(tx *Tx) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return fn(&Tx{
		State:  s.gameState,
		Scores: s.ledger,
		store:  s,
	})
}

// Join seats a connection in the first slot that is not connected.
func (s *Store) Join(clientID string) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for i := range s.gameState.Slots {
		if s.gameState.Slots[i].Connected {
			continue
		}
		s.gameState.Slots[i] = types.PlayerSlot{
			ClientID:  clientID,
			Connected: true,
		}
		s.gameState.ActivePlayers++
		s.drainLocked(i)
		s.notifyChanged()
		return i, nil
	}
	return -1, &ErrGameFull{}
}

// SetReady records the player's name and marks the slot ready to play.
func (s *Store) SetReady(slot int, name string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.gameState.Slots[slot].Name = name
	s.gameState.Slots[slot].Ready = true
	s.notifyChanged()
}

// Disconnect removes the slot from play. If a turn permission is still
// pending for it, the permission is consumed and turn-done is signaled so
// the coordinator does not wait on a player that is gone. It returns false
// if the slot was already disconnected.
func (s *Store) Disconnect(slot int) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.gameState.Slots[slot].Connected {
		return false
	}
	s.gameState.Slots[slot].Connected = false
	s.gameState.Slots[slot].Ready = false
	s.gameState.ActivePlayers--

	select {
	case <-s.batons[slot].turn:
		s.TurnDone()
	default:
	}
	s.notifyChanged()
	return true
}

// Signal is what wakes a waiting session: either a turn permission or a
// game-over notice.
type Signal struct {
	Dispatch uint64
	Notice   *types.GameOverNotice
}

func (sig Signal) IsTurn() bool {
	return sig.Notice == nil
}

// Wait blocks until slot is given a turn or a notice, or ctx is done.
func (s *Store) Wait(ctx context.Context, slot int) (Signal, error) {
	b := s.batons[slot]
	select {
	case <-ctx.Done():
		return Signal{}, ctx.Err()
	case dispatch := <-b.turn:
		return Signal{Dispatch: dispatch}, nil
	case notice := <-b.notice:
		return Signal{Notice: notice}, nil
	}
}

// TurnDone tells the coordinator the dispatched turn is over.
func (s *Store) TurnDone() {
	select {
	case s.turnDone <- struct{}{}:
	default:
		log.Warn("Turn done signaled twice for one dispatch")
	}
}

// AwaitTurnDone blocks until the dispatched turn is over or ctx is done.
func (s *Store) AwaitTurnDone(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.turnDone:
		return nil
	}
}

// Changed fires after a join, a ready or a disconnect.
func (s *Store) Changed() <-chan struct{} {
	return s.changed
}

// Get returns a copy of the current game state.
func (s *Store) Get(ctx context.Context) (*types.GameState, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.gameState.Copy(), nil
}

// Scoreboard returns the score table ranked by wins.
func (s *Store) Scoreboard(ctx context.Context) ([]scores.Entry, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ledger.Ranked(), nil
}

// SaveScores persists the full score table.
func (s *Store) SaveScores(ctx context.Context) error {
	return s.WithLock(func(tx *Tx) error {
		return tx.SaveScores(ctx)
	})
}

func (s *Store) drainLocked(slot int) {
	for {
		select {
		case <-s.batons[slot].turn:
		case <-s.batons[slot].notice:
		default:
			return
		}
	}
}

func (s *Store) notifyChanged() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}
