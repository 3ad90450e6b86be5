package game

import (
	"context"
	"testing"
	"time"

	mocks "github.com/cbodonnell/snakes/mocks/github.com/cbodonnell/snakes/pkg/repositories"
	"github.com/cbodonnell/snakes/pkg/eventlog"
	"github.com/cbodonnell/snakes/pkg/queue"
	"github.com/cbodonnell/snakes/pkg/scores"
	"github.com/cbodonnell/snakes/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoordinator(t *testing.T, players, minPlayers int, grace time.Duration) (*Coordinator, *state.Store) {
	store := state.NewStore(state.NewStoreOptions{
		TargetPlayers: players,
		Ledger:        scores.NewLedger(10),
		Repository:    mocks.NewMockRepository(t),
	})
	c := NewCoordinator(NewCoordinatorOptions{
		Store:       store,
		Events:      eventlog.NewSink(queue.NewInMemoryQueue(64)),
		MinPlayers:  minPlayers,
		GracePeriod: grace,
	})
	return c, store
}

func seat(t *testing.T, store *state.Store, names ...string) {
	for i, name := range names {
		slot, err := store.Join(name)
		require.NoError(t, err)
		require.Equal(t, i, slot)
		store.SetReady(slot, name)
	}
}

// expectTurn waits for slot's turn and returns its dispatch number.
func expectTurn(t *testing.T, ctx context.Context, store *state.Store, slot int) uint64 {
	t.Helper()
	waitCtx, cancel := context.WithTimeout(ctx, waitTimeout)
	defer cancel()
	sig, err := store.Wait(waitCtx, slot)
	require.NoError(t, err)
	require.True(t, sig.IsTurn(), "slot %d got a notice instead of a turn", slot)
	return sig.Dispatch
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseWaitingForPlayers, "WaitingForPlayers"},
		{PhaseWaitingAllReady, "WaitingAllReady"},
		{PhaseDispatch, "Dispatch"},
		{PhaseAwaitCompletion, "AwaitCompletion"},
		{PhaseGraceAndReset, "GraceAndReset"},
		{Phase(42), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.phase.String())
	}
}

func TestCoordinator_WaitsForTargetPlayers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, store := newTestCoordinator(t, 3, 3, time.Minute)
	go c.Start(ctx)

	seat(t, store, "A", "B")
	time.Sleep(20 * time.Millisecond)
	gs, _ := store.Get(ctx)
	assert.False(t, gs.Started)
	assert.Equal(t, PhaseWaitingForPlayers, c.Phase())

	// the third player is seated but not ready yet
	_, err := store.Join("C")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return c.Phase() == PhaseWaitingAllReady
	}, waitTimeout, 5*time.Millisecond)

	store.SetReady(2, "C")
	expectTurn(t, ctx, store, 0)

	gs, _ = store.Get(ctx)
	assert.True(t, gs.Started)
	assert.Equal(t, 1, gs.Round)
	assert.Equal(t, 0, gs.CurrentTurn)
}

func TestCoordinator_RoundRobinSkipsDisconnected(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, store := newTestCoordinator(t, 3, 2, time.Minute)
	go c.Start(ctx)
	seat(t, store, "A", "B", "C")

	expectTurn(t, ctx, store, 0)
	store.TurnDone()
	expectTurn(t, ctx, store, 1)
	store.TurnDone()
	expectTurn(t, ctx, store, 2)
	store.TurnDone()

	store.Disconnect(1)
	expectTurn(t, ctx, store, 0)
	store.TurnDone()
	expectTurn(t, ctx, store, 2)
	store.TurnDone()
	expectTurn(t, ctx, store, 0)
}

func TestCoordinator_DisconnectWhileHoldingTurn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, store := newTestCoordinator(t, 3, 2, time.Minute)
	go c.Start(ctx)
	seat(t, store, "A", "B", "C")

	expectTurn(t, ctx, store, 0)
	store.TurnDone()

	// slot 1 leaves before it ever wakes up for its turn
	require.Eventually(t, func() bool {
		gs, _ := store.Get(ctx)
		return gs.CurrentTurn == 1 && c.Phase() == PhaseAwaitCompletion
	}, waitTimeout, 5*time.Millisecond)
	store.Disconnect(1)

	expectTurn(t, ctx, store, 2)
}

func TestCoordinator_IdlesBelowMinimum(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, store := newTestCoordinator(t, 3, 3, time.Minute)
	go c.Start(ctx)
	seat(t, store, "A", "B", "C")

	expectTurn(t, ctx, store, 0)
	store.Disconnect(2)
	store.TurnDone()

	require.Eventually(t, func() bool {
		return c.Phase() == PhaseWaitingForPlayers
	}, waitTimeout, 5*time.Millisecond)

	slot, err := store.Join("D")
	require.NoError(t, err)
	assert.Equal(t, 2, slot)
	store.SetReady(slot, "D")

	expectTurn(t, ctx, store, 1)
}

func TestCoordinator_UnnamedSeatDoesNotStallRotation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, store := newTestCoordinator(t, 4, 3, time.Minute)
	go c.Start(ctx)
	seat(t, store, "A", "B", "C", "D")

	expectTurn(t, ctx, store, 0)
	store.Disconnect(3)
	slot, err := store.Join("E")
	require.NoError(t, err)
	require.Equal(t, 3, slot)
	store.TurnDone()

	// E has not sent a name yet, so play goes around it
	for _, next := range []int{1, 2, 0, 1} {
		expectTurn(t, ctx, store, next)
		store.TurnDone()
	}
	expectTurn(t, ctx, store, 2)

	idleCtx, idleCancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer idleCancel()
	_, err = store.Wait(idleCtx, 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	store.SetReady(3, "E")
	store.TurnDone()
	expectTurn(t, ctx, store, 3)
}

func TestCoordinator_GameOverNoticeAndReset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, store := newTestCoordinator(t, 3, 3, 50*time.Millisecond)
	go c.Start(ctx)
	seat(t, store, "A", "B", "C")

	expectTurn(t, ctx, store, 0)
	store.TurnDone()
	expectTurn(t, ctx, store, 1)
	require.NoError(t, store.WithLock(func(tx *state.Tx) error {
		tx.State.Slots[1].Position = 100
		tx.State.Over = true
		tx.State.Winner = 1
		tx.Scores.RecordWin("B")
		return nil
	}))
	store.TurnDone()

	for slot := 0; slot < 3; slot++ {
		sig, err := store.Wait(ctx, slot)
		require.NoError(t, err)
		require.False(t, sig.IsTurn())
		assert.Equal(t, 1, sig.Notice.Round)
		assert.Equal(t, "B", sig.Notice.Winner)
		assert.Equal(t, []scores.Entry{{Name: "B", Wins: 1}}, sig.Notice.Scoreboard)
	}

	// the new round starts over from the first slot
	expectTurn(t, ctx, store, 0)
	gs, _ := store.Get(ctx)
	assert.Equal(t, 2, gs.Round)
	assert.False(t, gs.Over)
	assert.Equal(t, -1, gs.Winner)
	assert.Equal(t, 0, gs.Slots[1].Position)
	assert.True(t, gs.Slots[1].Ready, "ready flags carry over to the next round")
}

func TestCoordinator_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c, _ := newTestCoordinator(t, 3, 3, time.Minute)

	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(waitTimeout):
		t.Fatal("coordinator did not stop")
	}
}
