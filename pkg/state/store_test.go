package state

import (
	"context"
	"testing"
	"time"

	mocks "github.com/cbodonnell/snakes/mocks/github.com/cbodonnell/snakes/pkg/repositories"
	"github.com/cbodonnell/snakes/pkg/game/types"
	"github.com/cbodonnell/snakes/pkg/scores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, players int) (*Store, *mocks.MockRepository) {
	repo := mocks.NewMockRepository(t)
	return NewStore(NewStoreOptions{
		TargetPlayers: players,
		Ledger:        scores.NewLedger(10),
		Repository:    repo,
	}), repo
}

func TestStore_JoinUntilFull(t *testing.T) {
	s, _ := newTestStore(t, 2)

	slot, err := s.Join("a")
	require.NoError(t, err)
	assert.Equal(t, 0, slot)
	slot, err = s.Join("b")
	require.NoError(t, err)
	assert.Equal(t, 1, slot)

	_, err = s.Join("c")
	assert.True(t, IsGameFull(err))

	state, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, state.ActivePlayers)
	assert.Equal(t, "b", state.Slots[1].ClientID)
}

func TestStore_JoinReusesDisconnectedSlot(t *testing.T) {
	s, _ := newTestStore(t, 2)
	_, _ = s.Join("a")
	_, _ = s.Join("b")

	assert.True(t, s.Disconnect(0))
	assert.False(t, s.Disconnect(0), "disconnect is idempotent")

	slot, err := s.Join("c")
	require.NoError(t, err)
	assert.Equal(t, 0, slot)

	state, _ := s.Get(context.Background())
	assert.Equal(t, 2, state.ActivePlayers)
	assert.False(t, state.Slots[0].Ready)
}

func TestStore_ChangedFiresOnMembershipEvents(t *testing.T) {
	s, _ := newTestStore(t, 2)
	slot, _ := s.Join("a")
	<-s.Changed()

	s.SetReady(slot, "A")
	select {
	case <-s.Changed():
	default:
		t.Fatal("SetReady did not signal a change")
	}

	s.Disconnect(slot)
	select {
	case <-s.Changed():
	default:
		t.Fatal("Disconnect did not signal a change")
	}
}

func TestStore_TurnBaton(t *testing.T) {
	s, _ := newTestStore(t, 3)
	ctx := context.Background()
	_, _ = s.Join("a")
	_, _ = s.Join("b")

	var dispatch uint64
	require.NoError(t, s.WithLock(func(tx *Tx) error {
		dispatch = tx.PostTurn(1)
		return nil
	}))

	sig, err := s.Wait(ctx, 1)
	require.NoError(t, err)
	assert.True(t, sig.IsTurn())
	assert.Equal(t, dispatch, sig.Dispatch)

	state, _ := s.Get(ctx)
	assert.Equal(t, 1, state.CurrentTurn)
	assert.Equal(t, dispatch, state.Dispatches)

	s.TurnDone()
	require.NoError(t, s.AwaitTurnDone(ctx))
}

func TestStore_DisconnectWithPendingTurnSignalsDone(t *testing.T) {
	s, _ := newTestStore(t, 2)
	_, _ = s.Join("a")

	require.NoError(t, s.WithLock(func(tx *Tx) error {
		tx.PostTurn(0)
		return nil
	}))
	s.Disconnect(0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.AwaitTurnDone(ctx))
}

func TestStore_NoticeIsDroppedWhenPending(t *testing.T) {
	s, _ := newTestStore(t, 1)
	_, _ = s.Join("a")

	var first, second bool
	_ = s.WithLock(func(tx *Tx) error {
		first = tx.PostNotice(0, &types.GameOverNotice{Round: 1})
		second = tx.PostNotice(0, &types.GameOverNotice{Round: 1})
		return nil
	})
	assert.True(t, first)
	assert.False(t, second)

	sig, err := s.Wait(context.Background(), 0)
	require.NoError(t, err)
	assert.False(t, sig.IsTurn())
	assert.Equal(t, 1, sig.Notice.Round)
}

func TestStore_PostTurnDiscardsStaleNotice(t *testing.T) {
	s, _ := newTestStore(t, 1)
	_, _ = s.Join("a")

	var dispatch uint64
	_ = s.WithLock(func(tx *Tx) error {
		tx.PostNotice(0, &types.GameOverNotice{Round: 1})
		dispatch = tx.PostTurn(0)
		return nil
	})

	sig, err := s.Wait(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, sig.IsTurn())
	assert.Equal(t, dispatch, sig.Dispatch)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = s.Wait(ctx, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "nothing else is pending")
}

func TestStore_WaitHonorsContext(t *testing.T) {
	s, _ := newTestStore(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Wait(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.AwaitTurnDone(ctx), context.Canceled)
}

func TestStore_SaveScores(t *testing.T) {
	s, repo := newTestStore(t, 1)
	ctx := context.Background()

	_ = s.WithLock(func(tx *Tx) error {
		tx.Scores.RecordWin("A")
		return nil
	})
	repo.EXPECT().SaveScores(mock.Anything, []scores.Entry{{Name: "A", Wins: 1}}).Return(nil).Once()
	require.NoError(t, s.SaveScores(ctx))

	board, err := s.Scoreboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, []scores.Entry{{Name: "A", Wins: 1}}, board)
}
