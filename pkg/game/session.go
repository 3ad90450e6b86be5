package game

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/cbodonnell/snakes/pkg/eventlog"
	"github.com/cbodonnell/snakes/pkg/game/board"
	"github.com/cbodonnell/snakes/pkg/game/constants"
	"github.com/cbodonnell/snakes/pkg/game/types"
	"github.com/cbodonnell/snakes/pkg/log"
	"github.com/cbodonnell/snakes/pkg/messages"
	"github.com/cbodonnell/snakes/pkg/network"
	"github.com/cbodonnell/snakes/pkg/state"
)

// Session serves one player for the lifetime of their connection.
type Session struct {
	slot   int
	name   string
	conn   network.Conn
	store  *state.Store
	events *eventlog.Sink
	board  *board.Board
	roller board.Roller
	logger *log.Logger

	// turns counts the turns this player has taken, across rounds
	turns        int
	startedRound int
	noticeRound  int
	// left is set once the slot has been given up; it may already belong
	// to someone else
	left bool
}

type NewSessionOptions struct {
	Slot   int
	Conn   network.Conn
	Store  *state.Store
	Events *eventlog.Sink
	Board  *board.Board
	Roller board.Roller
	// Logger defaults to the process-wide logger
	Logger *log.Logger
}

func NewSession(opts NewSessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		logger: logger.WithField("slot", opts.Slot),
		slot:   opts.Slot,
		conn:   opts.Conn,
		store:  opts.Store,
		events: opts.Events,
		board:  opts.Board,
		roller: opts.Roller,
	}
}

// Run plays the session until the connection fails or ctx is done. The
// slot is always disconnected on return.
func (s *Session) Run(ctx context.Context) {
	defer s.disconnect()

	if err := s.handshake(ctx); err != nil {
		s.logger.Debug("Handshake failed: %v", err)
		return
	}

	for {
		if err := s.send(ctx, messages.WaitingTurn); err != nil {
			return
		}
		sig, err := s.store.Wait(ctx, s.slot)
		if err != nil {
			return
		}
		if !sig.IsTurn() {
			if err := s.deliverNotice(ctx, sig.Notice); err != nil {
				return
			}
			continue
		}
		if err := s.takeTurn(ctx, sig.Dispatch); err != nil {
			s.logger.Debug("Turn failed: %v", err)
			return
		}
	}
}

func (s *Session) handshake(ctx context.Context) error {
	if err := s.send(ctx, messages.NamePrompt); err != nil {
		return err
	}
	line, err := s.conn.ReadLine(ctx)
	if err != nil {
		return err
	}
	s.name = SanitizeName(line, s.slot)
	s.store.SetReady(s.slot, s.name)

	gs, err := s.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get game state: %v", err)
	}
	s.events.Logf("Player %d (%s) connected", s.slot+1, s.name)
	s.logger.Info("Player %s joined from %s", s.name, s.conn.RemoteAddr())

	return s.send(ctx,
		messages.Welcome(s.name),
		messages.Rules,
		messages.PlayersConnected(gs.ActivePlayers, gs.TargetPlayers),
		messages.WaitingPlayers,
	)
}

// deliverNotice shows the result of a round, once per round. A notice for a
// round older than the one this player has already played in is ignored.
func (s *Session) deliverNotice(ctx context.Context, notice *types.GameOverNotice) error {
	if notice.Round <= s.noticeRound || notice.Round < s.startedRound {
		return nil
	}
	s.noticeRound = notice.Round
	return s.send(ctx, messages.GameOverLines(notice.Winner, notice.Scoreboard)...)
}

// takeTurn plays one turn for the given dispatch. A dispatch that is no
// longer current is ignored. Otherwise turn-done is signaled exactly once.
func (s *Session) takeTurn(ctx context.Context, dispatch uint64) error {
	var current, playable bool
	var round int
	_ = s.store.WithLock(func(tx *state.Tx) error {
		gs := tx.State
		slot := gs.Slots[s.slot]
		current = gs.CurrentTurn == s.slot && gs.Dispatches == dispatch
		playable = current && slot.Connected && slot.Ready && gs.Started && !gs.Over
		round = gs.Round
		return nil
	})
	if !current {
		s.logger.Debug("Ignoring stale turn %d", dispatch)
		return nil
	}
	defer s.store.TurnDone()
	if !playable {
		return nil
	}

	var lines []string
	if s.startedRound != round {
		s.startedRound = round
		lines = append(lines, messages.GameStarted)
	}
	if s.turns == 0 || (s.turns+1)%constants.BoardSummaryEvery == 0 {
		lines = append(lines, messages.BoardHeader)
		lines = append(lines, s.board.Summary()...)
		lines = append(lines, messages.BoardFooter)
	}
	lines = append(lines, messages.YourTurn)
	if err := s.send(ctx, lines...); err != nil {
		s.disconnect()
		return err
	}
	if _, err := s.conn.ReadLine(ctx); err != nil {
		s.disconnect()
		return err
	}

	s.turns++
	return s.roll(ctx)
}

// roll moves the player and commits a win in one lock scope, then tells the
// player what happened.
func (s *Session) roll(ctx context.Context) error {
	var (
		move      board.Move
		positions string
		won       bool
		played    bool
	)
	_ = s.store.WithLock(func(tx *state.Tx) error {
		gs := tx.State
		if gs.Over || !gs.Slots[s.slot].Connected {
			return nil
		}
		played = true
		move = s.board.Apply(gs.Slots[s.slot].Position, s.roller.Roll())
		gs.Slots[s.slot].Position = move.To
		gs.TurnCount++

		if move.Won && gs.Winner == types.NoWinner {
			gs.Over = true
			gs.Winner = s.slot
			won = true
			if !tx.Scores.RecordWin(s.name) {
				s.logger.Warn("Score table is full, win for %s not recorded", s.name)
			}
			if err := tx.SaveScores(ctx); err != nil {
				s.logger.Error("Failed to persist scores: %v", err)
			}
		}
		positions = gs.Positions()
		return nil
	})
	if !played {
		return nil
	}

	rolled := messages.Rolled(s.name, move.Roll, move.To)
	lines := []string{rolled}
	s.events.Logf("%s", rolled)
	if !move.Moved {
		lines = append(lines, messages.ExactRoll)
		s.events.Logf("Player %s needed exact roll (stayed at %d)", s.name, move.From)
	}
	switch move.Redirect {
	case board.RedirectSnake:
		lines = append(lines, messages.Snake(move.Landed, move.To))
		s.events.Logf("Player %s hit a snake (%d -> %d)", s.name, move.Landed, move.To)
	case board.RedirectLadder:
		lines = append(lines, messages.Ladder(move.Landed, move.To))
		s.events.Logf("Player %s climbed a ladder (%d -> %d)", s.name, move.Landed, move.To)
	}
	if positions != "" {
		lines = append(lines, messages.Positions(positions))
	}
	if won {
		lines = append(lines, messages.Won(s.name))
		s.events.Logf("Player %s WON the game", s.name)
		s.logger.Info("Player %s won", s.name)
	}
	if err := s.send(ctx, lines...); err != nil {
		s.disconnect()
		return err
	}
	return nil
}

func (s *Session) disconnect() {
	if s.left {
		return
	}
	s.left = true
	if !s.store.Disconnect(s.slot) {
		return
	}
	name := s.name
	if name == "" {
		name = fmt.Sprintf("Player%d", s.slot+1)
	}
	s.events.Logf("Player %d (%s) disconnected", s.slot+1, name)
	s.logger.Info("Player %s left", name)
}

func (s *Session) send(ctx context.Context, lines ...string) error {
	for _, line := range lines {
		if err := s.conn.WriteLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// SanitizeName turns a raw name line into a single token: whitespace becomes
// underscores, an empty name gets a numbered default, and long names are cut.
func SanitizeName(raw string, slot int) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, raw)
	if name == "" {
		name = fmt.Sprintf("Player%d", slot+1)
	}
	return messages.Truncate(name, constants.MaxNameLength)
}
