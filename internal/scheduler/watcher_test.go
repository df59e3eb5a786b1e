package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	room     = "room-1"
	alice    = "alice"
	bob      = "bob"
	short    = 30 * time.Millisecond
	waitFor  = time.Second
	pollTick = 5 * time.Millisecond
)

func newFixture(t *testing.T, timeouts Timeouts) (*usecase.GameManager, *Watcher) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, usecase.Sinks{}, usecase.Settings{GomokuSize: 15, GoSize: 9, Komi: 6.5})
	watcher := NewWatcher(logger, manager, timeouts)
	t.Cleanup(watcher.Stop)

	return manager, watcher
}

func TestWatcher_JoinTimeout(t *testing.T) {
	ctx := context.Background()

	// Given: a game nobody joins
	manager, watcher := newFixture(t, Timeouts{Turn: time.Hour, Join: short})
	_, _, err := manager.TicTacToe.Create(ctx, room, alice)
	require.NoError(t, err)

	// When:
	watcher.Touch(ctx, entity.KindTicTacToe, room)

	// Then: the game is dropped
	assert.Eventually(t, func() bool {
		_, ok := manager.TicTacToe.Get(room)
		return !ok
	}, waitFor, pollTick)
	assert.Zero(t, watcher.Pending())
}

func TestWatcher_TurnTimeout(t *testing.T) {
	ctx := context.Background()

	// Given: an ongoing game where bob stalls
	manager, watcher := newFixture(t, Timeouts{Turn: short, Join: time.Hour})
	_, _, err := manager.TicTacToe.Create(ctx, room, alice)
	require.NoError(t, err)
	_, _, err = manager.TicTacToe.Join(ctx, room, bob)
	require.NoError(t, err)
	_, _, err = manager.TicTacToe.Place(ctx, room, alice, "5")
	require.NoError(t, err)

	// When:
	watcher.Touch(ctx, entity.KindTicTacToe, room)

	// Then: bob loses on time
	assert.Eventually(t, func() bool {
		game, ok := manager.TicTacToe.Get(room)
		return ok && game.IsFinished()
	}, waitFor, pollTick)

	game, ok := manager.TicTacToe.Get(room)
	require.True(t, ok)
	assert.Equal(t, entity.SeatFirst, game.Winner)
	assert.Equal(t, entity.EventTimedOut, game.Reason)
}

func TestWatcher_StaleTimer(t *testing.T) {
	ctx := context.Background()

	// Given: a timer armed for alice's turn
	manager, watcher := newFixture(t, Timeouts{Turn: short, Join: time.Hour})
	_, _, err := manager.Gomoku.Create(ctx, room, alice, 0)
	require.NoError(t, err)
	_, _, err = manager.Gomoku.Join(ctx, room, bob)
	require.NoError(t, err)

	watcher.Touch(ctx, entity.KindGomoku, room)

	// When: alice moves without the watcher being told
	_, _, err = manager.Gomoku.Place(ctx, room, alice, "H8")
	require.NoError(t, err)

	// Then: the timer fires but nobody resigns
	assert.Eventually(t, func() bool { return watcher.Pending() == 0 }, waitFor, pollTick)

	game, ok := manager.Gomoku.Get(room)
	require.True(t, ok)
	assert.True(t, game.IsOngoing())
}

func TestWatcher_TouchAndCancel(t *testing.T) {
	ctx := context.Background()
	manager, watcher := newFixture(t, Timeouts{Turn: time.Hour, Join: time.Hour})

	t.Run("Unknown room arms nothing", func(t *testing.T) {
		watcher.Touch(ctx, entity.KindGo, "nowhere")
		assert.Zero(t, watcher.Pending())
	})

	t.Run("One timer per room", func(t *testing.T) {
		_, _, err := manager.Go.Create(ctx, room, alice, 0)
		require.NoError(t, err)

		watcher.Touch(ctx, entity.KindGo, room)
		watcher.Touch(ctx, entity.KindGo, room)

		assert.Equal(t, 1, watcher.Pending())
	})

	t.Run("Finished game cancels", func(t *testing.T) {
		_, _, err := manager.Go.Surrender(ctx, room, alice)
		require.NoError(t, err)

		watcher.Touch(ctx, entity.KindGo, room)

		assert.Zero(t, watcher.Pending())
	})

	t.Run("Cancel", func(t *testing.T) {
		_, _, err := manager.Go.Create(ctx, room, alice, 0)
		require.NoError(t, err)
		watcher.Touch(ctx, entity.KindGo, room)

		watcher.Cancel(room)
		watcher.Cancel(room)

		assert.Zero(t, watcher.Pending())
	})
}

func TestNewWatcher_Defaults(t *testing.T) {
	_, watcher := newFixture(t, Timeouts{})

	assert.Equal(t, DefaultTurnTimeout, watcher.timeouts.Turn)
	assert.Equal(t, DefaultJoinTimeout, watcher.timeouts.Join)
}
