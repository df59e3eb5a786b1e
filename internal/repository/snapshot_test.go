package repository

import (
	"encoding/json"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/junqi"
	"github.com/rocketscienceinc/boardgame-backend/internal/tictactoe"
	"github.com/rocketscienceinc/boardgame-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRepository_Save(t *testing.T) {
	t.Run("Save_Get", func(t *testing.T) {
		ctx, st := suite.New(t)

		snapshotRepo := NewSnapshotRepository(st.Storage, 0)

		// Given: a waiting game
		game := tictactoe.New("room-1", "alice")

		// When: Save is called
		err := snapshotRepo.Save(ctx, entity.KindTicTacToe, "room-1", game)
		require.NoError(t, err)

		// Then: the stored JSON reads back as the same game
		raw, err := snapshotRepo.Get(ctx, entity.KindTicTacToe, "room-1")
		require.NoError(t, err)

		var stored tictactoe.Game
		require.NoError(t, json.Unmarshal(raw, &stored))
		assert.Equal(t, "alice", stored.First)
		assert.Equal(t, entity.StatusWaiting, stored.Status)
		assert.Equal(t, tictactoe.X, stored.Turn)

		keys, err := st.Storage.Keys(ctx, "game:*").Result()
		require.NoError(t, err)
		assert.Equal(t, []string{"game:tictactoe:room-1"}, keys)
	})

	t.Run("Save_TTL", func(t *testing.T) {
		ctx, st := suite.New(t)

		snapshotRepo := NewSnapshotRepository(st.Storage, time.Hour)

		err := snapshotRepo.Save(ctx, entity.KindGo, "room-1", map[string]int{"moves": 3})
		require.NoError(t, err)

		ttl, err := st.Storage.TTL(ctx, "game:go:room-1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 59*time.Minute)
	})

	t.Run("Save_MasksHiddenPieces", func(t *testing.T) {
		ctx, st := suite.New(t)

		snapshotRepo := NewSnapshotRepository(st.Storage, 0)

		// Given: a fresh junqi layout, every piece face down
		game := junqi.New("room-1", "alice", rand.New(rand.NewPCG(1, 2)))

		err := snapshotRepo.Save(ctx, entity.KindJunqi, "room-1", game)
		require.NoError(t, err)

		raw, err := snapshotRepo.Get(ctx, entity.KindJunqi, "room-1")
		require.NoError(t, err)

		// Then: no piece identity leaks
		assert.Contains(t, string(raw), `"hidden"`)
		assert.NotContains(t, string(raw), `"revealed"`)
	})
}

func TestSnapshotRepository_Delete(t *testing.T) {
	ctx, st := suite.New(t)

	snapshotRepo := NewSnapshotRepository(st.Storage, 0)

	// Given: a stored snapshot
	err := snapshotRepo.Save(ctx, entity.KindXiangqi, "room-1", map[string]string{"turn": "red"})
	require.NoError(t, err)

	// When: Delete is called twice
	require.NoError(t, snapshotRepo.Delete(ctx, entity.KindXiangqi, "room-1"))
	require.NoError(t, snapshotRepo.Delete(ctx, entity.KindXiangqi, "room-1"))

	// Then: it is gone
	raw, err := snapshotRepo.Get(ctx, entity.KindXiangqi, "room-1")
	require.ErrorIs(t, err, ErrSnapshotNotFound)
	assert.Nil(t, raw)
}
