package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rocketscienceinc/boardgame-backend/internal/command"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/repository"
	"github.com/rocketscienceinc/boardgame-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshots map[string]json.RawMessage

func (that fakeSnapshots) Get(_ context.Context, kind entity.Kind, room string) (json.RawMessage, error) {
	raw, ok := that[string(kind)+":"+room]
	if !ok {
		return nil, repository.ErrSnapshotNotFound
	}

	return raw, nil
}

type fakeResults struct {
	results []*entity.Result
	err     error
}

func (that *fakeResults) ListByPlayer(_ context.Context, _ string, limit int) ([]*entity.Result, error) {
	if that.err != nil {
		return nil, that.err
	}

	if limit < len(that.results) {
		return that.results[:limit], nil
	}

	return that.results, nil
}

func (that *fakeResults) Record(_ context.Context, player string, kind entity.Kind) (*entity.Record, error) {
	if that.err != nil {
		return nil, that.err
	}

	return &entity.Record{Player: player, Kind: kind, Wins: 2, Losses: 1}, nil
}

func newTestMux(t *testing.T, deps Deps) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, usecase.Sinks{}, usecase.Settings{GomokuSize: 15, GoSize: 9, Komi: 6.5})

	if deps.Games == nil {
		deps.Games = manager
	}
	if deps.Router == nil {
		deps.Router = command.NewRouter(logger, manager, nil)
	}

	return NewMux(logger, deps, nil)
}

func do(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, target, reader))

	return rec
}

func TestPing(t *testing.T) {
	rec := do(t, newTestMux(t, Deps{}), http.MethodGet, "/ping", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestCommandsAndGame(t *testing.T) {
	mux := newTestMux(t, Deps{})

	t.Run("No game yet", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/rooms/room-1/game", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Create and read back", func(t *testing.T) {
		// When:
		rec := do(t, mux, http.MethodPost, "/rooms/room-1/commands", commandRequest{Player: "alice", Text: "/gomoku"})

		// Then:
		require.Equal(t, http.StatusOK, rec.Code)

		var resp commandResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
		require.NotNil(t, resp.Reply)
		assert.Equal(t, entity.EventCreated, resp.Reply.Event)

		rec = do(t, mux, http.MethodGet, "/rooms/room-1/game", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var game struct {
			Kind entity.Kind `json:"kind"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &game))
		assert.Equal(t, entity.KindGomoku, game.Kind)
	})

	t.Run("Rule violation", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/rooms/room-1/commands", commandRequest{Player: "alice", Text: "/gomoku"})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Unknown command", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/rooms/room-1/commands", commandRequest{Player: "bob", Text: "hello"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing player", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/rooms/room-1/commands", commandRequest{Text: "/gomoku"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSnapshots(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		rec := do(t, newTestMux(t, Deps{}), http.MethodGet, "/snapshots/go/room-1", nil)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	mux := newTestMux(t, Deps{Snapshots: fakeSnapshots{"go:room-1": json.RawMessage(`{"size":9}`)}})

	t.Run("Found", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/snapshots/go/room-1", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"size":9}`, rec.Body.String())
	})

	t.Run("Not found", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/snapshots/go/room-2", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPlayers(t *testing.T) {
	results := &fakeResults{results: []*entity.Result{
		{ID: "r-2", Kind: entity.KindGo, First: "alice", Second: "bob"},
		{ID: "r-1", Kind: entity.KindGo, First: "alice", Second: "carol"},
	}}
	mux := newTestMux(t, Deps{Results: results})

	t.Run("Record", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/players/alice/record?kind=go", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var record entity.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
		assert.Equal(t, "alice", record.Player)
		assert.Equal(t, entity.KindGo, record.Kind)
		assert.Equal(t, 3, record.Played())
	})

	t.Run("Results with limit", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/players/alice/results?limit=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var list []*entity.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, "r-2", list[0].ID)
	})

	t.Run("Invalid limit", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/players/alice/results?limit=zero", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Storage failure", func(t *testing.T) {
		broken := newTestMux(t, Deps{Results: &fakeResults{err: errors.New("disk full")}})

		rec := do(t, broken, http.MethodGet, "/players/alice/results", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
