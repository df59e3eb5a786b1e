package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/command"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/repository"
)

const defaultResultsLimit = 20

type games interface {
	Snapshot(room string) (entity.Kind, any, bool)
}

type router interface {
	Handle(ctx context.Context, room, player, text string) (*command.Reply, error)
}

type snapshotRepo interface {
	Get(ctx context.Context, kind entity.Kind, room string) (json.RawMessage, error)
}

type resultRepo interface {
	ListByPlayer(ctx context.Context, player string, limit int) ([]*entity.Result, error)
	Record(ctx context.Context, player string, kind entity.Kind) (*entity.Record, error)
}

// Deps - what the HTTP API reads from. Nil repositories answer 503.
type Deps struct {
	Games     games
	Router    router
	Snapshots snapshotRepo
	Results   resultRepo
}

type handlers struct {
	logger *slog.Logger
	deps   Deps
}

type gameResponse struct {
	Kind entity.Kind `json:"kind"`
	Game any         `json:"game"`
}

type commandRequest struct {
	Player string `json:"player"`
	Text   string `json:"text"`
}

type commandResponse struct {
	OK      bool           `json:"ok"`
	Message string         `json:"message"`
	Reply   *command.Reply `json:"reply,omitempty"`
}

// game - live state of the room's current or latest game.
func (that *handlers) game(w http.ResponseWriter, r *http.Request) {
	kind, game, ok := that.deps.Games.Snapshot(r.PathValue("room"))
	if !ok {
		writeError(w, http.StatusNotFound, apperror.ErrGameNotFound.Error())
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Kind: kind, Game: game})
}

// mirror - the redis copy, for clients that never talk to this instance.
func (that *handlers) mirror(w http.ResponseWriter, r *http.Request) {
	if that.deps.Snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot mirror is disabled")
		return
	}

	raw, err := that.deps.Snapshots.Get(r.Context(), entity.Kind(r.PathValue("kind")), r.PathValue("room"))
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	if err != nil {
		that.logger.Error("failed to get snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	that.writeJSON(w, http.StatusOK, raw)
}

func (that *handlers) record(w http.ResponseWriter, r *http.Request) {
	if that.deps.Results == nil {
		writeError(w, http.StatusServiceUnavailable, "results archive is disabled")
		return
	}

	record, err := that.deps.Results.Record(r.Context(), r.PathValue("player"), entity.Kind(r.URL.Query().Get("kind")))
	if err != nil {
		that.logger.Error("failed to get record", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	that.writeJSON(w, http.StatusOK, record)
}

func (that *handlers) results(w http.ResponseWriter, r *http.Request) {
	if that.deps.Results == nil {
		writeError(w, http.StatusServiceUnavailable, "results archive is disabled")
		return
	}

	limit := defaultResultsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	results, err := that.deps.Results.ListByPlayer(r.Context(), r.PathValue("player"), limit)
	if err != nil {
		that.logger.Error("failed to list results", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if results == nil {
		results = []*entity.Result{}
	}

	that.writeJSON(w, http.StatusOK, results)
}

// command - the chat command surface over plain HTTP.
func (that *handlers) command(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Player == "" {
		writeError(w, http.StatusBadRequest, "player and text are required")
		return
	}

	reply, err := that.deps.Router.Handle(r.Context(), r.PathValue("room"), req.Player, req.Text)
	if err != nil {
		that.writeJSON(w, statusOf(err), commandResponse{Message: err.Error(), Reply: reply})
		return
	}

	that.writeJSON(w, http.StatusOK, commandResponse{OK: true, Message: reply.Message, Reply: reply})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrUnknownCommand):
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(commandResponse{Message: message})
}
