package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

// session - what every rule engine session offers on top of its own moves.
type session[S any] interface {
	Join(player string) error
	Resign(player string) (entity.Seat, error)
	Conclude(winner entity.Seat, reason entity.Event)
	Player(seat entity.Seat) string
	IsFinished() bool
	IsWaiting() bool
	TurnSeat() entity.Seat
	Due() entity.Due
	Result() *entity.Result
	Clone() S
}

type snapshotRepo interface {
	Save(ctx context.Context, kind entity.Kind, room string, snapshot any) error
	Delete(ctx context.Context, kind entity.Kind, room string) error
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
}

type publisher interface {
	Publish(ctx context.Context, notice entity.Notice) error
}

// Sinks - best-effort side effects of successful operations. Nil members are skipped.
type Sinks struct {
	Snapshots snapshotRepo
	Results   resultRepo
	Events    publisher
}

// Publishers - fans a notice out to several publishers. Every one is tried.
type Publishers []publisher

func (that Publishers) Publish(ctx context.Context, notice entity.Notice) error {
	var errs []error
	for _, p := range that {
		if err := p.Publish(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// table - operations shared by every game kind, on top of a Registry.
type table[S session[S]] struct {
	kind     entity.Kind
	logger   *slog.Logger
	registry *Registry[S]
	sinks    Sinks
	now      func() time.Time
}

func newTable[S session[S]](kind entity.Kind, logger *slog.Logger, sinks Sinks) table[S] {
	return table[S]{
		kind:     kind,
		logger:   logger.With("component", "usecase", "kind", string(kind)),
		registry: NewRegistry[S](),
		sinks:    sinks,
		now:      time.Now,
	}
}

func (that *table[S]) Kind() entity.Kind {
	return that.kind
}

// create - builds a new session unless the room holds an unfinished one,
// in which case that one is returned with ErrRoomBusy.
func (that *table[S]) create(ctx context.Context, room, player string, build func() (S, error)) (S, entity.Event, error) {
	var (
		snapshot S
		err      error
	)

	that.registry.do(room, func(s *slot[S]) {
		if s.present && !s.game.IsFinished() {
			snapshot, err = s.game.Clone(), apperror.ErrRoomBusy
			return
		}

		game, buildErr := build()
		if buildErr != nil {
			err = buildErr
			return
		}

		s.set(game)
		snapshot = game.Clone()
	})

	if err != nil {
		that.logger.Debug("create rejected", "room", room, "player", player, "error", err)
		return snapshot, "", err
	}

	that.notify(ctx, room, player, entity.EventCreated, snapshot, false)

	return snapshot, entity.EventCreated, nil
}

// act - applies op to the room's session. A rejected op leaves the session as it was.
func (that *table[S]) act(ctx context.Context, room, player string, op func(game S) (entity.Event, error)) (S, entity.Event, error) {
	var (
		snapshot S
		event    entity.Event
		finished bool
		err      error
	)

	that.registry.do(room, func(s *slot[S]) {
		if !s.present {
			err = apperror.ErrGameNotFound
			return
		}

		wasFinished := s.game.IsFinished()
		event, err = op(s.game)
		snapshot = s.game.Clone()
		finished = !wasFinished && s.game.IsFinished()
	})

	if err != nil {
		that.logger.Debug("operation rejected", "room", room, "player", player, "error", err)
		return snapshot, "", err
	}

	that.notify(ctx, room, player, event, snapshot, finished)

	return snapshot, event, nil
}

func (that *table[S]) Join(ctx context.Context, room, player string) (S, entity.Event, error) {
	return that.act(ctx, room, player, func(game S) (entity.Event, error) {
		if err := game.Join(player); err != nil {
			return "", err
		}
		return entity.EventJoined, nil
	})
}

func (that *table[S]) Surrender(ctx context.Context, room, player string) (S, entity.Event, error) {
	return that.act(ctx, room, player, func(game S) (entity.Event, error) {
		if _, err := game.Resign(player); err != nil {
			return "", err
		}
		return entity.EventSurrendered, nil
	})
}

// ForceResign - the player holding the turn loses on time.
func (that *table[S]) ForceResign(ctx context.Context, room string) (S, entity.Event, error) {
	var (
		snapshot S
		loser    string
		err      error
	)

	that.registry.do(room, func(s *slot[S]) {
		switch {
		case !s.present:
			err = apperror.ErrGameNotFound
			return
		case s.game.IsFinished():
			err = apperror.ErrGameFinished
			return
		case s.game.IsWaiting():
			err = apperror.ErrGameIsNotStarted
			return
		}

		loser = s.game.Player(s.game.TurnSeat())

		winner, resignErr := s.game.Resign(loser)
		if resignErr != nil {
			err = resignErr
			return
		}

		s.game.Conclude(winner, entity.EventTimedOut)
		snapshot = s.game.Clone()
	})

	if err != nil {
		return snapshot, "", err
	}

	that.notify(ctx, room, loser, entity.EventTimedOut, snapshot, true)

	return snapshot, entity.EventTimedOut, nil
}

// End - drops the room's session whatever its state.
func (that *table[S]) End(ctx context.Context, room string) bool {
	var ended bool

	that.registry.do(room, func(s *slot[S]) {
		ended = s.present
		s.clear()
	})

	if !ended {
		return false
	}

	log := that.logger.With("method", "End", "room", room)

	if that.sinks.Snapshots != nil {
		if err := that.sinks.Snapshots.Delete(ctx, that.kind, room); err != nil {
			log.Error("failed to delete snapshot", "error", err)
		}
	}

	that.publish(ctx, log, entity.Notice{Kind: that.kind, Room: room, Event: entity.EventEnded, At: that.now()})

	log.Info("game ended")

	return true
}

// Get - copy of the room's session.
func (that *table[S]) Get(room string) (S, bool) {
	var (
		snapshot S
		ok       bool
	)

	that.registry.do(room, func(s *slot[S]) {
		if s.present {
			snapshot, ok = s.game.Clone(), true
		}
	})

	return snapshot, ok
}

func (that *table[S]) Due(room string) (entity.Due, bool) {
	var (
		due entity.Due
		ok  bool
	)

	that.registry.do(room, func(s *slot[S]) {
		if s.present {
			due, ok = s.game.Due(), true
		}
	})

	return due, ok
}

// Rooms - rooms holding a session of this kind.
func (that *table[S]) Rooms() []string {
	return that.registry.Rooms()
}

func (that *table[S]) joinAny(ctx context.Context, room, player string) (any, entity.Event, error) {
	return that.Join(ctx, room, player)
}

func (that *table[S]) surrenderAny(ctx context.Context, room, player string) (any, entity.Event, error) {
	return that.Surrender(ctx, room, player)
}

func (that *table[S]) forceResignAny(ctx context.Context, room string) (any, entity.Event, error) {
	return that.ForceResign(ctx, room)
}

func (that *table[S]) snapshot(room string) (any, bool) {
	return that.Get(room)
}

func (that *table[S]) notify(ctx context.Context, room, player string, event entity.Event, snapshot S, finished bool) {
	log := that.logger.With("method", "notify", "room", room)

	if that.sinks.Snapshots != nil {
		if err := that.sinks.Snapshots.Save(ctx, that.kind, room, snapshot); err != nil {
			log.Error("failed to save snapshot", "error", err)
		}
	}

	if finished {
		that.archive(ctx, log, snapshot)
	}

	that.publish(ctx, log, entity.Notice{
		Kind:     that.kind,
		Room:     room,
		Player:   player,
		Event:    event,
		Snapshot: snapshot,
		At:       that.now(),
	})

	log.Debug("game updated", "player", player, "event", event)
}

// archive - records finished games that had two players.
func (that *table[S]) archive(ctx context.Context, log *slog.Logger, snapshot S) {
	result := snapshot.Result()
	if result.Second == "" {
		return
	}

	result.FinishedAt = that.now().UTC()

	log.Info("game finished", "winner", result.Winner, "draw", result.Draw, "reason", result.Reason)

	if that.sinks.Results == nil {
		return
	}

	if err := that.sinks.Results.Save(ctx, result); err != nil {
		log.Error("failed to archive result", "error", err)
	}
}

func (that *table[S]) publish(ctx context.Context, log *slog.Logger, notice entity.Notice) {
	if that.sinks.Events == nil {
		return
	}

	if err := that.sinks.Events.Publish(ctx, notice); err != nil {
		log.Error("failed to publish event", "event", notice.Event, "error", err)
	}
}
