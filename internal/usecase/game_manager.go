package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

// anyTable - kind-agnostic operations every manager gets from table.
type anyTable interface {
	Kind() entity.Kind
	Due(room string) (entity.Due, bool)
	End(ctx context.Context, room string) bool
	Rooms() []string
	joinAny(ctx context.Context, room, player string) (any, entity.Event, error)
	surrenderAny(ctx context.Context, room, player string) (any, entity.Event, error)
	forceResignAny(ctx context.Context, room string) (any, entity.Event, error)
	snapshot(room string) (any, bool)
}

// GameManager - every kind's manager plus the rules that span kinds:
// at most one unfinished game per room.
type GameManager struct {
	logger *slog.Logger

	TicTacToe *TicTacToeManager
	Gomoku    *GomokuManager
	Go        *GoManager
	Xiangqi   *XiangqiManager
	Junqi     *JunqiManager

	tables map[entity.Kind]anyTable
	guard  *Registry[struct{}]
}

func NewGameManager(logger *slog.Logger, sinks Sinks, settings Settings) *GameManager {
	manager := &GameManager{
		logger: logger.With("component", "GameManager"),

		TicTacToe: NewTicTacToeManager(logger, sinks),
		Gomoku:    NewGomokuManager(logger, sinks, settings.GomokuSize),
		Go:        NewGoManager(logger, sinks, settings.GoSize, settings.Komi),
		Xiangqi:   NewXiangqiManager(logger, sinks),
		Junqi:     NewJunqiManager(logger, sinks, settings.JunqiSeed),

		guard: NewRegistry[struct{}](),
	}

	manager.tables = map[entity.Kind]anyTable{
		entity.KindTicTacToe: manager.TicTacToe,
		entity.KindGomoku:    manager.Gomoku,
		entity.KindGo:        manager.Go,
		entity.KindXiangqi:   manager.Xiangqi,
		entity.KindJunqi:     manager.Junqi,
	}

	return manager
}

func (that *GameManager) table(kind entity.Kind) (anyTable, error) {
	t, ok := that.tables[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownCommand, kind)
	}

	return t, nil
}

// Active - the room's unfinished game, if any.
func (that *GameManager) Active(room string) (entity.Due, bool) {
	for _, kind := range entity.Kinds {
		if due, ok := that.tables[kind].Due(room); ok && !due.Finished {
			return due, true
		}
	}

	return entity.Due{}, false
}

// Create - runs create unless another kind is unfinished in the room.
// Creations in one room are serialized so two kinds cannot start at once.
func (that *GameManager) Create(room string, kind entity.Kind, create func() error) error {
	var err error

	that.guard.do(room, func(*slot[struct{}]) {
		if due, ok := that.Active(room); ok && due.Kind != kind {
			err = fmt.Errorf("%w: %s", apperror.ErrRoomBusy, due.Kind)
			return
		}

		err = create()
	})

	return err
}

// Join - joins whichever game in the room is waiting for an opponent.
func (that *GameManager) Join(ctx context.Context, room, player string) (entity.Kind, any, entity.Event, error) {
	due, ok := that.Active(room)
	if !ok {
		return "", nil, "", apperror.ErrGameNotFound
	}

	snapshot, event, err := that.tables[due.Kind].joinAny(ctx, room, player)

	return due.Kind, snapshot, event, err
}

// Surrender - resigns player from the room's unfinished game.
func (that *GameManager) Surrender(ctx context.Context, room, player string) (entity.Kind, any, entity.Event, error) {
	due, ok := that.Active(room)
	if !ok {
		return "", nil, "", apperror.ErrGameNotFound
	}

	snapshot, event, err := that.tables[due.Kind].surrenderAny(ctx, room, player)

	return due.Kind, snapshot, event, err
}

// Snapshot - the unfinished game if there is one, else the latest finished one.
func (that *GameManager) Snapshot(room string) (entity.Kind, any, bool) {
	if due, ok := that.Active(room); ok {
		snapshot, found := that.tables[due.Kind].snapshot(room)
		return due.Kind, snapshot, found
	}

	for _, kind := range entity.Kinds {
		if snapshot, ok := that.tables[kind].snapshot(room); ok {
			return kind, snapshot, true
		}
	}

	return "", nil, false
}

// SnapshotOf - the room's game of one kind.
func (that *GameManager) SnapshotOf(kind entity.Kind, room string) (any, bool) {
	t, err := that.table(kind)
	if err != nil {
		return nil, false
	}

	return t.snapshot(room)
}

// EndAll - drops every game in the room and reports which kinds were there.
func (that *GameManager) EndAll(ctx context.Context, room string) []entity.Kind {
	var ended []entity.Kind
	for _, kind := range entity.Kinds {
		if that.tables[kind].End(ctx, room) {
			ended = append(ended, kind)
		}
	}

	if len(ended) > 0 {
		that.logger.Info("room cleared", "room", room, "kinds", ended)
	}

	return ended
}

func (that *GameManager) Due(kind entity.Kind, room string) (entity.Due, bool) {
	t, err := that.table(kind)
	if err != nil {
		return entity.Due{}, false
	}

	return t.Due(room)
}

func (that *GameManager) End(ctx context.Context, kind entity.Kind, room string) bool {
	t, err := that.table(kind)
	if err != nil {
		return false
	}

	return t.End(ctx, room)
}

func (that *GameManager) ForceResign(ctx context.Context, kind entity.Kind, room string) (any, entity.Event, error) {
	t, err := that.table(kind)
	if err != nil {
		return nil, "", err
	}

	return t.forceResignAny(ctx, room)
}

// Rooms - every room holding a game of kind.
func (that *GameManager) Rooms(kind entity.Kind) []string {
	t, err := that.table(kind)
	if err != nil {
		return nil
	}

	return t.Rooms()
}
