package usecase

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/gomoku"
	"github.com/rocketscienceinc/boardgame-backend/internal/junqi"
	"github.com/rocketscienceinc/boardgame-backend/internal/tictactoe"
	"github.com/rocketscienceinc/boardgame-backend/internal/weiqi"
	"github.com/rocketscienceinc/boardgame-backend/internal/xiangqi"
)

// Settings - per-kind defaults.
type Settings struct {
	GomokuSize int
	GoSize     int
	Komi       float64
	JunqiSeed  uint64 // 0 means a fresh random layout per game
}

type TicTacToeManager struct {
	table[*tictactoe.Game]
}

func NewTicTacToeManager(logger *slog.Logger, sinks Sinks) *TicTacToeManager {
	return &TicTacToeManager{
		table: newTable[*tictactoe.Game](entity.KindTicTacToe, logger, sinks),
	}
}

func (that *TicTacToeManager) Create(ctx context.Context, room, player string) (*tictactoe.Game, entity.Event, error) {
	return that.create(ctx, room, player, func() (*tictactoe.Game, error) {
		return tictactoe.New(room, player), nil
	})
}

// Place - raw is a cell number 1-9.
func (that *TicTacToeManager) Place(ctx context.Context, room, player, raw string) (*tictactoe.Game, entity.Event, error) {
	return that.act(ctx, room, player, func(game *tictactoe.Game) (entity.Event, error) {
		return game.Place(player, raw)
	})
}

type GomokuManager struct {
	table[*gomoku.Game]
	size int
}

func NewGomokuManager(logger *slog.Logger, sinks Sinks, size int) *GomokuManager {
	return &GomokuManager{
		table: newTable[*gomoku.Game](entity.KindGomoku, logger, sinks),
		size:  size,
	}
}

// Create - size 0 uses the configured default.
func (that *GomokuManager) Create(ctx context.Context, room, player string, size int) (*gomoku.Game, entity.Event, error) {
	if size == 0 {
		size = that.size
	}

	return that.create(ctx, room, player, func() (*gomoku.Game, error) {
		return gomoku.New(room, player, size)
	})
}

func (that *GomokuManager) Place(ctx context.Context, room, player, raw string) (*gomoku.Game, entity.Event, error) {
	return that.act(ctx, room, player, func(game *gomoku.Game) (entity.Event, error) {
		return game.Place(player, raw)
	})
}

type GoManager struct {
	table[*weiqi.Game]
	size int
	komi float64
}

func NewGoManager(logger *slog.Logger, sinks Sinks, size int, komi float64) *GoManager {
	return &GoManager{
		table: newTable[*weiqi.Game](entity.KindGo, logger, sinks),
		size:  size,
		komi:  komi,
	}
}

// Create - size 0 uses the configured default.
func (that *GoManager) Create(ctx context.Context, room, player string, size int) (*weiqi.Game, entity.Event, error) {
	if size == 0 {
		size = that.size
	}

	return that.create(ctx, room, player, func() (*weiqi.Game, error) {
		return weiqi.New(room, player, size, that.komi)
	})
}

func (that *GoManager) Place(ctx context.Context, room, player, raw string) (*weiqi.Game, entity.Event, error) {
	return that.act(ctx, room, player, func(game *weiqi.Game) (entity.Event, error) {
		return game.Place(player, raw)
	})
}

func (that *GoManager) Pass(ctx context.Context, room, player string) (*weiqi.Game, entity.Event, error) {
	return that.act(ctx, room, player, func(game *weiqi.Game) (entity.Event, error) {
		return game.Pass(player)
	})
}

func (that *GoManager) Undo(ctx context.Context, room, player string) (*weiqi.Game, entity.Event, error) {
	return that.act(ctx, room, player, func(game *weiqi.Game) (entity.Event, error) {
		return game.TakeBack(player)
	})
}

func (that *GoManager) RequestScore(ctx context.Context, room, player string) (*weiqi.Game, entity.Event, error) {
	return that.act(ctx, room, player, func(game *weiqi.Game) (entity.Event, error) {
		return game.RequestScore(player)
	})
}

func (that *GoManager) RejectScore(ctx context.Context, room, player string) (*weiqi.Game, entity.Event, error) {
	return that.act(ctx, room, player, func(game *weiqi.Game) (entity.Event, error) {
		return game.RejectScore(player)
	})
}

// Count - area estimate of the current position; the game goes on.
func (that *GoManager) Count(room string) (weiqi.Score, error) {
	var (
		score weiqi.Score
		err   error
	)

	that.registry.do(room, func(s *slot[*weiqi.Game]) {
		if !s.present {
			err = apperror.ErrGameNotFound
			return
		}
		score = s.game.Count()
	})

	return score, err
}

type XiangqiManager struct {
	table[*xiangqi.Game]
}

func NewXiangqiManager(logger *slog.Logger, sinks Sinks) *XiangqiManager {
	return &XiangqiManager{
		table: newTable[*xiangqi.Game](entity.KindXiangqi, logger, sinks),
	}
}

func (that *XiangqiManager) Create(ctx context.Context, room, player string) (*xiangqi.Game, entity.Event, error) {
	return that.create(ctx, room, player, func() (*xiangqi.Game, error) {
		return xiangqi.New(room, player), nil
	})
}

// Move - coordinate pair or Chinese notation.
func (that *XiangqiManager) Move(ctx context.Context, room, player, raw string) (*xiangqi.Game, entity.Event, error) {
	return that.act(ctx, room, player, func(game *xiangqi.Game) (entity.Event, error) {
		return game.Move(player, raw)
	})
}

type JunqiManager struct {
	table[*junqi.Game]
	seed  uint64
	dealt atomic.Uint64
}

func NewJunqiManager(logger *slog.Logger, sinks Sinks, seed uint64) *JunqiManager {
	return &JunqiManager{
		table: newTable[*junqi.Game](entity.KindJunqi, logger, sinks),
		seed:  seed,
	}
}

// rng - a fixed seed gives a reproducible sequence of layouts.
func (that *JunqiManager) rng() *rand.Rand {
	if that.seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return rand.New(rand.NewPCG(that.seed, that.dealt.Add(1)))
}

func (that *JunqiManager) Create(ctx context.Context, room, player string) (*junqi.Game, entity.Event, error) {
	return that.create(ctx, room, player, func() (*junqi.Game, error) {
		return junqi.New(room, player, that.rng()), nil
	})
}

func (that *JunqiManager) Flip(ctx context.Context, room, player, raw string) (*junqi.Game, entity.Event, error) {
	return that.act(ctx, room, player, func(game *junqi.Game) (entity.Event, error) {
		return game.Flip(player, raw)
	})
}

func (that *JunqiManager) Move(ctx context.Context, room, player, raw string) (*junqi.Game, entity.Event, error) {
	return that.act(ctx, room, player, func(game *junqi.Game) (entity.Event, error) {
		return game.Move(player, raw)
	})
}
