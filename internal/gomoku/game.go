package gomoku

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/coord"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

const (
	DefaultSize = 15
	winLength   = 5
)

// Sizes - supported board sizes.
var Sizes = []int{13, 15, 19}

// Stone - content of a gomoku cell.
type Stone int8

const (
	Empty Stone = iota
	Black
	White
)

func (that Stone) String() string {
	switch that {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return ""
	}
}

func (that Stone) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Stone) UnmarshalText(text []byte) error {
	switch string(text) {
	case "black":
		*that = Black
	case "white":
		*that = White
	default:
		*that = Empty
	}
	return nil
}

func (that Stone) seat() entity.Seat {
	switch that {
	case Black:
		return entity.SeatFirst
	case White:
		return entity.SeatSecond
	default:
		return entity.SeatNone
	}
}

func (that Stone) other() Stone {
	if that == Black {
		return White
	}
	return Black
}

var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Game - a gomoku session. The creator plays black and moves first.
type Game struct {
	entity.Match
	Size     int     `json:"size"`
	Board    []Stone `json:"board"`
	Turn     Stone   `json:"turn"`
	LastMove int     `json:"last_move"`
	WinLine  []int   `json:"win_line,omitempty"`
}

func New(room, player string, size int) (*Game, error) {
	if size == 0 {
		size = DefaultSize
	}

	if !slices.Contains(Sizes, size) {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidSize, size)
	}

	return &Game{
		Match:    entity.NewMatch(room, player),
		Size:     size,
		Board:    make([]Stone, size*size),
		Turn:     Black,
		LastMove: -1,
	}, nil
}

func (that *Game) Clone() *Game {
	clone := *that
	clone.Board = slices.Clone(that.Board)
	clone.WinLine = slices.Clone(that.WinLine)

	return &clone
}

// Place - parses "H8" or "8,8" and places a stone there.
func (that *Game) Place(player, raw string) (entity.Event, error) {
	x, y, err := coord.ParseCell(raw, that.Size, that.Size)
	if err != nil {
		return "", err
	}

	return that.PlaceAt(player, x, y)
}

// PlaceAt - places the current stone at zero-based (x, y).
func (that *Game) PlaceAt(player string, x, y int) (entity.Event, error) {
	if err := that.ConfirmTurn(player, that.Turn.seat()); err != nil {
		return "", err
	}

	if !coord.InBounds(x, y, that.Size, that.Size) {
		return "", fmt.Errorf("%w: %d,%d", apperror.ErrInvalidPosition, x+1, y+1)
	}

	pos := coord.Index(x, y, that.Size)
	if that.Board[pos] != Empty {
		return "", apperror.ErrCellOccupied
	}

	that.Board[pos] = that.Turn
	that.LastMove = pos
	that.Moves++

	if line := that.lineThrough(pos); len(line) >= winLength {
		that.WinLine = line
		that.Conclude(that.Turn.seat(), entity.EventWin)
		return entity.EventWin, nil
	}

	if that.Moves >= that.Size*that.Size {
		that.Conclude(entity.SeatNone, entity.EventDraw)
		return entity.EventDraw, nil
	}

	that.Turn = that.Turn.other()

	return entity.EventPlaced, nil
}

// lineThrough - longest same-colour run through pos, ordered end to end.
func (that *Game) lineThrough(pos int) []int {
	stone := that.Board[pos]
	x, y := coord.XY(pos, that.Size)

	var best []int
	for _, dir := range directions {
		var backward, forward []int

		for i := 1; ; i++ {
			nx, ny := x-dir[0]*i, y-dir[1]*i
			if !coord.InBounds(nx, ny, that.Size, that.Size) || that.Board[coord.Index(nx, ny, that.Size)] != stone {
				break
			}
			backward = append(backward, coord.Index(nx, ny, that.Size))
		}

		for i := 1; ; i++ {
			nx, ny := x+dir[0]*i, y+dir[1]*i
			if !coord.InBounds(nx, ny, that.Size, that.Size) || that.Board[coord.Index(nx, ny, that.Size)] != stone {
				break
			}
			forward = append(forward, coord.Index(nx, ny, that.Size))
		}

		if len(backward)+len(forward)+1 <= len(best) {
			continue
		}

		slices.Reverse(backward)
		line := make([]int, 0, len(backward)+len(forward)+1)
		line = append(line, backward...)
		line = append(line, pos)
		line = append(line, forward...)

		best = line
	}

	return best
}

func (that *Game) TurnSeat() entity.Seat {
	return that.Turn.seat()
}

func (that *Game) Due() entity.Due {
	return that.Match.Due(entity.KindGomoku, that.Turn.seat())
}

func (that *Game) Result() *entity.Result {
	return that.Match.Result(entity.KindGomoku)
}

// WinnerStone - colour of the winner, Empty on a draw or while playing.
func (that *Game) WinnerStone() Stone {
	switch that.Winner {
	case entity.SeatFirst:
		return Black
	case entity.SeatSecond:
		return White
	default:
		return Empty
	}
}
