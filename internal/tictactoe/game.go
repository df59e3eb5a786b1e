package tictactoe

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/coord"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

// Mark - content of a tic-tac-toe cell.
type Mark int8

const (
	Empty Mark = iota
	X
	O
)

func (that Mark) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

func (that Mark) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "X":
		*that = X
	case "O":
		*that = O
	default:
		*that = Empty
	}
	return nil
}

func (that Mark) seat() entity.Seat {
	switch that {
	case X:
		return entity.SeatFirst
	case O:
		return entity.SeatSecond
	default:
		return entity.SeatNone
	}
}

func (that Mark) other() Mark {
	if that == X {
		return O
	}
	return X
}

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Game - a tic-tac-toe session. The creator plays X and moves first.
type Game struct {
	entity.Match
	Board [9]Mark `json:"board"`
	Turn  Mark    `json:"turn"`
}

func New(room, player string) *Game {
	return &Game{
		Match: entity.NewMatch(room, player),
		Turn:  X,
	}
}

func (that *Game) Clone() *Game {
	clone := *that
	return &clone
}

// Place - parses a 1..9 position and places the current mark.
func (that *Game) Place(player, raw string) (entity.Event, error) {
	position, err := ParsePosition(raw)
	if err != nil {
		return "", err
	}

	return that.PlaceAt(player, position)
}

// PlaceAt - places the current mark at position 1..9.
func (that *Game) PlaceAt(player string, position int) (entity.Event, error) {
	if err := that.ConfirmTurn(player, that.Turn.seat()); err != nil {
		return "", err
	}

	if position < 1 || position > len(that.Board) {
		return "", fmt.Errorf("%w: %d", apperror.ErrInvalidPosition, position)
	}

	idx := position - 1
	if that.Board[idx] != Empty {
		return "", apperror.ErrCellOccupied
	}

	that.Board[idx] = that.Turn
	that.Moves++

	return that.updateGameState(), nil
}

// updateGameState - checks the board after a move.
func (that *Game) updateGameState() entity.Event {
	switch winner := that.DetermineGameResult(); {
	case winner != Empty:
		that.Conclude(winner.seat(), entity.EventWin)
		return entity.EventWin
	case that.isFull():
		that.Conclude(entity.SeatNone, entity.EventDraw)
		return entity.EventDraw
	default:
		that.Turn = that.Turn.other()
		return entity.EventPlaced
	}
}

// DetermineGameResult - returns the mark owning a full triple, or Empty.
func (that *Game) DetermineGameResult() Mark {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != Empty && a == b && b == c {
			return a
		}
	}

	return Empty
}

func (that *Game) isFull() bool {
	for _, cell := range that.Board {
		if cell == Empty {
			return false
		}
	}
	return true
}

func (that *Game) TurnSeat() entity.Seat {
	return that.Turn.seat()
}

func (that *Game) Due() entity.Due {
	return that.Match.Due(entity.KindTicTacToe, that.Turn.seat())
}

func (that *Game) Result() *entity.Result {
	return that.Match.Result(entity.KindTicTacToe)
}

// WinnerMark - mark of the winner, Empty on a draw or while playing.
func (that *Game) WinnerMark() Mark {
	switch that.Winner {
	case entity.SeatFirst:
		return X
	case entity.SeatSecond:
		return O
	default:
		return Empty
	}
}

// ParsePosition - accepts "5", "５" or "五".
func ParsePosition(raw string) (int, error) {
	text := strings.TrimSpace(raw)

	if position, err := strconv.Atoi(text); err == nil {
		return position, nil
	}

	if utf8.RuneCountInString(text) == 1 {
		r, _ := utf8.DecodeRuneInString(text)
		if n, ok := coord.Numeral(r); ok {
			return n, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", apperror.ErrInvalidNotation, raw)
}
