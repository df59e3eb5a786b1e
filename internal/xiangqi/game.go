// Package xiangqi implements Chinese chess with check, checkmate and stalemate detection.
package xiangqi

import (
	"fmt"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/coord"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

// Step - a committed move and the piece it took, if any.
type Step struct {
	From     int   `json:"from"`
	To       int   `json:"to"`
	Captured Piece `json:"captured,omitempty"`
}

// Game - a xiangqi session. The creator plays red and moves first.
// InCheck refers to the side to move.
type Game struct {
	entity.Match
	Board    Board `json:"board"`
	Turn     Side  `json:"turn"`
	LastMove *Step `json:"last_move,omitempty"`
	InCheck  bool  `json:"in_check"`
}

func New(room, player string) *Game {
	return &Game{
		Match: entity.NewMatch(room, player),
		Board: NewBoard(),
		Turn:  Red,
	}
}

func (that *Game) Clone() *Game {
	clone := *that
	if that.LastMove != nil {
		step := *that.LastMove
		clone.LastMove = &step
	}

	return &clone
}

// Move - parses coordinate or Chinese notation and plays it.
func (that *Game) Move(player, raw string) (entity.Event, error) {
	if err := that.ConfirmTurn(player, that.Turn.seat()); err != nil {
		return "", err
	}

	from, to, err := that.Board.ParseMove(raw, that.Turn)
	if err != nil {
		return "", err
	}

	return that.MoveAt(player, from, to)
}

// MoveAt - moves the piece on from to to. Rejected moves leave the board untouched.
func (that *Game) MoveAt(player string, from, to int) (entity.Event, error) {
	if err := that.ConfirmTurn(player, that.Turn.seat()); err != nil {
		return "", err
	}

	if from < 0 || from >= Cells || to < 0 || to >= Cells {
		return "", fmt.Errorf("%w: %d>%d", apperror.ErrInvalidPosition, from, to)
	}

	piece := that.Board[from]
	if piece == Empty {
		return "", apperror.ErrNoPiece
	}

	if piece.Side() != that.Turn {
		return "", apperror.ErrNotOwnPiece
	}

	if that.Board[to].Side() == that.Turn {
		return "", apperror.ErrOwnPiece
	}

	if !that.Board.validPieceMove(from, to) {
		return "", fmt.Errorf("%w: %s %s>%s", apperror.ErrIllegalPieceMove, piece.Name(), Label(from), Label(to))
	}

	captured := that.Board[to]
	that.Board[to] = piece
	that.Board[from] = Empty

	if that.Board.kingsFacing() {
		that.Board[from] = piece
		that.Board[to] = captured
		return "", apperror.ErrKingsFacing
	}

	if that.Board.inCheck(that.Turn) {
		that.Board[from] = piece
		that.Board[to] = captured
		return "", apperror.ErrLeavesKingInCheck
	}

	mover := that.Turn
	that.LastMove = &Step{From: from, To: to, Captured: captured}
	that.Moves++
	that.Turn = mover.Opponent()
	that.InCheck = that.Board.inCheck(that.Turn)

	if !that.Board.hasLegalMove(that.Turn) {
		reason := entity.EventStalemate
		if that.InCheck {
			reason = entity.EventCheckmate
		}

		that.Conclude(mover.seat(), reason)
		return reason, nil
	}

	if that.InCheck {
		return entity.EventCheck, nil
	}

	return entity.EventMoved, nil
}

func (that *Game) TurnSeat() entity.Seat {
	return that.Turn.seat()
}

func (that *Game) Due() entity.Due {
	return that.Match.Due(entity.KindXiangqi, that.Turn.seat())
}

func (that *Game) Result() *entity.Result {
	return that.Match.Result(entity.KindXiangqi)
}

// WinnerSide - side of the winner, NoSide while playing or after a draw.
func (that *Game) WinnerSide() Side {
	switch that.Winner {
	case entity.SeatFirst:
		return Red
	case entity.SeatSecond:
		return Black
	default:
		return NoSide
	}
}

// Label - "E1" style name of a board index.
func Label(pos int) string {
	row, col := rowCol(pos)
	return coord.Label(col, row)
}

func (that Side) seat() entity.Seat {
	switch that {
	case Red:
		return entity.SeatFirst
	case Black:
		return entity.SeatSecond
	default:
		return entity.SeatNone
	}
}
