// Package junqi implements the flip-and-capture variant of the military chess game.
package junqi

import (
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/coord"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

const (
	Cols  = 6
	Rows  = 10
	Cells = Cols * Rows
)

// Board - index = row*6 + col.
type Board [Cells]Piece

// Game - a junqi session. The creator moves first; sides are fixed by the first flip.
type Game struct {
	entity.Match
	Board            Board       `json:"board"`
	Turn             entity.Seat `json:"turn"`
	FirstSide        Side        `json:"first_side,omitempty"`
	LastAction       string      `json:"last_action,omitempty"`
	LastPos          int         `json:"last_pos"`
	RedFlagCaptured  bool        `json:"red_flag_captured"`
	BlueFlagCaptured bool        `json:"blue_flag_captured"`
}

// New - deals both armies face down on random cells using rng.
func New(room, player string, rng *rand.Rand) *Game {
	return &Game{
		Match:   entity.NewMatch(room, player),
		Board:   Deal(rng),
		Turn:    entity.SeatFirst,
		LastPos: -1,
	}
}

// Deal - shuffles 25 pieces per side onto 50 of the 60 cells.
func Deal(rng *rand.Rand) Board {
	var pieces []Piece
	for kind := Flag; kind <= Engineer; kind++ {
		for range kind.Count() {
			pieces = append(pieces, Piece{Kind: kind, Side: Red}, Piece{Kind: kind, Side: Blue})
		}
	}

	rng.Shuffle(len(pieces), func(i, j int) {
		pieces[i], pieces[j] = pieces[j], pieces[i]
	})

	var board Board
	for i, pos := range rng.Perm(Cells)[:len(pieces)] {
		board[pos] = pieces[i]
	}

	return board
}

func (that *Game) Clone() *Game {
	clone := *that
	return &clone
}

// SideOf - side of player, NoSide before the first flip or for outsiders.
func (that *Game) SideOf(player string) Side {
	return that.sideOfSeat(that.SeatOf(player))
}

func (that *Game) sideOfSeat(seat entity.Seat) Side {
	switch seat {
	case entity.SeatFirst:
		return that.FirstSide
	case entity.SeatSecond:
		return that.FirstSide.Opponent()
	default:
		return NoSide
	}
}

func (that *Game) seatOfSide(side Side) entity.Seat {
	switch {
	case side == NoSide || that.FirstSide == NoSide:
		return entity.SeatNone
	case side == that.FirstSide:
		return entity.SeatFirst
	default:
		return entity.SeatSecond
	}
}

// Flip - parses "A1" or "1,1" and reveals the piece there.
func (that *Game) Flip(player, raw string) (entity.Event, error) {
	if err := that.ConfirmTurn(player, that.Turn); err != nil {
		return "", err
	}

	x, y, err := coord.ParseCell(raw, Cols, Rows)
	if err != nil {
		return "", err
	}

	return that.FlipAt(player, coord.Index(x, y, Cols))
}

// FlipAt - reveals a face-down piece. The first flip of the game decides both sides.
func (that *Game) FlipAt(player string, pos int) (entity.Event, error) {
	if err := that.ConfirmTurn(player, that.Turn); err != nil {
		return "", err
	}

	if pos < 0 || pos >= Cells {
		return "", fmt.Errorf("%w: %d", apperror.ErrInvalidPosition, pos)
	}

	piece := &that.Board[pos]
	if piece.IsEmpty() {
		return "", apperror.ErrNoPiece
	}

	if piece.Revealed {
		return "", apperror.ErrAlreadyRevealed
	}

	piece.Revealed = true

	if that.FirstSide == NoSide {
		that.FirstSide = piece.Side
		if that.Turn == entity.SeatSecond {
			that.FirstSide = piece.Side.Opponent()
		}
		that.LastAction = fmt.Sprintf("翻开 %s，成为%s", piece.Name(), piece.Side.Name())
	} else {
		that.LastAction = fmt.Sprintf("翻开 %s", piece.Name())
	}

	that.advance(pos)

	return entity.EventFlipped, nil
}

// Move - parses "A1-A2", "A1>A2" or "A1A2" and moves or attacks.
func (that *Game) Move(player, raw string) (entity.Event, error) {
	if err := that.ConfirmTurn(player, that.Turn); err != nil {
		return "", err
	}

	first, second, err := coord.SplitMove(raw)
	if err != nil {
		return "", err
	}

	fromX, fromY, err := coord.ParseCell(first, Cols, Rows)
	if err != nil {
		return "", err
	}

	toX, toY, err := coord.ParseCell(second, Cols, Rows)
	if err != nil {
		return "", err
	}

	return that.MoveAt(player, coord.Index(fromX, fromY, Cols), coord.Index(toX, toY, Cols))
}

// MoveAt - steps a revealed own piece to an adjacent cell, battling a revealed enemy there.
func (that *Game) MoveAt(player string, from, to int) (entity.Event, error) {
	if err := that.ConfirmTurn(player, that.Turn); err != nil {
		return "", err
	}

	if that.FirstSide == NoSide {
		return "", apperror.ErrSideUndetermined
	}

	if from < 0 || from >= Cells || to < 0 || to >= Cells {
		return "", fmt.Errorf("%w: %d>%d", apperror.ErrInvalidPosition, from, to)
	}

	piece := that.Board[from]
	if piece.IsEmpty() {
		return "", apperror.ErrNoPiece
	}

	if !piece.Revealed {
		return "", apperror.ErrNotRevealed
	}

	side := that.sideOfSeat(that.Turn)
	if piece.Side != side {
		return "", apperror.ErrNotOwnPiece
	}

	if piece.Kind.Immobile() {
		return "", fmt.Errorf("%w: %s", apperror.ErrImmobilePiece, piece.Name())
	}

	if !adjacent(from, to) {
		return "", apperror.ErrNotAdjacent
	}

	target := that.Board[to]

	if target.IsEmpty() {
		that.Board[to] = piece
		that.Board[from] = Piece{}
		that.LastAction = fmt.Sprintf("%s 移动", piece.Name())
		that.advance(to)

		return entity.EventMoved, nil
	}

	if !target.Revealed {
		return "", fmt.Errorf("%w: %s", apperror.ErrNotRevealed, coord.Label(coord.XY(to, Cols)))
	}

	if target.Side == side {
		return "", apperror.ErrOwnPiece
	}

	var event entity.Event

	switch Battle(piece.Kind, target.Kind) {
	case AttackerWins:
		that.Board[to] = piece
		that.Board[from] = Piece{}
		that.LastAction = fmt.Sprintf("%s 吃掉 %s", piece.Name(), target.Name())
		event = entity.EventBattleWon
	case DefenderWins:
		that.Board[from] = Piece{}
		that.LastAction = fmt.Sprintf("%s 被 %s 吃掉", piece.Name(), target.Name())
		event = entity.EventBattleLost
	default:
		that.Board[from] = Piece{}
		that.Board[to] = Piece{}
		that.LastAction = fmt.Sprintf("%s 与 %s 同归于尽", piece.Name(), target.Name())
		event = entity.EventBattleDraw
	}

	that.advance(to)

	if target.Kind == Flag {
		if target.Side == Red {
			that.RedFlagCaptured = true
		} else {
			that.BlueFlagCaptured = true
		}

		that.Conclude(that.seatOfSide(target.Side.Opponent()), entity.EventFlagCaptured)
		return entity.EventFlagCaptured, nil
	}

	return event, nil
}

func (that *Game) advance(pos int) {
	that.LastPos = pos
	that.Moves++
	that.Turn = that.Turn.Other()
}

func adjacent(from, to int) bool {
	fromX, fromY := coord.XY(from, Cols)
	toX, toY := coord.XY(to, Cols)

	return abs(fromX-toX)+abs(fromY-toY) == 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (that *Game) TurnSeat() entity.Seat {
	return that.Turn
}

func (that *Game) Due() entity.Due {
	return that.Match.Due(entity.KindJunqi, that.Turn)
}

func (that *Game) Result() *entity.Result {
	return that.Match.Result(entity.KindJunqi)
}
