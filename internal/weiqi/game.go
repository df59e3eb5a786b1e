// Package weiqi implements go with area scoring and positional superko.
package weiqi

import (
	"fmt"
	"maps"
	"slices"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/coord"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

const (
	DefaultSize = 9
	DefaultKomi = 6.5
)

// Sizes - supported board sizes.
var Sizes = []int{9, 13, 19}

// undoState - everything needed to take back the last placement.
type undoState struct {
	Board    []Stone `json:"board"`
	Captured int     `json:"captured"`
	Mover    Stone   `json:"mover"`
	LastMove int     `json:"last_move"`
	Passes   int     `json:"passes"`
}

// Game - a go session. The creator plays black and moves first.
//
// CapturedBlack and CapturedWhite count stones of that colour removed from the board.
// History holds every position key reached by a placement, in order.
type Game struct {
	entity.Match
	Size           int        `json:"size"`
	Board          []Stone    `json:"board"`
	Turn           Stone      `json:"turn"`
	Komi           float64    `json:"komi"`
	CapturedBlack  int        `json:"captured_black"`
	CapturedWhite  int        `json:"captured_white"`
	LastMove       int        `json:"last_move"`
	LastCaptured   int        `json:"last_captured"`
	Passes         int        `json:"consecutive_passes"`
	History        []string   `json:"history"`
	Undo           *undoState `json:"undo,omitempty"`
	ScoreRequestBy string     `json:"score_request_by,omitempty"`
	Score          *Score     `json:"score,omitempty"`

	seen map[string]struct{}
}

func New(room, player string, size int, komi float64) (*Game, error) {
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
		Komi:     komi,
		LastMove: -1,
		seen:     make(map[string]struct{}),
	}, nil
}

func (that *Game) Clone() *Game {
	clone := *that
	clone.Board = slices.Clone(that.Board)
	clone.History = slices.Clone(that.History)
	clone.seen = maps.Clone(that.seen)

	if that.Undo != nil {
		undo := *that.Undo
		undo.Board = slices.Clone(that.Undo.Board)
		clone.Undo = &undo
	}

	if that.Score != nil {
		score := *that.Score
		clone.Score = &score
	}

	return &clone
}

func (that *Game) view() board {
	return board{size: that.Size, cells: that.Board}
}

// Place - parses "D4" or "4,4" and plays a stone there.
func (that *Game) Place(player, raw string) (entity.Event, error) {
	x, y, err := coord.ParseCell(raw, that.Size, that.Size)
	if err != nil {
		return "", err
	}

	return that.PlaceAt(player, x, y)
}

// PlaceAt - plays the current colour at zero-based (x, y).
// Suicide and superko violations leave the game untouched.
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

	saved := slices.Clone(that.Board)
	stone := that.Turn
	opponent := stone.Opponent()

	b := that.view()
	b.cells[pos] = stone

	captured := 0
	for _, n := range b.neighbors(pos) {
		if b.cells[n] != opponent {
			continue
		}

		if chain := b.group(n); b.liberties(chain) == 0 {
			captured += b.remove(chain)
		}
	}

	if b.liberties(b.group(pos)) == 0 {
		that.Board = saved
		return "", apperror.ErrSuicide
	}

	key := b.key()
	if that.seenPosition(key) {
		that.Board = saved
		return "", apperror.ErrSuperko
	}

	if stone == Black {
		that.CapturedWhite += captured
	} else {
		that.CapturedBlack += captured
	}

	that.History = append(that.History, key)
	that.seen[key] = struct{}{}
	that.Undo = &undoState{
		Board:    saved,
		Captured: captured,
		Mover:    stone,
		LastMove: that.LastMove,
		Passes:   that.Passes,
	}

	that.LastMove = pos
	that.LastCaptured = captured
	that.Moves++
	that.Passes = 0
	that.ScoreRequestBy = ""
	that.Turn = opponent

	return entity.EventPlaced, nil
}

// seenPosition - reports whether key occurred earlier, rebuilding the index after decoding.
func (that *Game) seenPosition(key string) bool {
	if that.seen == nil {
		that.seen = make(map[string]struct{}, len(that.History))
		for _, k := range that.History {
			that.seen[k] = struct{}{}
		}
	}

	_, ok := that.seen[key]
	return ok
}

// Pass - gives up the turn. Two passes in a row end and score the game.
func (that *Game) Pass(player string) (entity.Event, error) {
	if err := that.ConfirmTurn(player, that.Turn.seat()); err != nil {
		return "", err
	}

	that.Passes++
	that.Undo = nil
	that.ScoreRequestBy = ""
	that.Turn = that.Turn.Opponent()

	if that.Passes >= 2 {
		that.finishWithScore(entity.EventDoublePass)
		return entity.EventDoublePass, nil
	}

	return entity.EventPassed, nil
}

// TakeBack - undoes the last placement. Only its author may ask, once.
func (that *Game) TakeBack(player string) (entity.Event, error) {
	if that.IsFinished() {
		return "", apperror.ErrGameFinished
	}

	if that.Undo == nil {
		return "", apperror.ErrUndoUnavailable
	}

	if that.SeatOf(player) != that.Undo.Mover.seat() {
		return "", apperror.ErrUndoNotMover
	}

	if n := len(that.History); n > 0 {
		if that.seen != nil {
			delete(that.seen, that.History[n-1])
		}
		that.History = that.History[:n-1]
	}

	undo := that.Undo
	that.Board = undo.Board

	if undo.Mover == Black {
		that.CapturedWhite -= undo.Captured
	} else {
		that.CapturedBlack -= undo.Captured
	}

	that.Turn = undo.Mover
	that.Moves--
	that.LastMove = undo.LastMove
	that.LastCaptured = 0
	that.Passes = undo.Passes
	that.Undo = nil

	return entity.EventUndone, nil
}

// RequestScore - first request is recorded, a request by the other player ends the game.
func (that *Game) RequestScore(player string) (entity.Event, error) {
	if that.IsFinished() {
		return "", apperror.ErrGameFinished
	}

	if !that.IsParticipant(player) {
		return "", apperror.ErrNotParticipant
	}

	if err := that.ConfirmOngoingState(); err != nil {
		return "", err
	}

	switch that.ScoreRequestBy {
	case "":
		that.ScoreRequestBy = player
		return entity.EventScoreRequested, nil
	case player:
		return "", apperror.ErrScoreAlreadyRequested
	default:
		that.finishWithScore(entity.EventScoreAgreed)
		return entity.EventScoreAgreed, nil
	}
}

// RejectScore - the other player declines a pending request.
func (that *Game) RejectScore(player string) (entity.Event, error) {
	if that.IsFinished() {
		return "", apperror.ErrGameFinished
	}

	if !that.IsParticipant(player) {
		return "", apperror.ErrNotParticipant
	}

	switch that.ScoreRequestBy {
	case "":
		return "", apperror.ErrNoScoreRequest
	case player:
		return "", apperror.ErrCannotRejectOwn
	}

	that.ScoreRequestBy = ""

	return entity.EventScoreRejected, nil
}

// Count - area score of the current position.
func (that *Game) Count() Score {
	return that.view().area(that.Komi)
}

func (that *Game) finishWithScore(reason entity.Event) {
	score := that.Count()
	that.Score = &score
	that.ScoreRequestBy = ""
	that.Undo = nil
	that.Conclude(score.Leader().seat(), reason)
}

// CaptureTally - stones captured by colour.
func (that *Game) CaptureTally(stone Stone) int {
	if stone == Black {
		return that.CapturedWhite
	}
	return that.CapturedBlack
}

func (that *Game) TurnSeat() entity.Seat {
	return that.Turn.seat()
}

func (that *Game) Due() entity.Due {
	return that.Match.Due(entity.KindGo, that.Turn.seat())
}

func (that *Game) Result() *entity.Result {
	return that.Match.Result(entity.KindGo)
}

// WinnerStone - colour of the winner, Empty on a tie or while playing.
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
