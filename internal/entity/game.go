package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

// Kind - names one of the hosted games.
type Kind string

const (
	KindTicTacToe Kind = "tictactoe"
	KindGomoku    Kind = "gomoku"
	KindGo        Kind = "go"
	KindXiangqi   Kind = "xiangqi"
	KindJunqi     Kind = "junqi"
)

// Kinds - every hosted game, in menu order.
var Kinds = []Kind{KindTicTacToe, KindGo, KindXiangqi, KindGomoku, KindJunqi}

var ErrUnknownGameStatus = errors.New("unknown game status")

// Match - seat and lifecycle bookkeeping shared by every game session.
type Match struct {
	Room   string `json:"room"`
	First  string `json:"first"`
	Second string `json:"second,omitempty"`
	Status string `json:"status"`
	Moves  int    `json:"moves"`
	Winner Seat   `json:"winner,omitempty"`
	Reason Event  `json:"reason,omitempty"`
}

func NewMatch(room, first string) Match {
	return Match{
		Room:   room,
		First:  first,
		Status: StatusWaiting,
	}
}

// Join - binds the second seat and starts the game.
func (that *Match) Join(player string) error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.Second != "":
		return apperror.ErrGameIsFull
	case that.First == player:
		return apperror.ErrAlreadyInGame
	}

	that.Second = player
	that.Status = StatusOngoing

	return nil
}

// SeatOf - returns the seat bound to player, or SeatNone.
func (that *Match) SeatOf(player string) Seat {
	switch {
	case player == "":
		return SeatNone
	case player == that.First:
		return SeatFirst
	case player == that.Second:
		return SeatSecond
	default:
		return SeatNone
	}
}

// Player - returns the identifier bound to seat.
func (that *Match) Player(seat Seat) string {
	switch seat {
	case SeatFirst:
		return that.First
	case SeatSecond:
		return that.Second
	default:
		return ""
	}
}

func (that *Match) IsParticipant(player string) bool {
	return that.SeatOf(player) != SeatNone
}

func (that *Match) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Match) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Match) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Match) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// ConfirmTurn - the game must be ongoing and player must hold the turn.
func (that *Match) ConfirmTurn(player string, turn Seat) error {
	if err := that.ConfirmOngoingState(); err != nil {
		return err
	}

	if that.SeatOf(player) != turn {
		return apperror.ErrNotYourTurn
	}

	return nil
}

// Resign - finishes the game for player and returns the winning seat.
// The winner is SeatNone when nobody has joined yet.
func (that *Match) Resign(player string) (Seat, error) {
	if that.IsFinished() {
		return SeatNone, apperror.ErrGameFinished
	}

	seat := that.SeatOf(player)
	if seat == SeatNone {
		return SeatNone, apperror.ErrNotParticipant
	}

	winner := seat.Other()
	if that.Player(winner) == "" {
		winner = SeatNone
	}

	that.Conclude(winner, EventSurrendered)

	return winner, nil
}

// Conclude - finishes the game. winner is SeatNone on a draw.
func (that *Match) Conclude(winner Seat, reason Event) {
	that.Status = StatusFinished
	that.Winner = winner
	that.Reason = reason
}

func (that *Match) Finish() {
	that.Status = StatusFinished
}

// Due - reports who the session is waiting on.
func (that *Match) Due(kind Kind, turn Seat) Due {
	due := Due{
		Kind:  kind,
		Room:  that.Room,
		Moves: that.Moves,
	}

	switch {
	case that.IsFinished():
		due.Finished = true
	case that.IsWaiting():
		due.Waiting = true
	default:
		due.Player = that.Player(turn)
	}

	return due
}

// Result - archive record for a finished game.
func (that *Match) Result(kind Kind) *Result {
	result := &Result{
		Kind:   kind,
		Room:   that.Room,
		First:  that.First,
		Second: that.Second,
		Reason: that.Reason,
		Moves:  that.Moves,
	}

	if that.Winner == SeatNone {
		result.Draw = true
	} else {
		result.Winner = that.Player(that.Winner)
	}

	return result
}
