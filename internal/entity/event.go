package entity

import "time"

// Event - outcome code of a successful operation.
type Event string

const (
	EventCreated     Event = "created"
	EventJoined      Event = "joined"
	EventPlaced      Event = "placed"
	EventMoved       Event = "moved"
	EventWin         Event = "win"
	EventDraw        Event = "draw"
	EventSurrendered Event = "surrendered"
	EventTimedOut    Event = "timed_out"
	EventEnded       Event = "ended"
	EventSnapshot    Event = "snapshot"

	// go.
	EventPassed         Event = "passed"
	EventDoublePass     Event = "double_pass"
	EventUndone         Event = "undone"
	EventScoreRequested Event = "score_requested"
	EventScoreAgreed    Event = "score_agreed"
	EventScoreRejected  Event = "score_rejected"
	EventScoreEstimated Event = "score_estimated"

	// xiangqi.
	EventCheck     Event = "check"
	EventCheckmate Event = "checkmate"
	EventStalemate Event = "stalemate"

	// junqi.
	EventFlipped      Event = "flipped"
	EventBattleWon    Event = "battle_won"
	EventBattleLost   Event = "battle_lost"
	EventBattleDraw   Event = "battle_draw"
	EventFlagCaptured Event = "flag_captured"
)

// Notice - published record of a successful operation.
type Notice struct {
	Kind     Kind      `json:"kind"`
	Room     string    `json:"room"`
	Player   string    `json:"player,omitempty"`
	Event    Event     `json:"event"`
	Snapshot any       `json:"snapshot,omitempty"`
	At       time.Time `json:"at"`
}

// Result - archived outcome of a finished game.
type Result struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Room       string    `json:"room"`
	First      string    `json:"first"`
	Second     string    `json:"second"`
	Winner     string    `json:"winner,omitempty"`
	Draw       bool      `json:"draw"`
	Reason     Event     `json:"reason"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}

// Due - who a session is waiting on, as seen by the timeout watcher.
type Due struct {
	Kind     Kind   `json:"kind"`
	Room     string `json:"room"`
	Player   string `json:"player,omitempty"`
	Waiting  bool   `json:"waiting"`
	Finished bool   `json:"finished"`
	Moves    int    `json:"moves"`
}
