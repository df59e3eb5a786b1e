package entity

// Seat - one of the two player slots of a session.
type Seat int8

const (
	SeatNone Seat = iota
	SeatFirst
	SeatSecond
)

func (that Seat) Other() Seat {
	switch that {
	case SeatFirst:
		return SeatSecond
	case SeatSecond:
		return SeatFirst
	default:
		return SeatNone
	}
}

func (that Seat) String() string {
	switch that {
	case SeatFirst:
		return "first"
	case SeatSecond:
		return "second"
	default:
		return "none"
	}
}

func (that Seat) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Seat) UnmarshalText(text []byte) error {
	switch string(text) {
	case "first":
		*that = SeatFirst
	case "second":
		*that = SeatSecond
	default:
		*that = SeatNone
	}
	return nil
}

// Record - a player's archived results, optionally for one kind.
type Record struct {
	Player string `json:"player"`
	Kind   Kind   `json:"kind,omitempty"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}

func (that Record) Played() int {
	return that.Wins + that.Losses + that.Draws
}
