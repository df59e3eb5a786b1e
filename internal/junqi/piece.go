package junqi

import "encoding/json"

// Side - army colour, unknown to the players until the first flip.
type Side int8

const (
	NoSide Side = iota
	Red
	Blue
)

func (that Side) String() string {
	switch that {
	case Red:
		return "red"
	case Blue:
		return "blue"
	default:
		return ""
	}
}

func (that Side) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "red":
		*that = Red
	case "blue":
		*that = Blue
	default:
		*that = NoSide
	}
	return nil
}

func (that Side) Opponent() Side {
	switch that {
	case Red:
		return Blue
	case Blue:
		return Red
	default:
		return NoSide
	}
}

// Name - "红方" / "蓝方".
func (that Side) Name() string {
	switch that {
	case Red:
		return "红方"
	case Blue:
		return "蓝方"
	default:
		return ""
	}
}

// Kind - military rank or special piece.
type Kind int8

const (
	NoKind Kind = iota
	Flag
	Mine
	Bomb
	Commander
	General
	Division
	Brigade
	Regiment
	Battalion
	Company
	Platoon
	Engineer
)

type kindInfo struct {
	code  string
	name  string
	rank  int
	count int
}

// Flag, mine and bomb have rank 0 and are resolved by special rules.
var kinds = [...]kindInfo{
	NoKind:    {},
	Flag:      {"flag", "军旗", 0, 1},
	Mine:      {"mine", "地雷", 0, 3},
	Bomb:      {"bomb", "炸弹", 0, 2},
	Commander: {"commander", "司令", 9, 1},
	General:   {"general", "军长", 8, 1},
	Division:  {"division", "师长", 7, 2},
	Brigade:   {"brigade", "旅长", 6, 2},
	Regiment:  {"regiment", "团长", 5, 2},
	Battalion: {"battalion", "营长", 4, 2},
	Company:   {"company", "连长", 3, 3},
	Platoon:   {"platoon", "排长", 2, 3},
	Engineer:  {"engineer", "工兵", 1, 3},
}

func (that Kind) info() kindInfo {
	if that < 0 || int(that) >= len(kinds) {
		return kindInfo{}
	}
	return kinds[that]
}

func (that Kind) String() string {
	return that.info().code
}

func (that Kind) Name() string {
	return that.info().name
}

func (that Kind) Rank() int {
	return that.info().rank
}

// Count - pieces of this kind in one army.
func (that Kind) Count() int {
	return that.info().count
}

// Immobile - flag and mine never move.
func (that Kind) Immobile() bool {
	return that == Flag || that == Mine
}

// Piece - a face-down or face-up piece. The zero value is an empty cell.
type Piece struct {
	Kind     Kind
	Side     Side
	Revealed bool
}

func (that Piece) IsEmpty() bool {
	return that.Kind == NoKind
}

func (that Piece) Name() string {
	return that.Kind.Name()
}

type pieceView struct {
	Type string `json:"type"`
	Kind string `json:"piece,omitempty"`
	Side Side   `json:"side,omitempty"`
	Name string `json:"name,omitempty"`
}

// MarshalJSON - face-down pieces expose nothing but their presence.
func (that Piece) MarshalJSON() ([]byte, error) {
	switch {
	case that.IsEmpty():
		return json.Marshal(pieceView{Type: "empty"})
	case !that.Revealed:
		return json.Marshal(pieceView{Type: "hidden"})
	default:
		return json.Marshal(pieceView{
			Type: "revealed",
			Kind: that.Kind.String(),
			Side: that.Side,
			Name: that.Name(),
		})
	}
}

// Outcome - result of a battle from the attacker's point of view.
type Outcome int8

const (
	AttackerWins Outcome = iota + 1
	DefenderWins
	BothRemoved
)

// Battle - bombs trade with anything, only engineers clear mines, anything takes the flag.
func Battle(attacker, defender Kind) Outcome {
	if attacker == Bomb || defender == Bomb {
		return BothRemoved
	}

	if defender == Mine {
		if attacker == Engineer {
			return AttackerWins
		}
		return BothRemoved
	}

	if defender == Flag {
		return AttackerWins
	}

	switch {
	case attacker.Rank() > defender.Rank():
		return AttackerWins
	case attacker.Rank() < defender.Rank():
		return DefenderWins
	default:
		return BothRemoved
	}
}
