package xiangqi

// Side - one of the two armies. Red moves first.
type Side int8

const (
	NoSide Side = iota
	Red
	Black
)

func (that Side) String() string {
	switch that {
	case Red:
		return "red"
	case Black:
		return "black"
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
	case "black":
		*that = Black
	default:
		*that = NoSide
	}
	return nil
}

func (that Side) Opponent() Side {
	switch that {
	case Red:
		return Black
	case Black:
		return Red
	default:
		return NoSide
	}
}

// Kind - piece type regardless of side.
type Kind int8

const (
	NoKind Kind = iota
	King
	Advisor
	Elephant
	Horse
	Chariot
	Cannon
	Soldier
)

// Piece - one of the fourteen side-specific pieces, or Empty.
type Piece int8

const (
	Empty Piece = iota
	RedKing
	RedAdvisor
	RedElephant
	RedHorse
	RedChariot
	RedCannon
	RedSoldier
	BlackKing
	BlackAdvisor
	BlackElephant
	BlackHorse
	BlackChariot
	BlackCannon
	BlackSoldier
)

const kindsPerSide = 7

var pieceNames = [...]string{
	Empty: "",
	RedKing: "帅", RedAdvisor: "仕", RedElephant: "相", RedHorse: "马",
	RedChariot: "车", RedCannon: "炮", RedSoldier: "兵",
	BlackKing: "将", BlackAdvisor: "士", BlackElephant: "象", BlackHorse: "馬",
	BlackChariot: "車", BlackCannon: "砲", BlackSoldier: "卒",
}

var pieceCodes = [...]string{
	Empty: "",
	RedKing: "RK", RedAdvisor: "RA", RedElephant: "RE", RedHorse: "RH",
	RedChariot: "RC", RedCannon: "RN", RedSoldier: "RS",
	BlackKing: "BK", BlackAdvisor: "BA", BlackElephant: "BE", BlackHorse: "BH",
	BlackChariot: "BC", BlackCannon: "BN", BlackSoldier: "BS",
}

func NewPiece(side Side, kind Kind) Piece {
	switch side {
	case Red:
		return Piece(kind)
	case Black:
		return Piece(kind) + kindsPerSide
	default:
		return Empty
	}
}

func (that Piece) Side() Side {
	switch {
	case that >= RedKing && that <= RedSoldier:
		return Red
	case that >= BlackKing && that <= BlackSoldier:
		return Black
	default:
		return NoSide
	}
}

func (that Piece) Kind() Kind {
	switch that.Side() {
	case Red:
		return Kind(that)
	case Black:
		return Kind(that - kindsPerSide)
	default:
		return NoKind
	}
}

// Name - traditional character of the piece.
func (that Piece) Name() string {
	if that < 0 || int(that) >= len(pieceNames) {
		return ""
	}
	return pieceNames[that]
}

func (that Piece) String() string {
	if that < 0 || int(that) >= len(pieceCodes) {
		return ""
	}
	return pieceCodes[that]
}

func (that Piece) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Piece) UnmarshalText(text []byte) error {
	*that = Empty
	for i, code := range pieceCodes {
		if code != "" && code == string(text) {
			*that = Piece(i)
		}
	}
	return nil
}
