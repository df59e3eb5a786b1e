package weiqi

import "github.com/rocketscienceinc/boardgame-backend/internal/coord"

// Stone - content of a go intersection.
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

func (that Stone) Opponent() Stone {
	switch that {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// board - read/write view over a square go board.
type board struct {
	size  int
	cells []Stone
}

func (that board) neighbors(pos int) []int {
	x, y := coord.XY(pos, that.size)

	result := make([]int, 0, 4)
	if x > 0 {
		result = append(result, pos-1)
	}
	if x < that.size-1 {
		result = append(result, pos+1)
	}
	if y > 0 {
		result = append(result, pos-that.size)
	}
	if y < that.size-1 {
		result = append(result, pos+that.size)
	}

	return result
}

// group - maximal same-colour chain containing pos.
func (that board) group(pos int) []int {
	stone := that.cells[pos]
	if stone == Empty {
		return nil
	}

	seen := map[int]bool{pos: true}
	stack := []int{pos}
	var chain []int

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		chain = append(chain, current)

		for _, n := range that.neighbors(current) {
			if !seen[n] && that.cells[n] == stone {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}

	return chain
}

// liberties - distinct empty points adjacent to the chain.
func (that board) liberties(chain []int) int {
	libs := make(map[int]struct{})
	for _, pos := range chain {
		for _, n := range that.neighbors(pos) {
			if that.cells[n] == Empty {
				libs[n] = struct{}{}
			}
		}
	}

	return len(libs)
}

func (that board) remove(chain []int) int {
	for _, pos := range chain {
		that.cells[pos] = Empty
	}

	return len(chain)
}

// key - exact textual encoding of the position.
func (that board) key() string {
	buf := make([]byte, len(that.cells))
	for i, stone := range that.cells {
		switch stone {
		case Black:
			buf[i] = 'B'
		case White:
			buf[i] = 'W'
		default:
			buf[i] = '.'
		}
	}

	return string(buf)
}

// Score - area count under Chinese rules.
type Score struct {
	BlackStones    int     `json:"black_stones"`
	WhiteStones    int     `json:"white_stones"`
	BlackTerritory int     `json:"black_territory"`
	WhiteTerritory int     `json:"white_territory"`
	Komi           float64 `json:"komi"`
	Black          float64 `json:"black"`
	White          float64 `json:"white"`
}

// Leader - colour with the strictly higher score, Empty on a tie.
func (that Score) Leader() Stone {
	switch {
	case that.Black > that.White:
		return Black
	case that.White > that.Black:
		return White
	default:
		return Empty
	}
}

// area - counts stones and single-colour bordered empty regions.
func (that board) area(komi float64) Score {
	score := Score{Komi: komi}

	for _, stone := range that.cells {
		switch stone {
		case Black:
			score.BlackStones++
		case White:
			score.WhiteStones++
		}
	}

	visited := make([]bool, len(that.cells))
	for start, stone := range that.cells {
		if stone != Empty || visited[start] {
			continue
		}

		region := 0
		var touchesBlack, touchesWhite bool
		stack := []int{start}
		visited[start] = true

		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			region++

			for _, n := range that.neighbors(current) {
				switch that.cells[n] {
				case Black:
					touchesBlack = true
				case White:
					touchesWhite = true
				default:
					if !visited[n] {
						visited[n] = true
						stack = append(stack, n)
					}
				}
			}
		}

		switch {
		case touchesBlack && !touchesWhite:
			score.BlackTerritory += region
		case touchesWhite && !touchesBlack:
			score.WhiteTerritory += region
		}
	}

	score.Black = float64(score.BlackStones + score.BlackTerritory)
	score.White = float64(score.WhiteStones+score.WhiteTerritory) + komi

	return score
}
