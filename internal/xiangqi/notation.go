package xiangqi

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/coord"
)

type marker int8

const (
	noMarker marker = iota
	front
	back
	middle
)

type action int8

const (
	forward action = iota + 1
	backward
	lateral
)

// 後 and 后 both mean "back" as a leading marker; 后 elsewhere means backward.
var markers = map[rune]marker{
	'前': front,
	'後': back,
	'后': back,
	'中': middle,
}

var actions = map[rune]action{
	'进': forward,
	'進': forward,
	'退': backward,
	'后': backward,
	'平': lateral,
}

// 仕 is shared by both advisors, the other characters name one side only.
var pieceChars = map[rune][]Piece{
	'帅': {RedKing}, '帥': {RedKing}, '仕': {RedAdvisor, BlackAdvisor}, '相': {RedElephant},
	'马': {RedHorse}, '傌': {RedHorse}, '车': {RedChariot}, '俥': {RedChariot},
	'炮': {RedCannon}, '包': {RedCannon}, '兵': {RedSoldier},
	'将': {BlackKing}, '士': {BlackAdvisor}, '象': {BlackElephant}, '馬': {BlackHorse},
	'車': {BlackChariot}, '砲': {BlackCannon}, '卒': {BlackSoldier},
}

// ParseMove - turns "H3-E3", "H3>E3", "H3E3", "8,3-5,3" or "炮二平五" into board indices.
// Chinese notation is read from the point of view of side.
func (that *Board) ParseMove(raw string, side Side) (int, int, error) {
	text := strings.Join(strings.Fields(raw), "")
	if text == "" {
		return 0, 0, apperror.ErrInvalidNotation
	}

	from, to, err := parseCoordinateMove(text)
	if err == nil {
		return from, to, nil
	}

	if strings.ContainsAny(text, "->") {
		return 0, 0, err
	}

	if from, to, ok := that.parseChinese([]rune(text), side); ok {
		return from, to, nil
	}

	return 0, 0, fmt.Errorf("%w: %s", apperror.ErrInvalidNotation, raw)
}

func parseCoordinateMove(text string) (int, int, error) {
	first, second, err := coord.SplitMove(text)
	if err != nil {
		return 0, 0, err
	}

	from, err := parseCell(first)
	if err != nil {
		return 0, 0, err
	}

	to, err := parseCell(second)
	if err != nil {
		return 0, 0, err
	}

	return from, to, nil
}

// parseCell - "E1" or "5,1"; "I" names the ninth file like "J".
func parseCell(text string) (int, error) {
	x, y, err := coord.ParseCell(strings.ReplaceAll(text, "I", "J"), Cols, Rows)
	if err != nil {
		return 0, err
	}

	return coord.Index(x, y, Cols), nil
}

// fileColumn - side-relative file numeral to a board column.
func fileColumn(n int, side Side) int {
	if side == Red {
		return Cols - n
	}
	return n - 1
}

func (that *Board) parseChinese(runes []rune, side Side) (int, int, bool) {
	mark := noMarker
	if m, ok := markers[runes[0]]; ok && len(runes) >= 4 {
		mark = m
		runes = runes[1:]
	}

	var (
		pieceRune rune
		fileRune  rune
		hasFile   bool
	)

	switch {
	case len(runes) == 4:
		pieceRune, fileRune, hasFile = runes[0], runes[1], true
	case len(runes) == 3 && mark != noMarker:
		pieceRune = runes[0]
	default:
		return 0, 0, false
	}

	tail := runes[len(runes)-2:]

	act, ok := actions[tail[0]]
	if !ok {
		return 0, 0, false
	}

	target, ok := coord.Numeral(tail[1])
	if !ok {
		return 0, 0, false
	}

	var allowed []Piece
	for _, piece := range pieceChars[pieceRune] {
		if piece.Side() == side {
			allowed = append(allowed, piece)
		}
	}

	if len(allowed) == 0 {
		return 0, 0, false
	}

	fromCol := -1
	if hasFile {
		n, ok := coord.Numeral(fileRune)
		if !ok {
			return 0, 0, false
		}
		fromCol = fileColumn(n, side)
	}

	from, ok := that.pickCandidate(allowed, fromCol, mark, side)
	if !ok {
		return 0, 0, false
	}

	to, ok := that.targetOf(from, act, target, side)
	if !ok {
		return 0, 0, false
	}

	return from, to, true
}

// pickCandidate - locates the moving piece. A negative column means the file was
// omitted, which is only resolvable when exactly one file holds several such pieces.
func (that *Board) pickCandidate(allowed []Piece, col int, mark marker, side Side) (int, bool) {
	byCol := make(map[int][]int)
	for pos, piece := range that {
		if slices.Contains(allowed, piece) {
			_, c := rowCol(pos)
			byCol[c] = append(byCol[c], pos)
		}
	}

	if col < 0 {
		for c, positions := range byCol {
			if len(positions) < 2 {
				continue
			}
			if col >= 0 {
				return 0, false
			}
			col = c
		}
	}

	candidates := byCol[col]
	if len(candidates) == 0 {
		return 0, false
	}

	if len(candidates) == 1 {
		return candidates[0], true
	}

	// front is the piece nearest the opponent
	slices.SortFunc(candidates, func(a, b int) int {
		if side == Red {
			return b - a
		}
		return a - b
	})

	switch {
	case mark == front:
		return candidates[0], true
	case mark == back:
		return candidates[len(candidates)-1], true
	case mark == middle && len(candidates) >= 3:
		return candidates[len(candidates)/2], true
	default:
		return 0, false
	}
}

func (that *Board) targetOf(from int, act action, n int, side Side) (int, bool) {
	row, col := rowCol(from)

	ahead := 1
	if side == Black {
		ahead = -1
	}
	if act == backward {
		ahead = -ahead
	}

	var toRow, toCol int

	switch kind := that[from].Kind(); {
	case act == lateral:
		toRow, toCol = row, fileColumn(n, side)

	case kind == King || kind == Chariot || kind == Cannon || kind == Soldier:
		toRow, toCol = row+ahead*n, col

	default:
		toCol = fileColumn(n, side)

		var dr int
		switch dc := abs(toCol - col); {
		case kind == Horse && dc == 1:
			dr = 2
		case kind == Horse && dc == 2:
			dr = 1
		case kind == Elephant && dc == 2:
			dr = 2
		case kind == Advisor && dc == 1:
			dr = 1
		default:
			return 0, false
		}

		toRow = row + ahead*dr
	}

	if !onBoard(toRow, toCol) {
		return 0, false
	}

	return index(toRow, toCol), true
}
