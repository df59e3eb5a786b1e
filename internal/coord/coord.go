// Package coord converts between board indices and the coordinates players type.
//
// Files are lettered left to right skipping "I", ranks are numbered from 1.
// Internally every board is a flat slice indexed y*width + x.
package coord

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
)

// Columns - file letters, "I" skipped.
const Columns = "ABCDEFGHJKLMNOPQRST"

// Column - returns the zero-based file for a letter.
func Column(letter rune) (int, bool) {
	idx := strings.IndexRune(Columns, unicode.ToUpper(letter))
	return idx, idx >= 0
}

// Label - formats a zero-based cell as "D4".
func Label(x, y int) string {
	if x < 0 || x >= len(Columns) {
		return fmt.Sprintf("%d,%d", x+1, y+1)
	}

	return fmt.Sprintf("%c%d", Columns[x], y+1)
}

// Index - flat index of (x, y) on a board of the given width.
func Index(x, y, width int) int {
	return y*width + x
}

// XY - inverse of Index.
func XY(idx, width int) (int, int) {
	return idx % width, idx / width
}

// ParseCell - parses "D4" or a "4,4" / "4 4" / "4-4" numeral pair into zero-based (x, y).
func ParseCell(raw string, width, height int) (int, int, error) {
	text := strings.ToUpper(strings.TrimSpace(raw))
	if text == "" {
		return 0, 0, apperror.ErrInvalidPosition
	}

	if x, y, ok := parseLettered(text); ok {
		if !InBounds(x, y, width, height) {
			return 0, 0, fmt.Errorf("%w: %s", apperror.ErrInvalidPosition, raw)
		}
		return x, y, nil
	}

	if x, y, ok := parseNumeralPair(text); ok {
		if !InBounds(x, y, width, height) {
			return 0, 0, fmt.Errorf("%w: %s", apperror.ErrInvalidPosition, raw)
		}
		return x, y, nil
	}

	return 0, 0, fmt.Errorf("%w: %s", apperror.ErrInvalidPosition, raw)
}

func InBounds(x, y, width, height int) bool {
	return x >= 0 && x < width && y >= 0 && y < height
}

func parseLettered(text string) (int, int, bool) {
	runes := []rune(text)
	if len(runes) < 2 {
		return 0, 0, false
	}

	x, ok := Column(runes[0])
	if !ok {
		return 0, 0, false
	}

	row, err := strconv.Atoi(string(runes[1:]))
	if err != nil {
		return 0, 0, false
	}

	return x, row - 1, true
}

func parseNumeralPair(text string) (int, int, bool) {
	for _, sep := range []string{",", "，", "-", " "} {
		if !strings.Contains(text, sep) {
			continue
		}

		parts := strings.Split(text, sep)
		if len(parts) != 2 {
			continue
		}

		x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
		y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errX != nil || errY != nil {
			continue
		}

		return x - 1, y - 1, true
	}

	return 0, 0, false
}

// SplitMove - splits "A1-A2", "A1>A2" or "A1A2" into its two cells.
// Without a separator the split happens at the second letter.
func SplitMove(raw string) (string, string, error) {
	text := strings.ToUpper(strings.Join(strings.Fields(raw), ""))

	for _, sep := range []string{"-", ">"} {
		if !strings.Contains(text, sep) {
			continue
		}

		parts := strings.Split(text, sep)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return "", "", fmt.Errorf("%w: %s", apperror.ErrInvalidNotation, raw)
		}

		return parts[0], parts[1], nil
	}

	// numeral pairs are ambiguous without a separator
	if strings.ContainsAny(text, ",，") {
		return "", "", fmt.Errorf("%w: %s", apperror.ErrInvalidNotation, raw)
	}

	for i, r := range text {
		if i > 0 && unicode.IsLetter(r) {
			return text[:i], text[i:], nil
		}
	}

	return "", "", fmt.Errorf("%w: %s", apperror.ErrInvalidNotation, raw)
}

var numerals = map[rune]int{
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
	'1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'０': 0, '１': 1, '２': 2, '３': 3, '４': 4, '５': 5, '６': 6, '７': 7, '８': 8, '９': 9,
}

// Numeral - value of a Chinese, ASCII or full-width digit.
func Numeral(r rune) (int, bool) {
	n, ok := numerals[r]
	return n, ok
}
