package command

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

var (
	tictactoeCell = regexp.MustCompile(`^[1-9]$`)
	boardCell     = regexp.MustCompile(`^(?i:[A-HJ-T])\d{1,2}$|^\d{1,2}\s*[,，\s]\s*\d{1,2}$`)
	xiangqiPair   = regexp.MustCompile(`^(?i:[A-J])(?:10|[1-9])\s*[->]?\s*(?i:[A-J])(?:10|[1-9])$`)
	junqiCell     = regexp.MustCompile(`^(?i:[A-F])(?:10|[1-9])$`)
	junqiPair     = regexp.MustCompile(`^(?i:[A-F])(?:10|[1-9])\s*[->]?\s*(?i:[A-F])(?:10|[1-9])$`)
)

// xiangqiLead - runes that may open a Chinese notation move.
const xiangqiLead = "车俥马傌相仕帅帥炮包兵将士象馬車砲卒前后後中"

// matchShortcut - command that bare text stands for in a game of kind.
func matchShortcut(kind entity.Kind, text string) (string, bool) {
	switch kind {
	case entity.KindTicTacToe:
		return "下棋", tictactoeCell.MatchString(text)
	case entity.KindGomoku:
		return "五子", boardCell.MatchString(text)
	case entity.KindGo:
		return "落子", boardCell.MatchString(text)
	case entity.KindXiangqi:
		return "走棋", xiangqiPair.MatchString(text) || chineseMove(text)
	case entity.KindJunqi:
		if junqiCell.MatchString(text) {
			return "翻", true
		}
		return "军", junqiPair.MatchString(text)
	}

	return "", false
}

func chineseMove(text string) bool {
	n := utf8.RuneCountInString(text)
	if n != 4 && n != 5 {
		return false
	}

	lead, _ := utf8.DecodeRuneInString(text)

	return strings.ContainsRune(xiangqiLead, lead)
}
