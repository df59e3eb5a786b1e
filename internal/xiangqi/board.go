package xiangqi

const (
	Cols  = 9
	Rows  = 10
	Cells = Cols * Rows
)

// Board - row 0 is red's back rank, index = row*9 + col.
type Board [Cells]Piece

// NewBoard - standard opening layout.
func NewBoard() Board {
	var board Board

	backRank := [Cols]Kind{Chariot, Horse, Elephant, Advisor, King, Advisor, Elephant, Horse, Chariot}
	for col, kind := range backRank {
		board[index(0, col)] = NewPiece(Red, kind)
		board[index(9, col)] = NewPiece(Black, kind)
	}

	for _, col := range []int{1, 7} {
		board[index(2, col)] = RedCannon
		board[index(7, col)] = BlackCannon
	}

	for _, col := range []int{0, 2, 4, 6, 8} {
		board[index(3, col)] = RedSoldier
		board[index(6, col)] = BlackSoldier
	}

	return board
}

func index(row, col int) int {
	return row*Cols + col
}

func rowCol(pos int) (int, int) {
	return pos / Cols, pos % Cols
}

func onBoard(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

func inPalace(row, col int, side Side) bool {
	if col < 3 || col > 5 {
		return false
	}

	if side == Red {
		return row >= 0 && row <= 2
	}

	return row >= 7 && row <= 9
}

func acrossRiver(row int, side Side) bool {
	if side == Red {
		return row >= 5
	}

	return row <= 4
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// between - pieces strictly between two cells on one rank or file.
func (that *Board) between(from, to int) int {
	fromRow, fromCol := rowCol(from)
	toRow, toCol := rowCol(to)

	if fromRow != toRow && fromCol != toCol {
		return 0
	}

	stepRow, stepCol := sign(toRow-fromRow), sign(toCol-fromCol)

	count := 0
	for row, col := fromRow+stepRow, fromCol+stepCol; row != toRow || col != toCol; row, col = row+stepRow, col+stepCol {
		if that[index(row, col)] != Empty {
			count++
		}
	}

	return count
}

// validPieceMove - geometry, screening and river/palace rules, ignoring check.
func (that *Board) validPieceMove(from, to int) bool {
	piece := that[from]
	if piece == Empty || from == to {
		return false
	}

	target := that[to]
	side := piece.Side()
	if target != Empty && target.Side() == side {
		return false
	}

	fromRow, fromCol := rowCol(from)
	toRow, toCol := rowCol(to)
	dr, dc := toRow-fromRow, toCol-fromCol

	switch piece.Kind() {
	case King:
		return inPalace(toRow, toCol, side) && abs(dr)+abs(dc) == 1

	case Advisor:
		return inPalace(toRow, toCol, side) && abs(dr) == 1 && abs(dc) == 1

	case Elephant:
		if acrossRiver(toRow, side) || abs(dr) != 2 || abs(dc) != 2 {
			return false
		}
		return that[index(fromRow+dr/2, fromCol+dc/2)] == Empty

	case Horse:
		switch {
		case abs(dr) == 2 && abs(dc) == 1:
			return that[index(fromRow+sign(dr), fromCol)] == Empty
		case abs(dr) == 1 && abs(dc) == 2:
			return that[index(fromRow, fromCol+sign(dc))] == Empty
		default:
			return false
		}

	case Chariot:
		if dr != 0 && dc != 0 {
			return false
		}
		return that.between(from, to) == 0

	case Cannon:
		if dr != 0 && dc != 0 {
			return false
		}
		if target == Empty {
			return that.between(from, to) == 0
		}
		return that.between(from, to) == 1

	case Soldier:
		forward := 1
		if side == Black {
			forward = -1
		}

		if dr == forward && dc == 0 {
			return true
		}
		return acrossRiver(fromRow, side) && dr == 0 && abs(dc) == 1

	default:
		return false
	}
}

func (that *Board) findKing(side Side) (int, bool) {
	king := NewPiece(side, King)
	for pos, piece := range that {
		if piece == king {
			return pos, true
		}
	}

	return 0, false
}

// kingsFacing - both kings on one file with nothing between.
func (that *Board) kingsFacing() bool {
	red, okRed := that.findKing(Red)
	black, okBlack := that.findKing(Black)
	if !okRed || !okBlack {
		return false
	}

	_, redCol := rowCol(red)
	_, blackCol := rowCol(black)
	if redCol != blackCol {
		return false
	}

	return that.between(red, black) == 0
}

// inCheck - a missing king counts as check.
func (that *Board) inCheck(side Side) bool {
	king, ok := that.findKing(side)
	if !ok {
		return true
	}

	opponent := side.Opponent()
	for pos, piece := range that {
		if piece.Side() == opponent && that.validPieceMove(pos, king) {
			return true
		}
	}

	return that.kingsFacing()
}

// exposes - applies from->to, reports whether side is left in check, and restores.
func (that *Board) exposes(side Side, from, to int) bool {
	piece, captured := that[from], that[to]
	that[to] = piece
	that[from] = Empty

	exposed := that.inCheck(side) || that.kingsFacing()

	that[from] = piece
	that[to] = captured

	return exposed
}

// hasLegalMove - exhaustive trial of every pseudo-legal move for side.
func (that *Board) hasLegalMove(side Side) bool {
	for from, piece := range that {
		if piece.Side() != side {
			continue
		}

		for to := range Cells {
			if that.validPieceMove(from, to) && !that.exposes(side, from, to) {
				return true
			}
		}
	}

	return false
}
