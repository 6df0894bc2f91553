package tictactoe

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

// WinLines lists every line in the order it is checked: rows, then columns,
// then the main diagonal and the anti-diagonal. Only the first completed line
// is reported, so a move that completes a row and a column at once wins on the row.
var WinLines = [][3]entity.Cell{
	{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}},
	{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}},
	{{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2}},

	{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 2, Col: 0}},
	{{Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 2, Col: 1}},
	{{Row: 0, Col: 2}, {Row: 1, Col: 2}, {Row: 2, Col: 2}},

	{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}},
	{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 2, Col: 0}},
}

// evaluate scans the whole board, independent of the last move.
func evaluate(board *entity.Board) entity.Status {
	for _, line := range WinLines {
		a, b, c := board.At(line[0]), board.At(line[1]), board.At(line[2])
		if a != entity.Empty && a == b && b == c {
			return entity.Win(a, line[:])
		}
	}

	// the game will continue until all the squares are full
	if board.IsFull() {
		return entity.Draw()
	}

	return entity.InProgress()
}
