package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const emptySymbol = "."

// Board writes the board as three text rows. Cells on the winning line are
// wrapped in brackets, other cells in spaces, so columns stay aligned.
func Board(w io.Writer, board entity.Board, status entity.Status) error {
	var sb strings.Builder

	for row := range entity.BoardSize {
		for col := range entity.BoardSize {
			cell := entity.Cell{Row: row, Col: col}

			symbol := board.At(cell).String()
			if symbol == "" {
				symbol = emptySymbol
			}

			if status.State == entity.StateWin && slices.Contains(status.Line, cell) {
				sb.WriteString("[" + symbol + "]")
			} else {
				sb.WriteString(" " + symbol + " ")
			}
		}

		sb.WriteString("\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write board: %w", err)
	}

	return nil
}

// Outcome describes a status in one line.
func Outcome(status entity.Status, turn entity.Mark) string {
	switch status.State {
	case entity.StateWin:
		return fmt.Sprintf("%s wins", status.Winner)
	case entity.StateDraw:
		return "draw"
	case entity.StateInProgress:
		return fmt.Sprintf("%s to move", turn)
	default:
		return status.State.String()
	}
}
