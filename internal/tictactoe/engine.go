package tictactoe

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Engine owns one board, the current turn and the game status.
// All methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	board  entity.Board
	turn   entity.Mark
	status entity.Status
}

func NewEngine() *Engine {
	engine := &Engine{}
	engine.reset()

	return engine
}

// Play places the current turn's mark on (row, col).
func (that *Engine) Play(row, col int) (entity.MoveResult, error) {
	cell := entity.Cell{Row: row, Col: col}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.validateMove(cell); err != nil {
		return entity.MoveResult{}, err
	}

	mark := that.turn
	that.board[cell.Row][cell.Col] = mark
	that.turn = mark.Opponent()
	that.status = evaluate(&that.board)

	return entity.MoveResult{
		Accepted: true,
		Cell:     cell,
		Mark:     mark,
		Status:   that.status.Clone(),
	}, nil
}

// validateMove - checks the move preconditions in order: bounds, terminal state, occupancy.
func (that *Engine) validateMove(cell entity.Cell) error {
	if !cell.InBounds() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidCoordinate, cell)
	}

	if that.status.IsTerminal() {
		return apperror.ErrGameOver
	}

	if that.board.At(cell) != entity.Empty {
		return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, cell)
	}

	return nil
}

// Reset starts a new game. It may be called at any time.
func (that *Engine) Reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.reset()
}

func (that *Engine) reset() {
	that.board = entity.Board{}
	that.turn = entity.X
	that.status = entity.InProgress()
}

func (that *Engine) CellAt(row, col int) (entity.Mark, error) {
	cell := entity.Cell{Row: row, Col: col}
	if !cell.InBounds() {
		return entity.Empty, fmt.Errorf("%w: %s", apperror.ErrInvalidCoordinate, cell)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board.At(cell), nil
}

func (that *Engine) CurrentTurn() entity.Mark {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.turn
}

func (that *Engine) Status() entity.Status {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status.Clone()
}

// Board returns a copy of the board.
func (that *Engine) Board() entity.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board
}

func (that *Engine) Snapshot() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return entity.Snapshot{
		Board:  that.board,
		Turn:   that.turn,
		Status: that.status.Clone(),
	}
}

// Restore replaces the engine state with a snapshot. The snapshot must be
// reachable by legal play: X moves first, turns alternate, the status
// matches what evaluating the board reports and a winner made the last move.
func (that *Engine) Restore(snapshot entity.Snapshot) error {
	if err := validateSnapshot(&snapshot); err != nil {
		return err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.board = snapshot.Board
	that.turn = snapshot.Turn
	that.status = snapshot.Status.Clone()

	return nil
}

func validateSnapshot(snapshot *entity.Snapshot) error {
	for _, row := range snapshot.Board {
		for _, mark := range row {
			if mark > entity.O {
				return fmt.Errorf("%w: %w", apperror.ErrInvalidSnapshot, entity.ErrUnknownMark)
			}
		}
	}

	xCount, oCount := snapshot.Board.Count(entity.X), snapshot.Board.Count(entity.O)

	var expectedTurn entity.Mark
	switch xCount - oCount {
	case 0:
		expectedTurn = entity.X
	case 1:
		expectedTurn = entity.O
	default:
		return fmt.Errorf("%w: %d X marks against %d O marks", apperror.ErrInvalidSnapshot, xCount, oCount)
	}

	if snapshot.Turn != expectedTurn {
		return fmt.Errorf("%w: turn %q, expected %q", apperror.ErrInvalidSnapshot, snapshot.Turn, expectedTurn)
	}

	status := evaluate(&snapshot.Board)
	if !status.Equal(snapshot.Status) {
		return fmt.Errorf("%w: status %s does not match board (%s)", apperror.ErrInvalidSnapshot, snapshot.Status.State, status.State)
	}

	// play stops at the first win, so the winner made the last move
	if status.State == entity.StateWin && status.Winner != expectedTurn.Opponent() {
		return fmt.Errorf("%w: %s won but %s moved last", apperror.ErrInvalidSnapshot, status.Winner, expectedTurn.Opponent())
	}

	return nil
}
