package entity

import (
	"errors"
	"fmt"
	"slices"
)

// BoardSize is the number of rows and columns on the board.
const BoardSize = 3

var ErrUnknownState = errors.New("unknown game state")

// Cell addresses a board square.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Cell) InBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

func (that Cell) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

// Board is indexed [row][col].
type Board [BoardSize][BoardSize]Mark

func (that Board) At(cell Cell) Mark {
	return that[cell.Row][cell.Col]
}

func (that Board) IsFull() bool {
	for _, row := range that {
		for _, mark := range row {
			if mark == Empty {
				return false
			}
		}
	}

	return true
}

// Count returns how many cells hold the given mark.
func (that Board) Count(mark Mark) int {
	n := 0
	for _, row := range that {
		for _, m := range row {
			if m == mark {
				n++
			}
		}
	}

	return n
}

type State uint8

const (
	StateInProgress State = iota
	StateWin
	StateDraw
)

const (
	stateInProgressText = "in_progress"
	stateWinText        = "win"
	stateDrawText       = "draw"
)

func (that State) String() string {
	switch that {
	case StateInProgress:
		return stateInProgressText
	case StateWin:
		return stateWinText
	case StateDraw:
		return stateDrawText
	default:
		return fmt.Sprintf("State(%d)", uint8(that))
	}
}

func (that State) MarshalText() ([]byte, error) {
	if that > StateDraw {
		return nil, fmt.Errorf("%w: %d", ErrUnknownState, uint8(that))
	}

	return []byte(that.String()), nil
}

func (that *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case stateInProgressText, "":
		*that = StateInProgress
	case stateWinText:
		*that = StateWin
	case stateDrawText:
		*that = StateDraw
	default:
		return fmt.Errorf("%w: %q", ErrUnknownState, text)
	}

	return nil
}

// Status is the outcome of the board evaluation. Winner and Line are only set
// when State is StateWin.
type Status struct {
	State  State  `json:"state"`
	Winner Mark   `json:"winner,omitempty"`
	Line   []Cell `json:"line,omitempty"`
}

func InProgress() Status {
	return Status{State: StateInProgress}
}

func Draw() Status {
	return Status{State: StateDraw}
}

func Win(winner Mark, line []Cell) Status {
	return Status{State: StateWin, Winner: winner, Line: slices.Clone(line)}
}

func (that Status) IsTerminal() bool {
	return that.State != StateInProgress
}

func (that Status) Equal(other Status) bool {
	return that.State == other.State && that.Winner == other.Winner && slices.Equal(that.Line, other.Line)
}

func (that Status) Clone() Status {
	that.Line = slices.Clone(that.Line)
	return that
}

// MoveResult describes an accepted move.
type MoveResult struct {
	Accepted bool   `json:"accepted"`
	Cell     Cell   `json:"cell"`
	Mark     Mark   `json:"mark"`
	Status   Status `json:"status"`
}

// Snapshot is a copy of everything an engine owns.
type Snapshot struct {
	Board  Board  `json:"board"`
	Turn   Mark   `json:"turn"`
	Status Status `json:"status"`
}

// Game is a snapshot addressed by ID, as kept by the live-state store.
type Game struct {
	ID string `json:"id"`
	Snapshot
}

func NewGame(id string) *Game {
	return &Game{
		ID: id,
		Snapshot: Snapshot{
			Turn:   X,
			Status: InProgress(),
		},
	}
}

func (that *Game) IsFinished() bool {
	return that.Status.IsTerminal()
}
