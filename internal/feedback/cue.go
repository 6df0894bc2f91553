// Package feedback maps move outcomes to the sound cues a client plays.
package feedback

import (
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type Cue string

const (
	CueNone     Cue = ""
	CuePopX     Cue = "pop"
	CuePopO     Cue = "pop2"
	CueWin      Cue = "ding"
	CueDraw     Cue = "snap"
	CueReset    Cue = "page_flip"
	CueRejected Cue = "rejected"
)

// ForMove returns the cue for the outcome of a play call. A rejected move
// (err != nil) always maps to CueRejected. A move that ends the game yields
// only CueWin or CueDraw; clients that want the placement pop before it pick
// CuePopX or CuePopO from result.Mark themselves.
func ForMove(result entity.MoveResult, err error) Cue {
	if err != nil {
		return CueRejected
	}

	if !result.Accepted {
		return CueNone
	}

	switch {
	case result.Status.State == entity.StateWin:
		return CueWin
	case result.Status.State == entity.StateDraw:
		return CueDraw
	case result.Mark == entity.O:
		return CuePopO
	default:
		return CuePopX
	}
}

// ForReset returns the cue for a board being cleared. The initial board is silent.
func ForReset(initial bool) Cue {
	if initial {
		return CueNone
	}

	return CueReset
}
