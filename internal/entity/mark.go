package entity

import (
	"errors"
	"fmt"
)

var ErrUnknownMark = errors.New("unknown mark")

// Mark is the content of a single board cell.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

func (that Mark) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	case Empty:
		return ""
	default:
		return fmt.Sprintf("Mark(%d)", uint8(that))
	}
}

// Opponent returns the mark that plays after this one. Empty has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (that Mark) IsPlayer() bool {
	return that == X || that == O
}

func (that Mark) MarshalText() ([]byte, error) {
	if that > O {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMark, uint8(that))
	}

	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "X", "x":
		*that = X
	case "O", "o":
		*that = O
	case "":
		*that = Empty
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMark, text)
	}

	return nil
}
