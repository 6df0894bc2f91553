package apperror

import "errors"

var (
	ErrInvalidCoordinate = errors.New("coordinate is out of range")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrGameOver          = errors.New("game is already over")

	ErrGameNotFound    = errors.New("game not found")
	ErrInvalidSnapshot = errors.New("invalid game snapshot")
)
