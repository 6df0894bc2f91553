package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const namespace = "tictactoe"

const (
	reasonInvalidCoordinate = "invalid_coordinate"
	reasonCellOccupied      = "cell_occupied"
	reasonGameOver          = "game_over"
	reasonOther             = "other"
)

// Metrics holds the game counters. Use New with a dedicated registry in tests.
type Metrics struct {
	MovesAccepted *prometheus.CounterVec
	MovesRejected *prometheus.CounterVec
	GamesFinished *prometheus.CounterVec
	GamesReset    *prometheus.CounterVec
}

func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		MovesAccepted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "moves_accepted_total",
				Help:      "Total accepted moves by mark",
			},
			[]string{"mark"},
		),
		MovesRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "moves_rejected_total",
				Help:      "Total rejected moves by reason",
			},
			[]string{"reason"},
		),
		GamesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "games_finished_total",
				Help:      "Total finished games by outcome",
			},
			[]string{"outcome"},
		),
		GamesReset: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "games_reset_total",
				Help:      "Total board resets by trigger",
			},
			[]string{"trigger"},
		),
	}

	registerer.MustRegister(m.MovesAccepted, m.MovesRejected, m.GamesFinished, m.GamesReset)

	return m
}

func (that *Metrics) MoveAccepted(mark entity.Mark) {
	that.MovesAccepted.WithLabelValues(mark.String()).Inc()
}

func (that *Metrics) MoveRejected(err error) {
	that.MovesRejected.WithLabelValues(rejectReason(err)).Inc()
}

func (that *Metrics) GameFinished(status entity.Status) {
	outcome := status.State.String()
	if status.State == entity.StateWin {
		outcome += "_" + status.Winner.String()
	}

	that.GamesFinished.WithLabelValues(outcome).Inc()
}

func (that *Metrics) GameReset(auto bool) {
	trigger := "manual"
	if auto {
		trigger = "auto"
	}

	that.GamesReset.WithLabelValues(trigger).Inc()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, apperror.ErrInvalidCoordinate):
		return reasonInvalidCoordinate
	case errors.Is(err, apperror.ErrCellOccupied):
		return reasonCellOccupied
	case errors.Is(err, apperror.ErrGameOver):
		return reasonGameOver
	default:
		return reasonOther
	}
}
