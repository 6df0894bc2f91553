package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func TestMetrics(t *testing.T) {
	t.Run("Counts accepted moves by mark", func(t *testing.T) {
		m := New(prometheus.NewRegistry())

		m.MoveAccepted(entity.X)
		m.MoveAccepted(entity.X)
		m.MoveAccepted(entity.O)

		assert.InDelta(t, 2, testutil.ToFloat64(m.MovesAccepted.WithLabelValues("X")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.MovesAccepted.WithLabelValues("O")), 0)
	})

	t.Run("Counts rejected moves by reason", func(t *testing.T) {
		m := New(prometheus.NewRegistry())

		m.MoveRejected(fmt.Errorf("failed to make turn: %w", apperror.ErrCellOccupied))
		m.MoveRejected(apperror.ErrGameOver)
		m.MoveRejected(apperror.ErrInvalidCoordinate)
		m.MoveRejected(apperror.ErrGameNotFound)

		assert.InDelta(t, 1, testutil.ToFloat64(m.MovesRejected.WithLabelValues(reasonCellOccupied)), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.MovesRejected.WithLabelValues(reasonGameOver)), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.MovesRejected.WithLabelValues(reasonInvalidCoordinate)), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.MovesRejected.WithLabelValues(reasonOther)), 0)
	})

	t.Run("Counts finished games and resets", func(t *testing.T) {
		m := New(prometheus.NewRegistry())

		m.GameFinished(entity.Win(entity.O, nil))
		m.GameFinished(entity.Draw())
		m.GameReset(true)
		m.GameReset(false)
		m.GameReset(false)

		assert.InDelta(t, 1, testutil.ToFloat64(m.GamesFinished.WithLabelValues("win_O")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.GamesFinished.WithLabelValues("draw")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.GamesReset.WithLabelValues("auto")), 0)
		assert.InDelta(t, 2, testutil.ToFloat64(m.GamesReset.WithLabelValues("manual")), 0)
	})
}
