package rest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/metrics"
)

func TestHandler(t *testing.T) {
	t.Run("Ping", func(t *testing.T) {
		// When: /ping is requested
		rec := httptest.NewRecorder()
		Handler(prometheus.NewRegistry()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		// Then: pong is returned
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
	})

	t.Run("Metrics", func(t *testing.T) {
		// Given: a registry with one accepted move
		registry := prometheus.NewRegistry()
		metrics.New(registry).MoveAccepted(entity.O)

		// When: /metrics is requested
		rec := httptest.NewRecorder()
		Handler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		// Then: the counter is exposed
		require.Equal(t, http.StatusOK, rec.Code)
		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `tictactoe_moves_accepted_total{mark="O"} 1`)
	})
}
