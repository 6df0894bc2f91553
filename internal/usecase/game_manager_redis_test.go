package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func TestGameManager_Redis(t *testing.T) {
	ctx, st := suite.New(t)

	spy := &recorderSpy{}
	manager := NewGameManager(st.Logger, repository.NewGameRepository(st.Storage, time.Minute), spy, 50*time.Millisecond)
	t.Cleanup(manager.Stop)

	resets := make(chan *entity.Game, 1)
	manager.OnAutoReset(func(game *entity.Game) {
		resets <- game
	})

	// Given: a game stored in redis
	game, err := manager.NewGame(ctx)
	require.NoError(t, err)

	// When: X wins on the main diagonal
	result := playMoves(ctx, t, manager, game.ID, 0, 0, 0, 1, 1, 1, 0, 2, 2, 2)

	// Then: the finished game is stored
	require.Equal(t, entity.StateWin, result.Status.State)

	stored, err := manager.Game(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.X, stored.Status.Winner)
	assert.Equal(t, result.Status.Line, stored.Status.Line)

	// And: the auto-reset clears it in redis
	select {
	case reset := <-resets:
		assert.Equal(t, game.ID, reset.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("auto-reset did not fire")
	}

	stored, err = manager.Game(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.Board{}, stored.Board)
	assert.Equal(t, entity.X, stored.Turn)
}
