package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const autoResetTimeout = 5 * time.Second

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type recorder interface {
	MoveAccepted(mark entity.Mark)
	MoveRejected(err error)
	GameFinished(status entity.Status)
	GameReset(auto bool)
}

// gameLock is dropped from the manager once no caller holds or waits for it.
type gameLock struct {
	mu   sync.Mutex
	refs int
}

// ResetListener is told about boards cleared by the auto-reset timer.
type ResetListener func(game *entity.Game)

// GameManager runs independent games kept in a repository. Calls on the same
// game are serialized, so load, play and save happen as one step.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	recorder recorder

	autoResetDelay time.Duration

	locksMutex sync.Mutex
	locks      map[string]*gameLock

	timersMutex sync.Mutex
	timers      map[string]*time.Timer

	listenerMutex sync.RWMutex
	listener      ResetListener
}

// NewGameManager creates a manager. A positive autoResetDelay clears finished
// boards after that delay; zero leaves them until Reset is called.
func NewGameManager(logger *slog.Logger, gameRepo gameRepo, recorder recorder, autoResetDelay time.Duration) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
		recorder: recorder,

		autoResetDelay: autoResetDelay,

		locks:  make(map[string]*gameLock),
		timers: make(map[string]*time.Timer),
	}
}

func (that *GameManager) OnAutoReset(listener ResetListener) {
	that.listenerMutex.Lock()
	defer that.listenerMutex.Unlock()

	that.listener = listener
}

func (that *GameManager) NewGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "method", "NewGame", "gameID", game.ID)

	return game, nil
}

func (that *GameManager) Game(ctx context.Context, gameID string) (*entity.Game, error) {
	unlock := that.lockGame(gameID)
	defer unlock()

	return that.getGameByID(ctx, gameID)
}

// Play makes the current turn's move in the game. Rejected moves wrap one of
// apperror.ErrInvalidCoordinate, apperror.ErrGameOver or apperror.ErrCellOccupied
// and return the unchanged game.
func (that *GameManager) Play(ctx context.Context, gameID string, row, col int) (*entity.Game, entity.MoveResult, error) {
	log := that.logger.With("method", "Play", "gameID", gameID)

	unlock := that.lockGame(gameID)
	defer unlock()

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		that.recorder.MoveRejected(err)
		return nil, entity.MoveResult{}, err
	}

	engine := tictactoe.NewEngine()
	if err = engine.Restore(game.Snapshot); err != nil {
		return nil, entity.MoveResult{}, fmt.Errorf("failed to restore game %s: %w", gameID, err)
	}

	result, err := engine.Play(row, col)
	if err != nil {
		that.recorder.MoveRejected(err)
		log.Debug("move rejected", "row", row, "col", col, "error", err)

		return game, entity.MoveResult{}, fmt.Errorf("failed to make turn: %w", err)
	}

	game.Snapshot = engine.Snapshot()
	if err = that.updateGame(ctx, game); err != nil {
		return nil, entity.MoveResult{}, err
	}

	that.recorder.MoveAccepted(result.Mark)
	log.Debug("move accepted", "mark", result.Mark, "row", row, "col", col)

	if result.Status.IsTerminal() {
		that.recorder.GameFinished(result.Status)
		log.Info("game finished", "state", result.Status.State, "winner", result.Status.Winner)

		that.scheduleAutoReset(gameID)
	}

	return game, result, nil
}

// Reset clears the board of a game and cancels a pending auto-reset.
func (that *GameManager) Reset(ctx context.Context, gameID string) (*entity.Game, error) {
	that.cancelAutoReset(gameID)

	unlock := that.lockGame(gameID)
	defer unlock()

	game, err := that.resetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	that.recorder.GameReset(false)
	that.logger.Info("game reset", "method", "Reset", "gameID", gameID)

	return game, nil
}

// Close deletes a game.
func (that *GameManager) Close(ctx context.Context, gameID string) error {
	that.cancelAutoReset(gameID)

	unlock := that.lockGame(gameID)
	defer unlock()

	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "method", "Close", "gameID", gameID)

	return nil
}

// Stop cancels every pending auto-reset.
func (that *GameManager) Stop() {
	that.timersMutex.Lock()
	defer that.timersMutex.Unlock()

	for id, timer := range that.timers {
		timer.Stop()
		delete(that.timers, id)
	}
}

func (that *GameManager) scheduleAutoReset(gameID string) {
	if that.autoResetDelay <= 0 {
		return
	}

	that.timersMutex.Lock()
	defer that.timersMutex.Unlock()

	if timer, ok := that.timers[gameID]; ok {
		timer.Stop()
	}

	that.timers[gameID] = time.AfterFunc(that.autoResetDelay, func() {
		that.autoReset(gameID)
	})
}

func (that *GameManager) cancelAutoReset(gameID string) {
	that.timersMutex.Lock()
	defer that.timersMutex.Unlock()

	if timer, ok := that.timers[gameID]; ok {
		timer.Stop()
		delete(that.timers, gameID)
	}
}

func (that *GameManager) autoReset(gameID string) {
	log := that.logger.With("method", "autoReset", "gameID", gameID)

	that.timersMutex.Lock()
	delete(that.timers, gameID)
	that.timersMutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), autoResetTimeout)
	defer cancel()

	unlock := that.lockGame(gameID)
	game, err := that.getGameByID(ctx, gameID)
	if err == nil && !game.IsFinished() {
		// reset manually in the meantime
		unlock()
		return
	}

	if err == nil {
		game, err = that.resetGame(ctx, gameID)
	}
	unlock()

	if err != nil {
		if !errors.Is(err, apperror.ErrGameNotFound) {
			log.Error("failed to reset game", "error", err)
		}

		return
	}

	that.recorder.GameReset(true)
	log.Info("game reset")

	that.listenerMutex.RLock()
	listener := that.listener
	that.listenerMutex.RUnlock()

	if listener != nil {
		listener(game)
	}
}

func (that *GameManager) resetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	if _, err := that.getGameByID(ctx, gameID); err != nil {
		return nil, err
	}

	engine := tictactoe.NewEngine()
	game := &entity.Game{ID: gameID, Snapshot: engine.Snapshot()}

	if err := that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

func (that *GameManager) lockGame(gameID string) func() {
	that.locksMutex.Lock()
	lock, ok := that.locks[gameID]
	if !ok {
		lock = &gameLock{}
		that.locks[gameID] = lock
	}
	lock.refs++
	that.locksMutex.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		that.locksMutex.Lock()
		defer that.locksMutex.Unlock()

		lock.refs--
		if lock.refs == 0 {
			delete(that.locks, gameID)
		}
	}
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	existingGame, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return existingGame, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
