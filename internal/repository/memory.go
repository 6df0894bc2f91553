package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// MemoryGameRepository mirrors the Redis repository for a single process.
// Games are kept encoded so callers never share state with the store, and
// expired games are evicted in the background. Close stops the eviction loop.
type MemoryGameRepository struct {
	cache     *ttlcache.Cache[string, []byte]
	closeOnce sync.Once
}

// NewMemoryGameRepository creates the store. A zero ttl keeps games until deleted.
func NewMemoryGameRepository(ttl time.Duration) *MemoryGameRepository {
	cache := ttlcache.New[string, []byte](
		ttlcache.WithTTL[string, []byte](ttl),
		// reads do not extend the TTL, as with SET ... EX in Redis
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)

	go cache.Start()

	return &MemoryGameRepository{cache: cache}
}

func (that *MemoryGameRepository) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	that.cache.Set(game.ID, gameJSON, ttlcache.DefaultTTL)

	return nil
}

func (that *MemoryGameRepository) GetByID(_ context.Context, id string) (*entity.Game, error) {
	item := that.cache.Get(id)
	if item == nil {
		// drops the entry if it expired before the eviction loop got to it
		that.cache.Delete(id)

		return nil, apperror.ErrGameNotFound
	}

	var existingGame entity.Game
	if err := json.Unmarshal(item.Value(), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *MemoryGameRepository) DeleteByID(_ context.Context, id string) error {
	if _, ok := that.cache.GetAndDelete(id); !ok {
		that.cache.Delete(id)

		return apperror.ErrGameNotFound
	}

	return nil
}

func (that *MemoryGameRepository) Close() error {
	that.closeOnce.Do(that.cache.Stop)

	return nil
}
