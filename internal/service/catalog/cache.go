package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
)

// MovieCache — минимальный контракт кэша карточек фильмов.
// Кэш — чистая оптимизация чтения: любая его ошибка не должна
// превращаться в ошибку операции.
type MovieCache interface {
	// Get возвращает карточку и признак её наличия в кэше.
	Get(ctx context.Context, id uuid.UUID) (*models.Movie, bool, error)
	// Set сохраняет карточку с TTL.
	Set(ctx context.Context, movie *models.Movie, ttl time.Duration) error
	// Invalidate удаляет карточку из кэша (после апдейта/удаления фильма).
	Invalidate(ctx context.Context, id uuid.UUID) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "catalog:movie:".
func NewRedisCache(redisURL, prefix string) (MovieCache, error) {
	if prefix == "" {
		prefix = "catalog:movie:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(id uuid.UUID) string { return c.prefix + id.String() }

func (c *redisCache) Get(ctx context.Context, id uuid.UUID) (*models.Movie, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, err
	}

	var movie models.Movie
	if err := json.Unmarshal(raw, &movie); err != nil {
		return nil, false, err
	}

	return &movie, true, nil
}

func (c *redisCache) Set(ctx context.Context, movie *models.Movie, ttl time.Duration) error {
	raw, err := json.Marshal(movie)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, c.key(movie.ID), raw, ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.rdb.Del(ctx, c.key(id)).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }
