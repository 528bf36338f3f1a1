package catalog

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
)

// Интеграционные тесты redis-кэша карточек фильмов:
// — поднимают реальный Redis через testcontainers-go;
// — проверяют round-trip Get/Set, мисс на отсутствующем ключе,
//   инвалидацию и истечение TTL.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/service/catalog -v -race -count=1

func startRedisCache(t *testing.T) (MovieCache, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "6379/tcp")

	cache, err := NewRedisCache(fmt.Sprintf("redis://%s:%s/0", host, port.Port()), "")
	require.NoError(t, err)

	cleanup := func() {
		_ = cache.Close()
		_ = c.Terminate(context.Background())
	}
	return cache, cleanup
}

func TestIntegration_RedisCache_RoundTrip(t *testing.T) {
	cache, cleanup := startRedisCache(t)
	defer cleanup()

	now := time.Now().UTC().Truncate(time.Second)
	movie := &models.Movie{
		ID:        uuid.New(),
		Title:     "Solaris",
		Genres:    []string{"drama", "sci-fi"},
		Year:      1972,
		CreatedBy: uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Мисс до записи.
	_, ok, err := cache.Get(context.Background(), movie.ID)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Set(context.Background(), movie, time.Minute))

	got, ok, err := cache.Get(context.Background(), movie.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, movie.ID, got.ID)
	require.Equal(t, "Solaris", got.Title)
	require.Equal(t, []string{"drama", "sci-fi"}, got.Genres)
	require.True(t, now.Equal(got.CreatedAt))
}

func TestIntegration_RedisCache_Invalidate(t *testing.T) {
	cache, cleanup := startRedisCache(t)
	defer cleanup()

	movie := &models.Movie{ID: uuid.New(), Title: "Stalker"}
	require.NoError(t, cache.Set(context.Background(), movie, time.Minute))

	require.NoError(t, cache.Invalidate(context.Background(), movie.ID))

	_, ok, err := cache.Get(context.Background(), movie.ID)
	require.NoError(t, err)
	require.False(t, ok)

	// Инвалидация отсутствующего ключа — не ошибка.
	require.NoError(t, cache.Invalidate(context.Background(), uuid.New()))
}

func TestIntegration_RedisCache_TTLExpires(t *testing.T) {
	cache, cleanup := startRedisCache(t)
	defer cleanup()

	movie := &models.Movie{ID: uuid.New(), Title: "Mirror"}
	require.NoError(t, cache.Set(context.Background(), movie, 500*time.Millisecond))

	time.Sleep(time.Second)

	_, ok, err := cache.Get(context.Background(), movie.ID)
	require.NoError(t, err)
	require.False(t, ok)
}
