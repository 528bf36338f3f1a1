package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

// TestIntegration_SaveMovie_And_MovieByID_OK — happy-path фильма:
// массив жанров, таймстемпы в UTC, пустые постерные поля до подтверждения.
func TestIntegration_SaveMovie_And_MovieByID_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	author := seedUser(t, st, "admin", "admin@example.com")
	m := seedMovie(t, st, author.ID, "Solaris", 0)

	got, err := st.MovieByID(context.Background(), m.ID)
	require.NoError(t, err)
	require.Equal(t, "Solaris", got.Title)
	require.Equal(t, []string{"drama"}, got.Genres)
	require.Equal(t, author.ID, got.CreatedBy)
	require.Empty(t, got.PosterKey)
	require.Empty(t, got.PosterURL)
	require.WithinDuration(t, m.CreatedAt, got.CreatedAt, time.Second)
}

// TestIntegration_ListMovies_CursorPagination — выдача строго
// created_at DESC, id DESC; токен последнего элемента открывает следующую
// страницу без пропусков и дублей.
func TestIntegration_ListMovies_CursorPagination(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	author := seedUser(t, st, "admin", "admin@example.com")
	oldest := seedMovie(t, st, author.ID, "Stalker", 3*time.Minute)
	middle := seedMovie(t, st, author.ID, "Solaris", 2*time.Minute)
	newest := seedMovie(t, st, author.ID, "Mirror", time.Minute)

	first, err := st.ListMovies(context.Background(), storage.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.Equal(t, newest.ID, first.Items[0].ID)
	require.Equal(t, middle.ID, first.Items[1].ID)
	require.NotEmpty(t, first.NextPageToken)

	second, err := st.ListMovies(context.Background(), storage.ListOptions{
		Limit:     2,
		PageToken: first.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	require.Equal(t, oldest.ID, second.Items[0].ID)
}

// TestIntegration_ListMovies_InvalidCursor — битый токен не доходит до SQL.
func TestIntegration_ListMovies_InvalidCursor(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.ListMovies(context.Background(), storage.ListOptions{
		Limit:     10,
		PageToken: "!!!not-base64!!!",
	})
	require.ErrorIs(t, err, storage.ErrInvalidCursor)
}

// TestIntegration_UpdateMovie_And_SetPoster — частичный апдейт и фиксация постера.
func TestIntegration_UpdateMovie_And_SetPoster(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	author := seedUser(t, st, "admin", "admin@example.com")
	m := seedMovie(t, st, author.ID, "Solaris", 0)

	year := int32(1972)
	got, err := st.UpdateMovie(context.Background(), m.ID, storage.MovieUpdate{Year: &year})
	require.NoError(t, err)
	require.Equal(t, int32(1972), got.Year)
	require.Equal(t, "Solaris", got.Title)

	withPoster, err := st.SetPoster(context.Background(), m.ID,
		"posters/"+m.ID.String(), "https://cdn.example.com/"+m.ID.String())
	require.NoError(t, err)
	require.Equal(t, "posters/"+m.ID.String(), withPoster.PosterKey)
	require.Equal(t, "https://cdn.example.com/"+m.ID.String(), withPoster.PosterURL)

	_, err = st.UpdateMovie(context.Background(), uuid.New(), storage.MovieUpdate{Year: &year})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_Watchlist_FullCycle — добавление, порядок added_at DESC,
// дубликат, удаление и нарушение FK.
func TestIntegration_Watchlist_FullCycle(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	user := seedUser(t, st, "viewer", "viewer@example.com")
	author := seedUser(t, st, "admin", "admin@example.com")
	first := seedMovie(t, st, author.ID, "Solaris", time.Minute)
	second := seedMovie(t, st, author.ID, "Stalker", 0)

	require.NoError(t, st.AddToWatchlist(context.Background(), user.ID, first.ID))
	// Пауза, чтобы added_at различались и порядок был детерминированным.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, st.AddToWatchlist(context.Background(), user.ID, second.ID))

	err := st.AddToWatchlist(context.Background(), user.ID, first.ID)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	err = st.AddToWatchlist(context.Background(), user.ID, uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)

	items, err := st.ListWatchlist(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, second.ID, items[0].Movie.ID)
	require.Equal(t, first.ID, items[1].Movie.ID)
	require.Equal(t, "Stalker", items[0].Movie.Title)

	require.NoError(t, st.RemoveFromWatchlist(context.Background(), user.ID, first.ID))
	err = st.RemoveFromWatchlist(context.Background(), user.ID, first.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	items, err = st.ListWatchlist(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

// TestIntegration_Comments_FullCycle — создание, FK на фильм, пагинация и удаление.
func TestIntegration_Comments_FullCycle(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	user := seedUser(t, st, "viewer", "viewer@example.com")
	author := seedUser(t, st, "admin", "admin@example.com")
	movie := seedMovie(t, st, author.ID, "Solaris", 0)

	makeComment := func(content string, offset time.Duration) *models.Comment {
		c := &models.Comment{
			ID:        uuid.New(),
			MovieID:   movie.ID,
			UserID:    user.ID,
			Username:  user.Username,
			Content:   content,
			CreatedAt: time.Now().UTC().Add(-offset),
		}
		require.NoError(t, st.SaveComment(context.Background(), c))
		return c
	}

	older := makeComment("first!", time.Minute)
	newer := makeComment("second", 0)

	err := st.SaveComment(context.Background(), &models.Comment{
		ID: uuid.New(), MovieID: uuid.New(), UserID: user.ID,
		Username: user.Username, Content: "orphan", CreatedAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, storage.ErrNotFound)

	page, err := st.ListCommentsByMovie(context.Background(), movie.ID, storage.ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, newer.ID, page.Items[0].ID)

	next, err := st.ListCommentsByMovie(context.Background(), movie.ID, storage.ListOptions{
		Limit:     1,
		PageToken: page.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, next.Items, 1)
	require.Equal(t, older.ID, next.Items[0].ID)

	got, err := st.CommentByID(context.Background(), older.ID)
	require.NoError(t, err)
	require.Equal(t, "first!", got.Content)

	require.NoError(t, st.DeleteComment(context.Background(), older.ID))
	err = st.DeleteComment(context.Background(), older.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_DeleteMovie_Cascades — удаление фильма каскадно чистит
// вотчлисты и комментарии.
func TestIntegration_DeleteMovie_Cascades(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	user := seedUser(t, st, "viewer", "viewer@example.com")
	author := seedUser(t, st, "admin", "admin@example.com")
	movie := seedMovie(t, st, author.ID, "Solaris", 0)

	require.NoError(t, st.AddToWatchlist(context.Background(), user.ID, movie.ID))
	require.NoError(t, st.SaveComment(context.Background(), &models.Comment{
		ID: uuid.New(), MovieID: movie.ID, UserID: user.ID,
		Username: user.Username, Content: "bye", CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, st.DeleteMovie(context.Background(), movie.ID))

	err := st.DeleteMovie(context.Background(), movie.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	items, err := st.ListWatchlist(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, items)

	comments, err := st.ListCommentsByMovie(context.Background(), movie.ID, storage.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Empty(t, comments.Items)
}
