package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

func TestAddToWatchlist(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newCatalogSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID, movieID := uuid.New(), uuid.New()

	st.MockWatchlistStorage.EXPECT().AddToWatchlist(gomock.Any(), userID, movieID).Return(nil)
	require.NoError(t, svc.AddToWatchlist(ctx, userID, movieID))

	// Повторное добавление — конфликт.
	st.MockWatchlistStorage.EXPECT().AddToWatchlist(gomock.Any(), userID, movieID).
		Return(storage.ErrAlreadyExists)
	require.ErrorIs(t, svc.AddToWatchlist(ctx, userID, movieID), ErrAlreadyExists)

	// Несуществующий фильм.
	st.MockWatchlistStorage.EXPECT().AddToWatchlist(gomock.Any(), userID, movieID).
		Return(storage.ErrNotFound)
	require.ErrorIs(t, svc.AddToWatchlist(ctx, userID, movieID), ErrNotFound)

	require.ErrorIs(t, svc.AddToWatchlist(ctx, uuid.Nil, movieID), ErrInvalidArgument)
}

func TestRemoveFromWatchlist(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newCatalogSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID, movieID := uuid.New(), uuid.New()

	st.MockWatchlistStorage.EXPECT().RemoveFromWatchlist(gomock.Any(), userID, movieID).Return(nil)
	require.NoError(t, svc.RemoveFromWatchlist(ctx, userID, movieID))

	st.MockWatchlistStorage.EXPECT().RemoveFromWatchlist(gomock.Any(), userID, movieID).
		Return(storage.ErrNotFound)
	require.ErrorIs(t, svc.RemoveFromWatchlist(ctx, userID, movieID), ErrNotFound)
}

func TestWatchlist(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newCatalogSvc(t)
	defer ctrl.Finish()

	userID := uuid.New()
	items := []models.WatchlistItem{
		{UserID: userID, Movie: models.Movie{ID: uuid.New(), Title: "A"}, AddedAt: time.Now()},
		{UserID: userID, Movie: models.Movie{ID: uuid.New(), Title: "B"}, AddedAt: time.Now().Add(-time.Hour)},
	}

	st.MockWatchlistStorage.EXPECT().ListWatchlist(gomock.Any(), userID).Return(items, nil)

	got, err := svc.Watchlist(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "A", got[0].Movie.Title)
}
