package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/pkg/log"
	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

// AddToWatchlist добавляет фильм в вотчлист пользователя.
//
// Поведение/ошибки:
//   - ErrAlreadyExists — фильм уже в вотчлисте;
//   - ErrNotFound — фильм не существует;
//   - ErrInternal — прочие ошибки стораджа.
func (s *Service) AddToWatchlist(ctx context.Context, userID, movieID uuid.UUID) error {
	const op = "service/catalog/AddToWatchlist"

	lg := log.From(ctx).With("op", op, "user_id", userID.String(), "movie_id", movieID.String())

	if userID == uuid.Nil || movieID == uuid.Nil {
		lg.Warn("invalid argument: empty id")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.AddToWatchlist(ctx, userID, movieID); err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			lg.Warn("movie already in watchlist")
			return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("movie not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on AddToWatchlist", "err", err)
			return fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return nil
}

// RemoveFromWatchlist убирает фильм из вотчлиста пользователя.
func (s *Service) RemoveFromWatchlist(ctx context.Context, userID, movieID uuid.UUID) error {
	const op = "service/catalog/RemoveFromWatchlist"

	lg := log.From(ctx).With("op", op, "user_id", userID.String(), "movie_id", movieID.String())

	if userID == uuid.Nil || movieID == uuid.Nil {
		lg.Warn("invalid argument: empty id")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.RemoveFromWatchlist(ctx, userID, movieID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("watchlist entry not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on RemoveFromWatchlist", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return nil
}

// Watchlist возвращает вотчлист пользователя (added_at DESC).
func (s *Service) Watchlist(ctx context.Context, userID uuid.UUID) ([]models.WatchlistItem, error) {
	const op = "service/catalog/Watchlist"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	items, err := s.storage.ListWatchlist(ctx, userID)
	if err != nil {
		lg.Error("storage error on ListWatchlist", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return items, nil
}
