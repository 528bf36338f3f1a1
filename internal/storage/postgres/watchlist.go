package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

// AddToWatchlist добавляет фильм в вотчлист пользователя.
// Повторное добавление — storage.ErrAlreadyExists;
// несуществующий фильм (нарушение FK) — storage.ErrNotFound.
func (s *Storage) AddToWatchlist(ctx context.Context, userID, movieID uuid.UUID) error {
	const op = "storage.postgres.AddToWatchlist"

	query := `
		INSERT INTO watchlist(user_id, movie_id, added_at)
		VALUES ($1, $2, $3)
	`

	_, err := s.db.Exec(ctx, query, userID, movieID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
			case pgerrcode.ForeignKeyViolation:
				return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
			}
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RemoveFromWatchlist убирает фильм из вотчлиста пользователя.
func (s *Storage) RemoveFromWatchlist(ctx context.Context, userID, movieID uuid.UUID) error {
	const op = "storage.postgres.RemoveFromWatchlist"

	tag, err := s.db.Exec(ctx,
		`DELETE FROM watchlist WHERE user_id = $1 AND movie_id = $2`, userID, movieID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// ListWatchlist возвращает вотчлист пользователя вместе с карточками фильмов
// (added_at DESC).
func (s *Storage) ListWatchlist(ctx context.Context, userID uuid.UUID) ([]models.WatchlistItem, error) {
	const op = "storage.postgres.ListWatchlist"

	query := `
		SELECT w.user_id, w.added_at,
		       m.id, m.title, m.description, m.genres, m.year, m.poster_key, m.poster_url,
		       m.created_by, m.created_at, m.updated_at
		FROM watchlist w
		JOIN movies m ON m.id = w.movie_id
		WHERE w.user_id = $1
		ORDER BY w.added_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.WatchlistItem
	for rows.Next() {
		var item models.WatchlistItem
		scanErr := rows.Scan(
			&item.UserID,
			&item.AddedAt,
			&item.Movie.ID,
			&item.Movie.Title,
			&item.Movie.Description,
			&item.Movie.Genres,
			&item.Movie.Year,
			&item.Movie.PosterKey,
			&item.Movie.PosterURL,
			&item.Movie.CreatedBy,
			&item.Movie.CreatedAt,
			&item.Movie.UpdatedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, scanErr)
		}

		item.AddedAt = item.AddedAt.UTC()
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, rows.Err())
	}

	return items, nil
}
