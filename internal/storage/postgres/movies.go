package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

const movieColumns = "id, title, description, genres, year, poster_key, poster_url, created_by, created_at, updated_at"

func scanMovie(row pgx.Row) (*models.Movie, error) {
	var movie models.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Genres,
		&movie.Year,
		&movie.PosterKey,
		&movie.PosterURL,
		&movie.CreatedBy,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	movie.CreatedAt = movie.CreatedAt.UTC()
	movie.UpdatedAt = movie.UpdatedAt.UTC()

	return &movie, nil
}

// SaveMovie создаёт новый фильм.
func (s *Storage) SaveMovie(ctx context.Context, movie *models.Movie) error {
	const op = "storage.postgres.SaveMovie"

	query := `
		INSERT INTO movies(id, title, description, genres, year, poster_key, poster_url, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.Genres,
		movie.Year,
		movie.PosterKey,
		movie.PosterURL,
		movie.CreatedBy,
		movie.CreatedAt,
		movie.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// MovieByID возвращает фильм по ID.
func (s *Storage) MovieByID(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	const op = "storage.postgres.MovieByID"

	query := `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE id = $1
	`

	movie, err := scanMovie(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return movie, nil
}

// ListMovies возвращает страницу фильмов с курсорной пагинацией.
// Сортировка фиксирована: created_at DESC, id DESC.
// При некорректном токене возвращает storage.ErrInvalidCursor.
func (s *Storage) ListMovies(ctx context.Context, opts storage.ListOptions) (*models.MoviePage, error) {
	const op = "storage.postgres.ListMovies"

	limit := opts.Limit
	if limit <= 0 {
		// Защита от нуля/отрицательного значения.
		limit = 1
	}

	var rows pgx.Rows
	var err error

	if opts.PageToken == "" {
		rows, err = s.db.Query(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		ORDER BY created_at DESC, id DESC
		LIMIT $1
		`, limit)
	} else {
		createdCur, idCur, decErr := decodePageToken(opts.PageToken)
		if decErr != nil {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidCursor)
		}

		rows, err = s.db.Query(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE (created_at, id) < ($1, $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
		`, createdCur, idCur, limit)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var page models.MoviePage
	for rows.Next() {
		movie, scanErr := scanMovie(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, scanErr)
		}

		page.Items = append(page.Items, *movie)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, rows.Err())
	}

	// Курсор следующей страницы — по последнему элементу.
	if l := len(page.Items); l > 0 {
		last := page.Items[l-1]
		page.NextPageToken = encodePageToken(last.CreatedAt, last.ID)
	}

	return &page, nil
}

// UpdateMovie выполняет частичное обновление фильма.
func (s *Storage) UpdateMovie(ctx context.Context, id uuid.UUID, update storage.MovieUpdate) (*models.Movie, error) {
	const op = "storage.postgres.UpdateMovie"

	set := []string{}
	args := []any{}
	idx := 1

	add := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Genres != nil {
		add("genres", *update.Genres)
	}
	if update.Year != nil {
		add("year", *update.Year)
	}

	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE movies
		SET %s
		WHERE id = $%d
		RETURNING `+movieColumns,
		strings.Join(set, ", "), idx)

	movie, err := scanMovie(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return movie, nil
}

// DeleteMovie удаляет фильм.
func (s *Storage) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteMovie"

	tag, err := s.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// SetPoster фиксирует ключ и публичный URL постера.
func (s *Storage) SetPoster(ctx context.Context, id uuid.UUID, key, publicURL string) (*models.Movie, error) {
	const op = "storage.postgres.SetPoster"

	query := `
		UPDATE movies
		SET poster_key = $1, poster_url = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + movieColumns

	movie, err := scanMovie(s.db.QueryRow(ctx, query, key, publicURL, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return movie, nil
}
