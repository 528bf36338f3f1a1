package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

const commentColumns = "id, movie_id, user_id, username, content, created_at"

func scanComment(row pgx.Row) (*models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.ID,
		&comment.MovieID,
		&comment.UserID,
		&comment.Username,
		&comment.Content,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	comment.CreatedAt = comment.CreatedAt.UTC()

	return &comment, nil
}

// SaveComment создаёт комментарий.
// Несуществующий фильм (нарушение FK) — storage.ErrNotFound.
func (s *Storage) SaveComment(ctx context.Context, comment *models.Comment) error {
	const op = "storage.postgres.SaveComment"

	query := `
		INSERT INTO comments(id, movie_id, user_id, username, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.Exec(ctx, query,
		comment.ID,
		comment.MovieID,
		comment.UserID,
		comment.Username,
		comment.Content,
		comment.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CommentByID возвращает комментарий по ID.
func (s *Storage) CommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	const op = "storage.postgres.CommentByID"

	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE id = $1
	`

	comment, err := scanComment(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comment, nil
}

// ListCommentsByMovie возвращает страницу комментариев фильма
// (created_at DESC, id DESC). Некорректный токен — storage.ErrInvalidCursor.
func (s *Storage) ListCommentsByMovie(ctx context.Context, movieID uuid.UUID, opts storage.ListOptions) (*models.CommentPage, error) {
	const op = "storage.postgres.ListCommentsByMovie"

	limit := opts.Limit
	if limit <= 0 {
		limit = 1
	}

	var rows pgx.Rows
	var err error

	if opts.PageToken == "" {
		rows, err = s.db.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE movie_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
		`, movieID, limit)
	} else {
		createdCur, idCur, decErr := decodePageToken(opts.PageToken)
		if decErr != nil {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidCursor)
		}

		rows, err = s.db.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE movie_id = $1 AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4
		`, movieID, createdCur, idCur, limit)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var page models.CommentPage
	for rows.Next() {
		comment, scanErr := scanComment(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, scanErr)
		}

		page.Items = append(page.Items, *comment)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, rows.Err())
	}

	if l := len(page.Items); l > 0 {
		last := page.Items[l-1]
		page.NextPageToken = encodePageToken(last.CreatedAt, last.ID)
	}

	return &page, nil
}

// DeleteComment удаляет комментарий.
func (s *Storage) DeleteComment(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteComment"

	tag, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
