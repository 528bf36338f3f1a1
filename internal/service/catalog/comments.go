package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/pkg/log"
	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

// CreateCommentInput — создание комментария к фильму.
// UserID/Username берутся из claims аутентифицированного запроса,
// а не из тела — автор не может подписаться чужим именем.
type CreateCommentInput struct {
	MovieID  uuid.UUID
	UserID   uuid.UUID
	Username string
	Content  string
}

// ListCommentsInput — параметры постраничной выдачи комментариев фильма.
type ListCommentsInput struct {
	MovieID   uuid.UUID
	PageSize  int32
	PageToken string
}

const maxCommentLength = 2000

// CreateComment — бизнес-операция создания комментария.
//
// Валидация:
//   - MovieID/UserID обязательны (uuid.Nil -> ErrInvalidArgument);
//   - Username и Content нормализуются (TrimSpace) и не должны быть пустыми;
//   - Content не длиннее 2000 символов.
//
// Поведение/ошибки:
//   - ErrNotFound — фильм не существует;
//   - ErrInternal — прочие ошибки стораджа/БД/контекста.
func (s *Service) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	const op = "service/catalog/CreateComment"

	lg := log.From(ctx).With(
		"op", op,
		"user_id", in.UserID.String(),
		"movie_id", in.MovieID.String(),
	)

	if in.MovieID == uuid.Nil || in.UserID == uuid.Nil {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		lg.Warn("invalid argument: empty username")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		lg.Warn("invalid argument: empty content")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if len([]rune(in.Content)) > maxCommentLength {
		lg.Warn("invalid argument: content too long")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		MovieID:   in.MovieID,
		UserID:    in.UserID,
		Username:  in.Username,
		Content:   in.Content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.storage.SaveComment(ctx, comment); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("movie not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on SaveComment", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return comment, nil
}

// ListComments возвращает страницу комментариев фильма.
func (s *Service) ListComments(ctx context.Context, in ListCommentsInput) (*models.CommentPage, error) {
	const op = "service/catalog/ListComments"

	lg := log.From(ctx).With("op", op, "movie_id", in.MovieID.String())

	if in.MovieID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	size := in.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	page, err := s.storage.ListCommentsByMovie(ctx, in.MovieID, storage.ListOptions{
		Limit:     size,
		PageToken: strings.TrimSpace(in.PageToken),
	})
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCursor) {
			lg.Warn("invalid page token")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		lg.Error("storage error on ListCommentsByMovie", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return page, nil
}

// DeleteComment удаляет комментарий.
// Разрешено автору комментария и администратору; остальным — ErrPermissionDenied.
func (s *Service) DeleteComment(ctx context.Context, id uuid.UUID, requester *models.Claims) error {
	const op = "service/catalog/DeleteComment"

	lg := log.From(ctx).With("op", op, "comment_id", id.String())

	if id == uuid.Nil || requester == nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	comment, err := s.storage.CommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("comment not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on CommentByID", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if comment.UserID != requester.UserID && requester.Role != models.RoleAdmin {
		lg.Warn("delete denied", "requester_id", requester.UserID.String())
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if err := s.storage.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on DeleteComment", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return nil
}
