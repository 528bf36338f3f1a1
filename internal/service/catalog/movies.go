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

// Входные структуры сервисного слоя.

// CreateMovieInput — создание фильма.
type CreateMovieInput struct {
	Title       string
	Description string
	Genres      []string
	Year        int32
	CreatedBy   uuid.UUID
}

// UpdateMovieInput — частичное обновление фильма (pointer-поля).
type UpdateMovieInput struct {
	Title       *string
	Description *string
	Genres      *[]string
	Year        *int32
}

// ListMoviesInput — параметры постраничной выдачи.
type ListMoviesInput struct {
	PageSize  int32
	PageToken string
}

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// Первый публичный кинопоказ — 1895; запас на «анонсированные» релизы.
	minMovieYear = 1895
)

// CreateMovie — бизнес-операция создания фильма.
//
// Валидация:
//   - Title нормализуется (TrimSpace) и не должен быть пустым;
//   - Year в диапазоне [1895..текущий_год+1];
//   - CreatedBy обязателен (uuid.Nil -> ErrInvalidArgument).
func (s *Service) CreateMovie(ctx context.Context, in CreateMovieInput) (*models.Movie, error) {
	const op = "service/catalog/CreateMovie"

	lg := log.From(ctx).With("op", op, "created_by", in.CreatedBy.String())

	if in.CreatedBy == uuid.Nil {
		lg.Warn("invalid argument: empty created_by")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		lg.Warn("invalid argument: empty title")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := validateYear(in.Year); err != nil {
		lg.Warn("invalid argument: year out of range", "year", in.Year)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	now := time.Now().UTC()
	movie := &models.Movie{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Genres:      normalizeGenres(in.Genres),
		Year:        in.Year,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveMovie(ctx, movie); err != nil {
		lg.Error("storage error on SaveMovie", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return movie, nil
}

// MovieByID возвращает фильм по идентификатору.
// Сначала консультируется с кэшем (если сконфигурирован); промах и любая
// ошибка кэша прозрачно уходят в БД.
func (s *Service) MovieByID(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	const op = "service/catalog/MovieByID"

	lg := log.From(ctx).With("op", op, "movie_id", id.String())

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if s.cache != nil {
		movie, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			lg.Warn("movie_cache_get_failed", "err", err)
		} else if ok {
			return movie, nil
		}
	}

	movie, err := s.storage.MovieByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("movie not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on MovieByID", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, movie, s.cacheTTL); err != nil {
			lg.Warn("movie_cache_set_failed", "err", err)
		}
	}

	return movie, nil
}

// ListMovies возвращает страницу фильмов.
// PageSize ограничивается [1..100], по умолчанию 20.
func (s *Service) ListMovies(ctx context.Context, in ListMoviesInput) (*models.MoviePage, error) {
	const op = "service/catalog/ListMovies"

	lg := log.From(ctx).With("op", op)

	size := in.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	page, err := s.storage.ListMovies(ctx, storage.ListOptions{
		Limit:     size,
		PageToken: strings.TrimSpace(in.PageToken),
	})
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCursor) {
			lg.Warn("invalid page token")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		lg.Error("storage error on ListMovies", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return page, nil
}

// UpdateMovie выполняет частичное обновление фильма и инвалидирует кэш.
func (s *Service) UpdateMovie(ctx context.Context, id uuid.UUID, in UpdateMovieInput) (*models.Movie, error) {
	const op = "service/catalog/UpdateMovie"

	lg := log.From(ctx).With("op", op, "movie_id", id.String())

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	upd := storage.MovieUpdate{}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			lg.Warn("invalid argument: empty title")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		upd.Title = &title
	}

	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		upd.Description = &desc
	}

	if in.Genres != nil {
		genres := normalizeGenres(*in.Genres)
		upd.Genres = &genres
	}

	if in.Year != nil {
		if err := validateYear(*in.Year); err != nil {
			lg.Warn("invalid argument: year out of range", "year", *in.Year)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		upd.Year = in.Year
	}

	movie, err := s.storage.UpdateMovie(ctx, id, upd)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("movie not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on UpdateMovie", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	s.invalidateMovie(ctx, id)

	return movie, nil
}

// DeleteMovie удаляет фильм и инвалидирует кэш.
func (s *Service) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	const op = "service/catalog/DeleteMovie"

	lg := log.From(ctx).With("op", op, "movie_id", id.String())

	if id == uuid.Nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.DeleteMovie(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("movie not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on DeleteMovie", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	s.invalidateMovie(ctx, id)

	return nil
}

// PosterUploadURL генерирует presigned PUT URL для загрузки постера фильма.
func (s *Service) PosterUploadURL(ctx context.Context, movieID uuid.UUID, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "service/catalog/PosterUploadURL"

	lg := log.From(ctx).With("op", op, "movie_id", movieID.String())

	if s.posters == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrPostersDisabled)
	}

	// Фильм должен существовать до выдачи URL.
	if _, err := s.MovieByID(ctx, movieID); err != nil {
		return nil, err
	}

	info, err := s.posters.PosterUploadURL(ctx, movieID, contentType, contentLength)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidArgument) {
			lg.Warn("invalid poster upload params", "content_type", contentType)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		lg.Error("poster storage error", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return info, nil
}

// ConfirmPosterUpload подтверждает загрузку постера и фиксирует её в карточке.
func (s *Service) ConfirmPosterUpload(ctx context.Context, movieID uuid.UUID, key string) (*models.Movie, error) {
	const op = "service/catalog/ConfirmPosterUpload"

	lg := log.From(ctx).With("op", op, "movie_id", movieID.String())

	if s.posters == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrPostersDisabled)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	publicURL, err := s.posters.CheckPosterUpload(ctx, movieID, key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("poster object not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrInvalidArgument):
			lg.Warn("poster object rejected")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		default:
			lg.Error("poster storage error", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	movie, err := s.storage.SetPoster(ctx, movieID, key, publicURL)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on SetPoster", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	s.invalidateMovie(ctx, movieID)

	return movie, nil
}

// invalidateMovie — best-effort инвалидация кэша.
func (s *Service) invalidateMovie(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.From(ctx).Warn("movie_cache_invalidate_failed",
			"movie_id", id.String(), "err", err)
	}
}

func validateYear(year int32) error {
	maxYear := int32(time.Now().UTC().Year() + 1)
	if year < minMovieYear || year > maxYear {
		return ErrInvalidArgument
	}

	return nil
}

// normalizeGenres обрезает пробелы, выбрасывает пустые строки и дубликаты.
func normalizeGenres(raw []string) []string {
	genres := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, g := range raw {
		g = strings.ToLower(strings.TrimSpace(g))
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}

		seen[g] = struct{}{}
		genres = append(genres, g)
	}

	return genres
}
