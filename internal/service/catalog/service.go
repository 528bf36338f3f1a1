// catalog содержит бизнес-логику каталога фильмов: CRUD фильмов,
// вотчлисты, комментарии и загрузку постеров.
//
// Ошибки возвращаются сентинелами и маппятся HTTP-слоем:
// ErrNotFound -> 404, ErrAlreadyExists -> 409, ErrInvalidArgument -> 400,
// ErrPermissionDenied -> 403, ErrPostersDisabled -> 503, ErrInternal -> 500.
package catalog

import (
	"errors"
	"time"

	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

var (
	// ErrNotFound — фильм/комментарий/элемент вотчлиста не найден.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — фильм уже в вотчлисте.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidArgument — вход операции не проходит валидацию
	// (пустой title, битый page_token, недопустимый тип постера).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPermissionDenied — попытка удалить чужой комментарий без роли admin.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrPostersDisabled — объектное хранилище постеров не сконфигурировано.
	ErrPostersDisabled = errors.New("posters storage disabled")

	// ErrInternal — прочие ошибки стораджа/БД/контекста.
	ErrInternal = errors.New("internal error")
)

// CatalogStorage — срез общего контракта хранилища, нужный каталогу.
type CatalogStorage interface {
	storage.MovieStorage
	storage.WatchlistStorage
	storage.CommentStorage
}

// Service описывает бизнес-логику каталога.
type Service struct {
	storage  CatalogStorage
	posters  storage.PosterStorage // может быть nil, если S3 не сконфигурирован
	cache    MovieCache            // может быть nil, если кэш не сконфигурирован
	cacheTTL time.Duration
}

// New создаёт новый экземпляр Service.
func New(storage CatalogStorage) *Service {
	return &Service{
		storage: storage,
	}
}

// SetPosterStorage устанавливает хранилище постеров (опционально).
func (s *Service) SetPosterStorage(p storage.PosterStorage) {
	s.posters = p
}

// SetMovieCache устанавливает кэш карточек фильмов (опционально).
func (s *Service) SetMovieCache(c MovieCache, ttl time.Duration) {
	s.cache = c
	s.cacheTTL = ttl
}
