// storage содержит контракты слоя хранилищ и их сентинельные ошибки.
//
// Контракты разбиты по доменам (пользователи, фильмы, вотчлист, комментарии,
// постеры); postgres-реализация закрывает Storage целиком, minio — PosterStorage.
// Уникальность username/email обеспечивается уникальными индексами в БД —
// реализация обязана маппить нарушение уникальности в ErrAlreadyExists.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/фильм/комментарий/элемент вотчлиста).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/username/вотчлист).
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCursor — некорректный page_token курсорной пагинации.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrInvalidArgument — аргумент не проходит ограничения хранилища
	// (тип/размер постера, чужой ключ объекта).
	ErrInvalidArgument = errors.New("invalid argument")
)

// ListOptions — параметры постраничной выдачи.
// PageToken — непрозрачная строка (base64url), пустая для первой страницы.
type ListOptions struct {
	Limit     int32
	PageToken string
}

// UserUpdate — частичный апдейт пользователя.
// Обновляются только непустые указатели; реализация обновляет updated_at.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создаёт нового пользователя.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByLogin находит пользователя по username ИЛИ email.
	UserByLogin(ctx context.Context, login string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// EmailExists сообщает, занят ли email.
	EmailExists(ctx context.Context, email string) (bool, error)
	// UsernameExists сообщает, занят ли username.
	UsernameExists(ctx context.Context, username string) (bool, error)
	// UpdateUser выполняет частичное обновление полей из update.
	UpdateUser(ctx context.Context, id uuid.UUID, update UserUpdate) (*models.User, error)
}

// MovieUpdate — частичный апдейт фильма.
type MovieUpdate struct {
	Title       *string
	Description *string
	Genres      *[]string
	Year        *int32
}

// MovieStorage выполняет операции над фильмами.
type MovieStorage interface {
	// SaveMovie создаёт новый фильм.
	SaveMovie(ctx context.Context, movie *models.Movie) error
	// MovieByID возвращает фильм по ID.
	MovieByID(ctx context.Context, id uuid.UUID) (*models.Movie, error)
	// ListMovies возвращает страницу фильмов (created_at DESC, id DESC).
	ListMovies(ctx context.Context, opts ListOptions) (*models.MoviePage, error)
	// UpdateMovie выполняет частичное обновление полей из update.
	UpdateMovie(ctx context.Context, id uuid.UUID, update MovieUpdate) (*models.Movie, error)
	// DeleteMovie удаляет фильм.
	DeleteMovie(ctx context.Context, id uuid.UUID) error
	// SetPoster фиксирует ключ и публичный URL постера после подтверждения загрузки.
	SetPoster(ctx context.Context, id uuid.UUID, key, publicURL string) (*models.Movie, error)
}

// WatchlistStorage выполняет операции над списками «посмотреть позже».
type WatchlistStorage interface {
	// AddToWatchlist добавляет фильм в вотчлист пользователя.
	// Повтор — ErrAlreadyExists; несуществующий фильм — ErrNotFound.
	AddToWatchlist(ctx context.Context, userID, movieID uuid.UUID) error
	// RemoveFromWatchlist убирает фильм из вотчлиста; отсутствие — ErrNotFound.
	RemoveFromWatchlist(ctx context.Context, userID, movieID uuid.UUID) error
	// ListWatchlist возвращает вотчлист пользователя (added_at DESC).
	ListWatchlist(ctx context.Context, userID uuid.UUID) ([]models.WatchlistItem, error)
}

// CommentStorage выполняет операции над комментариями.
type CommentStorage interface {
	// SaveComment создаёт комментарий; несуществующий фильм — ErrNotFound.
	SaveComment(ctx context.Context, comment *models.Comment) error
	// CommentByID возвращает комментарий по ID.
	CommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	// ListCommentsByMovie возвращает страницу комментариев фильма (created_at DESC, id DESC).
	ListCommentsByMovie(ctx context.Context, movieID uuid.UUID, opts ListOptions) (*models.CommentPage, error)
	// DeleteComment удаляет комментарий; отсутствие — ErrNotFound.
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	UserStorage
	MovieStorage
	WatchlistStorage
	CommentStorage
	Close()
}

// UploadInfo — данные presigned-загрузки постера.
type UploadInfo struct {
	UploadURL string
	PosterKey string
	Expires   time.Duration
	// RequiredHeader — заголовки, которые клиент обязан передать при PUT;
	// проверяются при подтверждении.
	RequiredHeader map[string]string
}

// PosterStorage — контракт объектного хранилища постеров.
type PosterStorage interface {
	// PosterUploadURL генерирует presigned PUT URL для загрузки постера.
	PosterUploadURL(ctx context.Context, movieID uuid.UUID, contentType string, contentLength int64) (*UploadInfo, error)
	// CheckPosterUpload подтверждает факт загрузки по key и возвращает публичный URL.
	CheckPosterUpload(ctx context.Context, movieID uuid.UUID, key string) (string, error)
}
