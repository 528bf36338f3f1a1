package models

import (
	"time"

	"github.com/google/uuid"
)

// Movie — фильм в каталоге.
type Movie struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genres      []string  `json:"genres"`
	Year        int32     `json:"year"`
	// PosterKey — ключ объекта в S3/MinIO; PosterURL — публичная ссылка.
	// Оба пустые, пока постер не загружен и не подтверждён.
	PosterKey string    `json:"-"`
	PosterURL string    `json:"poster_url,omitempty"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MoviePage — страница выдачи фильмов с курсорной пагинацией.
type MoviePage struct {
	Items         []Movie `json:"items"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}
