package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment — комментарий к фильму.
// Username денормализован из claims на момент создания,
// чтобы выдача не требовала джойна с users.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	MovieID   uuid.UUID `json:"movie_id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentPage — страница выдачи комментариев.
type CommentPage struct {
	Items         []Comment `json:"items"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}
