package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchlistItem — фильм в списке «посмотреть позже» пользователя.
type WatchlistItem struct {
	UserID  uuid.UUID `json:"-"`
	Movie   Movie     `json:"movie"`
	AddedAt time.Time `json:"added_at"`
}
