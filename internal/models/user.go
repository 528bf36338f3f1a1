package models

import (
	"time"

	"github.com/google/uuid"
)

// Role — роль пользователя в системе.
type Role string

const (
	// RoleUser — роль по умолчанию, выдаётся при регистрации.
	RoleUser Role = "user"
	// RoleAdmin — административная роль (управление каталогом).
	RoleAdmin Role = "admin"
)

// Valid сообщает, входит ли роль в допустимый набор.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User — модель пользователя в системе.
// PasswordHash никогда не покидает границы storage/service —
// наружу отдаётся только проекция Public().
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser — публичная проекция пользователя (без секретов).
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Public возвращает публичную проекцию пользователя.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
