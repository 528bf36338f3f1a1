package models

import (
	"time"

	"github.com/google/uuid"
)

// Claims — расшифрованное содержимое токена.
//
// Описание:
//   - UserID/Username/Email/Role присутствуют в обоих классах токенов;
//   - TokenID (jti) заполняется только для refresh-токенов: свежий UUID на каждый
//     выпуск, поэтому ротация даёт синтаксически новый токен даже для
//     неизменившегося пользователя. Зарезервирован под будущий блэклист.
type Claims struct {
	UserID   uuid.UUID
	Username string
	Email    string
	Role     Role
	TokenID  string
}

// TokenPair — пара токенов, выдаваемая при аутентификации/регистрации/ротации.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — долгоживущий JWT с jti, передаётся исключительно
//     в HttpOnly-куке, ограниченной путём auth-роутов;
//   - AccessExpiresAt/RefreshExpiresAt — моменты истечения (UTC), по ним
//     выставляется MaxAge соответствующих кук.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
