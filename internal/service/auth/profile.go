package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/pkg/log"
	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

// UpdateProfileInput — частичный апдейт профиля.
// Обновляются только поля с непустыми указателями.
// Смена пароля: NewPassword требует OldPassword (проверяется против хэша).
type UpdateProfileInput struct {
	Username    *string
	Email       *string
	NewPassword *string
	OldPassword *string
}

// ProfileByID возвращает пользователя по идентификатору.
func (s *Service) ProfileByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "service.auth.ProfileByID"

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UpdateProfile выполняет частичное обновление профиля.
//
// Правила:
//   - new_password без old_password — ErrInvalidArgument;
//     неверный old_password — ErrInvalidCredentials;
//   - проверки уникальности выполняются только для полей, значение которых
//     действительно меняется — апдейт с текущим email/username не конфликтует
//     сам с собой;
//   - порядок проверок конфликтов тот же, что при регистрации: email, затем username.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	const op = "service.auth.UpdateProfile"

	lg := log.From(ctx).With("op", op, "user_id", id.String())

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	upd := storage.UserUpdate{}

	if in.Email != nil {
		normEmail, vErr := validateEmail(*in.Email)
		if vErr != nil {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
		}

		if normEmail != user.Email {
			taken, exErr := s.storage.EmailExists(ctx, normEmail)
			if exErr != nil {
				return nil, fmt.Errorf("%s: %w", op, exErr)
			}
			if taken {
				return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
			}

			upd.Email = &normEmail
		}
	}

	if in.Username != nil {
		username, vErr := validateUsername(*in.Username)
		if vErr != nil {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidUsername)
		}

		if username != user.Username {
			taken, exErr := s.storage.UsernameExists(ctx, username)
			if exErr != nil {
				return nil, fmt.Errorf("%s: %w", op, exErr)
			}
			if taken {
				return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
			}

			upd.Username = &username
		}
	}

	if in.NewPassword != nil {
		if in.OldPassword == nil {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		if !checkPassword(user.PasswordHash, *in.OldPassword) {
			lg.Warn("old_password_mismatch")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		if vErr := validatePassword(*in.NewPassword); vErr != nil {
			return nil, fmt.Errorf("%s: %w", op, vErr)
		}

		hash, hErr := hashPassword(*in.NewPassword)
		if hErr != nil {
			return nil, fmt.Errorf("%s: %w", op, hErr)
		}

		upd.PasswordHash = &hash
	}

	updated, err := s.storage.UpdateUser(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrAlreadyExists):
			// Гонка с параллельной регистрацией/апдейтом.
			email := user.Email
			if upd.Email != nil {
				email = *upd.Email
			}
			return nil, fmt.Errorf("%s: %w", op, s.conflictError(ctx, email))
		default:
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	lg.Info("profile_updated")

	return updated, nil
}
