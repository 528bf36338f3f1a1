package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/pkg/log"
	"github.com/pribylovaa/go-movie-catalog/internal/pkg/redact"
	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

// RegisterInput — вход регистрации.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register регистрирует нового пользователя с ролью user.
//
// Уникальность проверяется в порядке: сначала email, затем username —
// оба поля глобально уникальны. Предварительные проверки дают точную ошибку
// конфликта; страховкой от гонки check-then-insert служат уникальные индексы БД.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "service.auth.Register"

	lg := log.From(ctx).With("op", op)

	normEmail, err := validateEmail(in.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	username, err := validateUsername(in.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	taken, err := s.storage.EmailExists(ctx, normEmail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		lg.Warn("email_taken", "email", redact.Email(normEmail))
		return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}

	taken, err = s.storage.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		lg.Warn("username_taken", "username", username)
		return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
	}

	hashedPassword, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        normEmail,
		Role:         models.RoleUser,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			// Гонка check-then-insert: уникальный индекс сработал после
			// успешных предварительных проверок. Уточняем, какое поле занято,
			// сохраняя порядок email-перед-username.
			return nil, fmt.Errorf("%s: %w", op, s.conflictError(ctx, normEmail))
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("user_registered", "user_id", user.ID.String())

	return user, nil
}

// Login выполняет вход по идентификатору (username или email) и паролю.
// Любая причина отказа — одинаковый ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, login, password string) (*models.TokenPair, *models.User, error) {
	const op = "service.auth.Login"

	login = strings.TrimSpace(login)
	if login == "" || len(password) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user, nil
}

// Refresh обновляет пару токенов по refresh-токену (полная ротация).
//
// Истёкший и битый refresh на этой границе неразличимы для вызывающего —
// оба случая дают 401; различие значимо только для access-токена в middleware.
// Единственный поход в БД — перечитывание пользователя по ID: токены stateless,
// но удалённый пользователь не должен продлевать сессию.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, *models.User, error) {
	const op = "service.auth.Refresh"

	claims, err := s.validateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	user, err := s.storage.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.From(ctx).Warn("refresh_user_gone",
				"op", op, "user_id", claims.UserID.String())
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user, nil
}

// Authenticate проверяет access-токен и возвращает его claims.
// Сохраняет различие ErrTokenExpired/ErrInvalidToken для middleware.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*models.Claims, error) {
	const op = "service.auth.Authenticate"

	claims, err := s.validateAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return claims, nil
}

// conflictError определяет, какое из уникальных полей вызвало конфликт.
func (s *Service) conflictError(ctx context.Context, email string) error {
	taken, err := s.storage.EmailExists(ctx, email)
	if err == nil && taken {
		return ErrEmailTaken
	}

	return ErrUsernameTaken
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}

// validateUsername нормализует username и проверяет политику формата:
// 3–32 символа, буквы/цифры/подчёркивание, без '@' (иначе login-поиск
// по username-или-email становится неоднозначным).
func validateUsername(raw string) (string, error) {
	const op = "service.auth.validateUsername"

	username := strings.TrimSpace(raw)
	if l := len([]rune(username)); l < 3 || l > 32 {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
	}

	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
		}
	}

	return username, nil
}

// validatePassword проверяет минимальные требования к паролю.
// Политика по умолчанию: длина >= 8, хотя бы одна строчная, заглавная, цифра и спецсимвол.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len([]rune(pw)) < 8 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}
