// auth содержит ядро аутентификации: выпуск/проверку пары access+refresh
// токенов, регистрацию/вход, ротацию refresh-токена и операции над профилем.
//
// Основные аспекты:
//   - Токены stateless: refresh — это JWT с jti, серверного реестра сессий нет.
//     Единственный поход в БД на ротации — проверка, что пользователь ещё существует.
//   - Экземпляр Service безопасен для конкурентного использования из разных
//     горутин при условии, что переданное хранилище потокобезопасно.
//   - Ошибки возвращаются сентинелами и далее маппятся HTTP-слоем
//     (см. комментарии к переменным ошибок ниже).
package auth

import (
	"errors"

	"github.com/pribylovaa/go-movie-catalog/internal/config"
	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Формулировка общая намеренно: не раскрываем, какое из полей не подошло.
	// HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен некорректен по формату/подписи либо подписан
	// чужим секретом (access предъявлен как refresh и наоборот). HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Для middleware это сигнал
	// к прозрачной ротации, а не ошибка. HTTP 401, если ротация невозможна.
	ErrTokenExpired = errors.New("token expired")

	// ErrEmailTaken — e-mail уже занят другим пользователем. HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrUsernameTaken — username уже занят другим пользователем. HTTP 409.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrPermissionDenied — аутентифицирован, но роль не даёт доступа. HTTP 403.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound — пользователь не найден (чтение профиля). HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument — некорректный вход операции
	// (например, new_password без old_password). HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidEmail — e-mail имеет некорректный формат. HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidUsername — username не проходит политику формата. HTTP 400.
	ErrInvalidUsername = errors.New("invalid username format")

	// ErrWeakPassword — пароль не удовлетворяет политикам сложности. HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")
)

// Service описывает ядро аутентификации и работы с профилями.
type Service struct {
	storage storage.UserStorage
	cfg     config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(storage storage.UserStorage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}
