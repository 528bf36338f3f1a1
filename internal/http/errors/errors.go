// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает ошибку (сентинел сервисного слоя),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Источник истинности по маппингу: комментарии к переменным ошибок
// в пакетах service/auth и service/catalog.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-movie-catalog/internal/service/auth"
	"github.com/pribylovaa/go-movie-catalog/internal/service/catalog"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку сервисного слоя в HTTP-статус и
// унифицированный ответ для фронта.
//
// Поведение:
//   - err == nil — это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
//   - неизвестная ошибка — 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := baseFromErr(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	writeResponse(w, r, status, resp)
}

// Write пишет ответ с явными статусом/кодом/сообщением.
// Используется middleware аутентификации, которому важен точный текст 401
// (access token required / session expired / authentication failed).
func Write(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeResponse(w, r, status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: message,
		},
	})
}

func writeResponse(w http.ResponseWriter, r *http.Request, status int, resp ErrorResponse) {
	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// baseFromErr — базовый маппинг сентинел -> HTTP/FE-код/сообщение:
//   - конфликты уникальности (email/username/вотчлист) -> 409
//   - невалидные креденшлы/токены -> 401 (без уточнения причины)
//   - недостаточная роль -> 403
//   - отсутствующая сущность -> 404
//   - битый вход/курсор/слабый пароль -> 400
//   - постеры не сконфигурированы -> 503
//   - Canceled -> 499 (клиент закрыл соединение)
//   - DeadlineExceeded -> 504
//   - прочее -> 500/internal
func baseFromErr(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"

	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, "email_taken", "email already taken"
	case errors.Is(err, auth.ErrUsernameTaken):
		return http.StatusConflict, "username_taken", "username already taken"
	case errors.Is(err, catalog.ErrAlreadyExists):
		return http.StatusConflict, "already_exists", "already exists"

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"

	case errors.Is(err, auth.ErrPermissionDenied),
		errors.Is(err, catalog.ErrPermissionDenied):
		return http.StatusForbidden, "permission_denied", "permission denied"

	case errors.Is(err, auth.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"

	case errors.Is(err, auth.ErrInvalidEmail):
		return http.StatusBadRequest, "invalid_email", "invalid email format"
	case errors.Is(err, auth.ErrInvalidUsername):
		return http.StatusBadRequest, "invalid_username", "invalid username format"
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrEmptyPassword):
		return http.StatusBadRequest, "weak_password", "password does not meet policy"
	case errors.Is(err, auth.ErrInvalidArgument),
		errors.Is(err, catalog.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"

	case errors.Is(err, catalog.ErrPostersDisabled):
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"

	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"

	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
