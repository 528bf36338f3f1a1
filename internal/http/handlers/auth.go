package handlers

import (
	"net/http"
	"time"

	"github.com/pribylovaa/go-movie-catalog/internal/http/cookies"
	apierrors "github.com/pribylovaa/go-movie-catalog/internal/http/errors"
	mw "github.com/pribylovaa/go-movie-catalog/internal/http/middleware"
	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/service/auth"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	NewPassword *string `json:"new_password"`
	OldPassword *string `json:"old_password"`
}

// sessionResponse — ответ login/refresh.
// Refresh-токен в тело не попадает: он едет только в HttpOnly-куке.
type sessionResponse struct {
	AccessToken     string            `json:"access_token"`
	AccessExpiresAt time.Time         `json:"access_expires_at"`
	User            models.PublicUser `json:"user"`
}

// RegisterUser — POST /auth/register.
// Создаёт пользователя с ролью user; токены НЕ выпускает — фронт
// ведёт пользователя на login.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, auth.ErrInvalidArgument)
		return
	}

	user, err := h.Auth.Register(r.Context(), auth.RegisterInput{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.Public())
}

// LoginUser — POST /auth/login.
// Принимает username ИЛИ email в поле login; на успех выставляет
// обе токен-куки и возвращает access-токен с публичным профилем.
func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, auth.ErrInvalidArgument)
		return
	}

	pair, user, err := h.Auth.Login(r.Context(), in.Login, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.Baker.SetPair(w, pair)
	writeJSON(w, http.StatusOK, sessionResponse{
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt,
		User:            user.Public(),
	})
}

// RefreshToken — POST /auth/refresh.
// Явная ротация по refresh-куке: каждый вызов мятит новую пару
// и перевыставляет обе куки. Отсутствие/невалидность куки — 401
// с очисткой, чтобы клиент не ретраил мёртвую сессию.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(cookies.RefreshCookie)
	if err != nil || c.Value == "" {
		h.Baker.Clear(w)
		apierrors.WriteError(w, r, auth.ErrInvalidToken)
		return
	}

	pair, user, err := h.Auth.Refresh(r.Context(), c.Value)
	if err != nil {
		h.Baker.Clear(w)
		apierrors.WriteError(w, r, err)
		return
	}

	h.Baker.SetPair(w, pair)
	writeJSON(w, http.StatusOK, sessionResponse{
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt,
		User:            user.Public(),
	})
}

// LogoutUser — POST /auth/logout.
// Токены stateless, поэтому logout — это очистка кук тем же набором
// атрибутов, которым они ставились. Идемпотентен: повторный вызов
// без кук так же отвечает 204.
func (h *Handlers) LogoutUser(w http.ResponseWriter, r *http.Request) {
	h.Baker.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me — GET /auth/me (защищён Authenticate).
// Профиль читается из БД, а не из claims: после смены email/username
// старый access-токен ещё жив и его claims могли устареть.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.ClaimsFromContext(r.Context())
	if !ok {
		apierrors.Write(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	user, err := h.Auth.ProfileByID(r.Context(), claims.UserID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}

// UpdateMe — PATCH /auth/me (защищён Authenticate).
// Частичное обновление профиля; смена пароля требует old_password.
func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.ClaimsFromContext(r.Context())
	if !ok {
		apierrors.Write(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	var in updateProfileRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, auth.ErrInvalidArgument)
		return
	}

	user, err := h.Auth.UpdateProfile(r.Context(), claims.UserID, auth.UpdateProfileInput{
		Username:    in.Username,
		Email:       in.Email,
		NewPassword: in.NewPassword,
		OldPassword: in.OldPassword,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}
