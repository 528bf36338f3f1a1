package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-movie-catalog/internal/http/cookies"
	apierrors "github.com/pribylovaa/go-movie-catalog/internal/http/errors"
	"github.com/pribylovaa/go-movie-catalog/internal/models"
	logctx "github.com/pribylovaa/go-movie-catalog/internal/pkg/log"
	"github.com/pribylovaa/go-movie-catalog/internal/pkg/redact"
	"github.com/pribylovaa/go-movie-catalog/internal/service/auth"
)

type ctxKeyClaims struct{}

// ClaimsFromContext возвращает claims аутентифицированного пользователя,
// положенные мидлваром Authenticate.
func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(ctxKeyClaims{}).(*models.Claims)
	return claims, ok
}

// Authenticate — гейт для защищённых роутов с прозрачной ротацией сессии.
//
// Извлечение access-токена: заголовок Authorization (Bearer) имеет приоритет
// над кукой access_token.
//
// Сценарии:
//   - токена нет -> 401 "access token required", куки чистятся;
//   - токен валиден -> claims кладутся в контекст, запрос идёт дальше;
//   - токен истёк -> пробуем refresh-куку: успех ротации означает новые
//     куки в ответе и продолжение запроса без участия клиента;
//     отсутствие куки -> 401 "session expired";
//     неуспех ротации -> 401 "authentication failed", куки чистятся;
//   - токен повреждён/подделан -> 401 сразу, refresh НЕ предпринимается.
func Authenticate(svc *auth.Service, baker cookies.Baker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lg := logctx.From(r.Context())

			token := bearerToken(r)
			if token == "" {
				if c, err := r.Cookie(cookies.AccessCookie); err == nil {
					token = c.Value
				}
			}

			if token == "" {
				unauthorized(w, r, baker, "access token required")
				return
			}

			claims, err := svc.Authenticate(r.Context(), token)
			switch {
			case err == nil:
				// валидный access-токен, ротация не нужна.

			case errors.Is(err, auth.ErrTokenExpired):
				// Refresh-кука ограничена путём auth-роутов и сюда не доезжает,
				// если запрос шёл мимо <base_path>/auth. Фронт в таком случае
				// получает 401 и повторяет запрос после POST /auth/refresh.
				rc, cerr := r.Cookie(cookies.RefreshCookie)
				if cerr != nil || rc.Value == "" {
					unauthorized(w, r, baker, "session expired")
					return
				}

				pair, _, rerr := svc.Refresh(r.Context(), rc.Value)
				if rerr != nil {
					lg.Warn("transparent_refresh_failed",
						"refresh_token", redact.Token(rc.Value), "err", rerr)
					unauthorized(w, r, baker, "authentication failed")
					return
				}

				claims, err = svc.Authenticate(r.Context(), pair.AccessToken)
				if err != nil {
					unauthorized(w, r, baker, "authentication failed")
					return
				}

				baker.SetPair(w, pair)
				lg.Debug("access_token_rotated", "user_id", claims.UserID.String())

			default:
				// Повреждённый/подделанный токен: немедленный отказ,
				// refresh для таких токенов не выполняется.
				unauthorized(w, r, baker, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyClaims{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole пропускает только пользователей с указанной ролью.
// Вешается строго после Authenticate.
func RequireRole(role models.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				apierrors.Write(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
				return
			}

			if claims.Role != role {
				logctx.From(r.Context()).Warn("role_denied",
					"user_id", claims.UserID.String(),
					"role", string(claims.Role),
					"required", string(role),
				)
				apierrors.WriteError(w, r, auth.ErrPermissionDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// unauthorized чистит обе токен-куки и пишет 401 с заданным текстом.
// Очистка не даёт клиенту зациклиться на мёртвой паре токенов.
func unauthorized(w http.ResponseWriter, r *http.Request, baker cookies.Baker, message string) {
	baker.Clear(w)
	apierrors.Write(w, r, http.StatusUnauthorized, "unauthenticated", message)
}

// bearerToken извлекает токен из Authorization: Bearer <token>.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) || len(header) <= len(prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}
