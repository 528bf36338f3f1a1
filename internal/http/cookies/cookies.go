// cookies инкапсулирует транспортную политику токенов:
// имена кук, пути, флаги и времена жизни в одном месте, чтобы
// установка и очистка всегда были зеркальными (браузер удаляет куку
// только при точном совпадении Path и флагов).
package cookies

import (
	"net/http"
	"path"
	"time"

	"github.com/pribylovaa/go-movie-catalog/internal/config"
	"github.com/pribylovaa/go-movie-catalog/internal/models"
)

// Имена кук — контракт с фронтом.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// Baker выставляет и чистит токен-куки.
//
// Политика:
//   - обе куки HttpOnly + SameSite=Lax;
//   - Secure включается только в prod (локальная разработка идёт по http);
//   - access-кука доступна всем роутам (Path=/);
//   - refresh-кука ограничена путём auth-роутов (<base_path>/auth),
//     чтобы долгоживущий токен не ездил с каждым запросом к каталогу.
type Baker struct {
	authPath string
	secure   bool
}

// NewBaker собирает Baker из конфигурации.
func NewBaker(cfg *config.Config) Baker {
	return Baker{
		authPath: path.Join("/", cfg.HTTP.BasePath, "auth"),
		secure:   cfg.Env == "prod",
	}
}

// AuthPath возвращает путь, которым ограничена refresh-кука.
func (b Baker) AuthPath() string {
	return b.authPath
}

// SetPair выставляет обе куки по свежевыпущенной паре токенов.
// MaxAge считается от моментов истечения, чтобы кука умирала
// синхронно с токеном внутри неё.
func (b Baker) SetPair(w http.ResponseWriter, pair *models.TokenPair) {
	http.SetCookie(w, b.access(pair.AccessToken, maxAge(pair.AccessExpiresAt)))
	http.SetCookie(w, b.refresh(pair.RefreshToken, maxAge(pair.RefreshExpiresAt)))
}

// Clear удаляет обе куки. Вызывается на logout и на любой
// неуспех аутентификации, чтобы клиент не зациклился на мёртвой сессии.
func (b Baker) Clear(w http.ResponseWriter) {
	http.SetCookie(w, b.access("", -1))
	http.SetCookie(w, b.refresh("", -1))
}

func (b Baker) access(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     AccessCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (b Baker) refresh(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookie,
		Value:    value,
		Path:     b.authPath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func maxAge(expiresAt time.Time) int {
	age := int(time.Until(expiresAt).Seconds())
	if age <= 0 {
		return -1
	}

	return age
}
