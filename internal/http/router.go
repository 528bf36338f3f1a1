package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-movie-catalog/internal/http/cookies"
	"github.com/pribylovaa/go-movie-catalog/internal/http/handlers"
	"github.com/pribylovaa/go-movie-catalog/internal/http/middleware"
	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/service/auth"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, authSvc *auth.Service, baker cookies.Baker, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(),            // счётчики/гистограммы запросов
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	authenticate := middleware.Authenticate(authSvc, baker)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Регистрация маршрутов.
	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, authenticate, adminOnly)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, authenticate, adminOnly)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, authenticate, adminOnly middleware.Middleware) {
	// auth: открытая часть жизненного цикла сессии.
	r.Post("/auth/register", h.RegisterUser)
	r.Post("/auth/login", h.LoginUser)
	r.Post("/auth/refresh", h.RefreshToken)
	r.Post("/auth/logout", h.LogoutUser)

	// каталог: чтение публично.
	r.Get("/movies", h.ListMovies)
	r.Get("/movies/{id}", h.GetMovieByID)
	r.Get("/movies/{id}/comments", h.ListComments)

	// всё, что требует живой сессии.
	r.Group(func(pr chi.Router) {
		pr.Use(authenticate)

		pr.Get("/auth/me", h.Me)
		pr.Patch("/auth/me", h.UpdateMe)

		pr.Get("/watchlist", h.Watchlist)
		pr.Post("/watchlist/{movie_id}", h.AddToWatchlist)
		pr.Delete("/watchlist/{movie_id}", h.RemoveFromWatchlist)

		pr.Post("/movies/{id}/comments", h.CreateComment)
		pr.Delete("/comments/{id}", h.DeleteComment)
	})

	// управление каталогом: только admin.
	r.Group(func(ar chi.Router) {
		ar.Use(authenticate, adminOnly)

		ar.Post("/movies", h.CreateMovie)
		ar.Patch("/movies/{id}", h.UpdateMovie)
		ar.Delete("/movies/{id}", h.DeleteMovie)
		ar.Post("/movies/{id}/poster/presign", h.PosterPresign)
		ar.Post("/movies/{id}/poster/confirm", h.PosterConfirm)
	})
}
