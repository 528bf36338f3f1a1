package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-movie-catalog/internal/http/cookies"
	"github.com/pribylovaa/go-movie-catalog/internal/service/auth"
	"github.com/pribylovaa/go-movie-catalog/internal/service/catalog"
)

// Handlers агрегирует зависимости REST-слоя.
type Handlers struct {
	Auth    *auth.Service
	Catalog *catalog.Service
	Baker   cookies.Baker
}

func New(authSvc *auth.Service, catalogSvc *catalog.Service, baker cookies.Baker) *Handlers {
	return &Handlers{
		Auth:    authSvc,
		Catalog: catalogSvc,
		Baker:   baker,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// uuidParam извлекает и парсит uuid из URL-параметра chi.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
