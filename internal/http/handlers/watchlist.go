package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-movie-catalog/internal/http/errors"
	mw "github.com/pribylovaa/go-movie-catalog/internal/http/middleware"
	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/service/catalog"
)

type watchlistResponse struct {
	Items []models.WatchlistItem `json:"items"`
}

// Watchlist — GET /watchlist (защищён Authenticate).
// Владелец определяется по claims; чужой вотчлист недоступен по построению.
func (h *Handlers) Watchlist(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.ClaimsFromContext(r.Context())
	if !ok {
		apierrors.Write(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	items, err := h.Catalog.Watchlist(r.Context(), claims.UserID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, watchlistResponse{Items: items})
}

// AddToWatchlist — POST /watchlist/{movie_id} (защищён Authenticate).
func (h *Handlers) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.ClaimsFromContext(r.Context())
	if !ok {
		apierrors.Write(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	movieID, err := uuidParam(r, "movie_id")
	if err != nil {
		apierrors.WriteError(w, r, catalog.ErrNotFound)
		return
	}

	if err := h.Catalog.AddToWatchlist(r.Context(), claims.UserID, movieID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveFromWatchlist — DELETE /watchlist/{movie_id} (защищён Authenticate).
func (h *Handlers) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.ClaimsFromContext(r.Context())
	if !ok {
		apierrors.Write(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	movieID, err := uuidParam(r, "movie_id")
	if err != nil {
		apierrors.WriteError(w, r, catalog.ErrNotFound)
		return
	}

	if err := h.Catalog.RemoveFromWatchlist(r.Context(), claims.UserID, movieID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
