package handlers

import (
	"net/http"
	"strconv"

	apierrors "github.com/pribylovaa/go-movie-catalog/internal/http/errors"
	mw "github.com/pribylovaa/go-movie-catalog/internal/http/middleware"
	"github.com/pribylovaa/go-movie-catalog/internal/service/catalog"
)

type createMovieRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Year        int32    `json:"year"`
}

type updateMovieRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Genres      *[]string `json:"genres"`
	Year        *int32    `json:"year"`
}

type posterPresignRequest struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
}

type posterConfirmRequest struct {
	Key string `json:"key"`
}

type posterPresignResponse struct {
	UploadURL      string            `json:"upload_url"`
	Key            string            `json:"key"`
	ExpiresSeconds int64             `json:"expires_seconds"`
	RequiredHeader map[string]string `json:"required_header,omitempty"`
}

// ListMovies — GET /movies (публичный).
// Пагинация курсорная: page_size + page_token из предыдущего ответа.
func (h *Handlers) ListMovies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var size int32
	if raw := q.Get("page_size"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			apierrors.WriteError(w, r, catalog.ErrInvalidArgument)
			return
		}
		size = int32(v)
	}

	page, err := h.Catalog.ListMovies(r.Context(), catalog.ListMoviesInput{
		PageSize:  size,
		PageToken: q.Get("page_token"),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// GetMovieByID — GET /movies/{id} (публичный).
func (h *Handlers) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		// Невалидный uuid неотличим от несуществующего фильма.
		apierrors.WriteError(w, r, catalog.ErrNotFound)
		return
	}

	movie, err := h.Catalog.MovieByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

// CreateMovie — POST /movies (только admin).
func (h *Handlers) CreateMovie(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.ClaimsFromContext(r.Context())
	if !ok {
		apierrors.Write(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	var in createMovieRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, catalog.ErrInvalidArgument)
		return
	}

	movie, err := h.Catalog.CreateMovie(r.Context(), catalog.CreateMovieInput{
		Title:       in.Title,
		Description: in.Description,
		Genres:      in.Genres,
		Year:        in.Year,
		CreatedBy:   claims.UserID,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, movie)
}

// UpdateMovie — PATCH /movies/{id} (только admin).
func (h *Handlers) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, catalog.ErrNotFound)
		return
	}

	var in updateMovieRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, catalog.ErrInvalidArgument)
		return
	}

	movie, err := h.Catalog.UpdateMovie(r.Context(), id, catalog.UpdateMovieInput{
		Title:       in.Title,
		Description: in.Description,
		Genres:      in.Genres,
		Year:        in.Year,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

// DeleteMovie — DELETE /movies/{id} (только admin).
func (h *Handlers) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, catalog.ErrNotFound)
		return
	}

	if err := h.Catalog.DeleteMovie(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PosterPresign — POST /movies/{id}/poster/presign (только admin).
// Выдаёт presigned PUT URL; сам файл едет в объектное хранилище напрямую.
func (h *Handlers) PosterPresign(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, catalog.ErrNotFound)
		return
	}

	var in posterPresignRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, catalog.ErrInvalidArgument)
		return
	}

	info, err := h.Catalog.PosterUploadURL(r.Context(), id, in.ContentType, in.ContentLength)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, posterPresignResponse{
		UploadURL:      info.UploadURL,
		Key:            info.PosterKey,
		ExpiresSeconds: int64(info.Expires.Seconds()),
		RequiredHeader: info.RequiredHeader,
	})
}

// PosterConfirm — POST /movies/{id}/poster/confirm (только admin).
// Проверяет, что объект действительно загружен, и фиксирует его в карточке.
func (h *Handlers) PosterConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, catalog.ErrNotFound)
		return
	}

	var in posterConfirmRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, catalog.ErrInvalidArgument)
		return
	}

	movie, err := h.Catalog.ConfirmPosterUpload(r.Context(), id, in.Key)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}
