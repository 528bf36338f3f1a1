package handlers

import (
	"net/http"
	"strconv"

	apierrors "github.com/pribylovaa/go-movie-catalog/internal/http/errors"
	mw "github.com/pribylovaa/go-movie-catalog/internal/http/middleware"
	"github.com/pribylovaa/go-movie-catalog/internal/service/catalog"
)

type createCommentRequest struct {
	Content string `json:"content"`
}

// ListComments — GET /movies/{id}/comments (публичный).
func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, catalog.ErrNotFound)
		return
	}

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

	page, err := h.Catalog.ListComments(r.Context(), catalog.ListCommentsInput{
		MovieID:   movieID,
		PageSize:  size,
		PageToken: q.Get("page_token"),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// CreateComment — POST /movies/{id}/comments (защищён Authenticate).
// Автор берётся из claims: подписаться чужим именем нельзя.
func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.ClaimsFromContext(r.Context())
	if !ok {
		apierrors.Write(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	movieID, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, catalog.ErrNotFound)
		return
	}

	var in createCommentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, catalog.ErrInvalidArgument)
		return
	}

	comment, err := h.Catalog.CreateComment(r.Context(), catalog.CreateCommentInput{
		MovieID:  movieID,
		UserID:   claims.UserID,
		Username: claims.Username,
		Content:  in.Content,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// DeleteComment — DELETE /comments/{id} (защищён Authenticate).
// Удалять может автор или администратор.
func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.ClaimsFromContext(r.Context())
	if !ok {
		apierrors.Write(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, catalog.ErrNotFound)
		return
	}

	if err := h.Catalog.DeleteComment(r.Context(), id, claims); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
