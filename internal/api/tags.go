package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cipherbox/cipherbox/internal/store"
)

type tagsHandler struct {
	tags  store.TagStoreIface
	media store.MediaStoreIface
}

func registerTagRoutes(r chi.Router, tags store.TagStoreIface, media store.MediaStoreIface) {
	h := &tagsHandler{tags: tags, media: media}
	r.Get("/tags", h.List)
	r.Post("/tags", h.Create)
	r.Delete("/tags/{id}", h.Delete)
	r.Post("/media/{id}/tags", h.Attach)
	r.Delete("/media/{id}/tags/{tagId}", h.Detach)
}

// List returns all tags.
// GET /api/tags
func (h *tagsHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// Create creates a tag.
// POST /api/tags
func (h *tagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNamedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "BAD_REQUEST")
		return
	}

	tag, err := h.tags.Create(r.Context(), req.Name, req.Color)
	if errors.Is(err, store.ErrDuplicateName) {
		writeError(w, http.StatusConflict, "tag already exists", "DUPLICATE_NAME")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// Delete removes a tag and all its associations.
// DELETE /api/tags/{id}
func (h *tagsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.tags.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "tag not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Attach tags a media item by tag name, creating the tag on first use.
// POST /api/media/{id}/tags
func (h *tagsHandler) Attach(w http.ResponseWriter, r *http.Request) {
	var req AttachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "BAD_REQUEST")
		return
	}

	itemID := chi.URLParam(r, "id")
	if _, err := h.media.GetByID(r.Context(), itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "media item not found", "NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	tag, err := h.tags.GetByName(r.Context(), req.Name)
	if errors.Is(err, store.ErrNotFound) {
		tag, err = h.tags.Create(r.Context(), req.Name, "")
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	if err := h.tags.Attach(r.Context(), itemID, tag.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// Detach removes a tag from a media item.
// DELETE /api/media/{id}/tags/{tagId}
func (h *tagsHandler) Detach(w http.ResponseWriter, r *http.Request) {
	err := h.tags.Detach(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tagId"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "tag not attached", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
