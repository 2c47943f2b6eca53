package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cipherbox/cipherbox/internal/store"
)

type categoriesHandler struct {
	categories *store.CategoryStore
	media      store.MediaStoreIface
}

func registerCategoryRoutes(r chi.Router, categories *store.CategoryStore, media store.MediaStoreIface) {
	h := &categoriesHandler{categories: categories, media: media}
	r.Get("/categories", h.List)
	r.Post("/categories", h.Create)
	r.Delete("/categories/{id}", h.Delete)
	r.Post("/media/{id}/categories", h.Attach)
	r.Delete("/media/{id}/categories/{categoryId}", h.Detach)
}

// List returns all categories.
// GET /api/categories
func (h *categoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Create creates a category.
// POST /api/categories
func (h *categoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNamedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "BAD_REQUEST")
		return
	}

	category, err := h.categories.Create(r.Context(), req.Name, req.Color)
	if errors.Is(err, store.ErrDuplicateName) {
		writeError(w, http.StatusConflict, "category already exists", "DUPLICATE_NAME")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// Delete removes a category and all its associations.
// DELETE /api/categories/{id}
func (h *categoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.categories.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "category not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Attach categorizes a media item by name, creating the category on first
// use.
// POST /api/media/{id}/categories
func (h *categoriesHandler) Attach(w http.ResponseWriter, r *http.Request) {
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

	category, err := h.categories.GetByName(r.Context(), req.Name)
	if errors.Is(err, store.ErrNotFound) {
		category, err = h.categories.Create(r.Context(), req.Name, "")
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	if err := h.categories.Attach(r.Context(), itemID, category.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Detach removes a category from a media item.
// DELETE /api/media/{id}/categories/{categoryId}
func (h *categoriesHandler) Detach(w http.ResponseWriter, r *http.Request) {
	err := h.categories.Detach(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "categoryId"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "category not attached", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
