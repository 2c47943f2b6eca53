package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cipherbox/cipherbox/internal/store"
)

type optionsHandler struct {
	options *store.APIOptionStore
}

func registerOptionRoutes(r chi.Router, options *store.APIOptionStore) {
	h := &optionsHandler{options: options}
	r.Get("/api-options", h.List)
	r.Post("/api-options", h.Create)
	r.Put("/api-options/{id}", h.Update)
	r.Delete("/api-options/{id}", h.Delete)
}

// List returns all resolver options.
// GET /api/api-options
func (h *optionsHandler) List(w http.ResponseWriter, r *http.Request) {
	options, err := h.options.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// Create registers a resolver option.
// POST /api/api-options
func (h *optionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAPIOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "BAD_REQUEST")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	option, err := h.options.Create(r.Context(), req.Name, req.Field, req.URL, active)
	if errors.Is(err, store.ErrDuplicateName) {
		writeError(w, http.StatusConflict, "api option already exists", "DUPLICATE_NAME")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, option)
}

// Update toggles a resolver option's availability.
// PUT /api/api-options/{id}
func (h *optionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateAPIOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	option, err := h.options.SetActive(r.Context(), chi.URLParam(r, "id"), req.IsActive)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "api option not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, option)
}

// Delete removes a resolver option.
// DELETE /api/api-options/{id}
func (h *optionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.options.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "api option not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
