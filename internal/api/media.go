package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cipherbox/cipherbox/internal/extract"
	"github.com/cipherbox/cipherbox/internal/metrics"
	"github.com/cipherbox/cipherbox/internal/proxy"
	"github.com/cipherbox/cipherbox/internal/resolver"
	"github.com/cipherbox/cipherbox/internal/store"
)

// mediaHandler provides REST handlers for the media catalog.
type mediaHandler struct {
	media      store.MediaStoreIface
	tags       store.TagStoreIface
	categories *store.CategoryStore
	options    *store.APIOptionStore
	reconciler *resolver.Reconciler
	registry   *proxy.Registry
	quality    string
}

func registerMediaRoutes(r chi.Router, deps Deps) {
	h := &mediaHandler{
		media:      deps.Media,
		tags:       deps.Tags,
		categories: deps.Categories,
		options:    deps.Options,
		reconciler: deps.Reconciler,
		registry:   deps.Registry,
		quality:    deps.PreferredQuality,
	}
	r.Get("/media", h.List)
	// Alias kept for clients that page through the catalog.
	r.Get("/media/pages", h.List)
	r.Post("/media", h.Create)
	r.Get("/media/duplicates", h.Duplicates)
	r.Get("/media/duplicates/count", h.DuplicatesCount)
	r.Get("/media/{id}", h.Get)
	r.Put("/media/{id}", h.Update)
	r.Delete("/media/{id}", h.Delete)
	r.Post("/media/{id}/metadata", h.SetMetadata)
	r.Post("/media/{id}/refresh", h.Refresh)
	r.Post("/media/{id}/download", h.Download)
}

func (h *mediaHandler) toResponse(ctx context.Context, item *store.MediaItem) (*MediaItemResponse, error) {
	tags, err := h.tags.ListForItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	categories, err := h.categories.ListForItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	resp := &MediaItemResponse{MediaItem: item, Tags: tags, Categories: categories}
	if item.Size != nil {
		human := resolver.HumanSize(*item.Size)
		resp.SizeHuman = &human
	}
	return resp, nil
}

// List returns a filtered page of media items.
// GET /api/media
//
// Stale items in the page are reconciled in the background; the request
// never waits on upstream.
func (h *mediaHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := store.SearchParams{
		Search:    q.Get("search"),
		Type:      q.Get("type"),
		SizeRange: q.Get("size"),
	}
	if v := q.Get("tags"); v != "" {
		params.Tags = strings.Split(v, ",")
	}
	if v := q.Get("categories"); v != "" {
		params.Categories = strings.Split(v, ",")
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		params.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		params.Limit = v
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}

	items, total, err := h.media.Search(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := &MediaListResponse{
		Items: make([]*MediaItemResponse, 0, len(items)),
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}
	for _, item := range items {
		ir, err := h.toResponse(r.Context(), item)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
			return
		}
		resp.Items = append(resp.Items, ir)

		if resolver.NeedsRefresh(item) {
			h.reconcileAsync(item.ID)
		}
	}

	metrics.MediaItemsTotal.Set(float64(total))
	writeJSON(w, http.StatusOK, resp)
}

// reconcileAsync refreshes an item's metadata without blocking the request.
// The in-flight guard in the reconciler collapses duplicate triggers.
func (h *mediaHandler) reconcileAsync(id string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.reconciler.Reconcile(ctx, id); err != nil {
			log.Printf("background reconcile %s: %v", id, err)
		}
	}()
}

// Create adds media items from a list of share URLs.
// POST /api/media
func (h *mediaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls is required", "BAD_REQUEST")
		return
	}

	resp := &CreateMediaResponse{Results: make([]CreateMediaResult, 0, len(req.URLs))}
	for _, rawURL := range req.URLs {
		rawURL = strings.TrimSpace(rawURL)
		if rawURL == "" {
			continue
		}

		status := "created_new"
		if _, err := h.media.GetByURL(r.Context(), rawURL); err == nil {
			status = "created_duplicate"
		} else if !errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
			return
		}

		item, err := h.media.Create(r.Context(), rawURL, "Processing...")
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
			return
		}

		h.reconcileAsync(item.ID)
		resp.Results = append(resp.Results, CreateMediaResult{URL: rawURL, Status: status, Item: item})
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get returns a single media item with its tags and categories.
// GET /api/media/{id}
func (h *mediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.media.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "media item not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp, err := h.toResponse(r.Context(), item)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update edits user-editable fields of a media item.
// PUT /api/media/{id}
func (h *mediaHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	item, err := h.media.Update(r.Context(), chi.URLParam(r, "id"), store.UpdateFields{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		Type:        req.Type,
	})
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "media item not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete removes a media item.
// DELETE /api/media/{id}
func (h *mediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.media.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "media item not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetMetadata overrides resolved metadata by hand.
// POST /api/media/{id}/metadata
func (h *mediaHandler) SetMetadata(w http.ResponseWriter, r *http.Request) {
	var req SetMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required", "BAD_REQUEST")
		return
	}

	id := chi.URLParam(r, "id")
	err := h.media.SetMetadata(r.Context(), id, store.ItemMetadata{
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		Size:        req.Size,
		Type:        req.Type,
		ScrapedAt:   time.Now().UTC(),
	})
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "media item not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	item, err := h.media.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Refresh re-runs metadata resolution for an item and waits for the result.
// POST /api/media/{id}/refresh
func (h *mediaHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.media.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "media item not found", "NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	// Resolution failures are persisted on the item's error field, so the
	// refreshed item is returned either way.
	if err := h.reconciler.Reconcile(r.Context(), id); err != nil {
		log.Printf("refresh %s: %v", id, err)
	}

	item, err := h.media.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	resp, err := h.toResponse(r.Context(), item)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Download resolves a playable URL through the chosen proxy resolver and
// relays the upstream payload.
// POST /api/media/{id}/download
func (h *mediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.APIID == "" || req.MediaURL == "" {
		writeError(w, http.StatusBadRequest, "apiId and mediaUrl are required", "BAD_REQUEST")
		return
	}

	option, err := h.options.GetByID(r.Context(), req.APIID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "api option not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	if !option.IsActive {
		writeError(w, http.StatusBadRequest, "api option is disabled", "OPTION_DISABLED")
		return
	}

	spec, err := h.registry.Get(option.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "no resolver for api option", "UNKNOWN_RESOLVER")
		return
	}

	raw, err := spec.Resolver.Resolve(r.Context(), req.MediaURL)
	if err != nil {
		log.Printf("download via %s: %v", option.Name, err)
		writeError(w, http.StatusBadGateway, "upstream resolver failed", "UPSTREAM_ERROR")
		return
	}

	resp := &DownloadResponse{Resolver: option.Name}
	if u, ok := extract.PlayableURL(raw, h.quality); ok {
		resp.PlayableURL = &u
	}
	if json.Valid(raw) {
		resp.Response = json.RawMessage(raw)
	} else {
		resp.RawText = string(raw)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Duplicates returns items grouped by shared URL.
// GET /api/media/duplicates
func (h *mediaHandler) Duplicates(w http.ResponseWriter, r *http.Request) {
	groups, err := h.media.Duplicates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, &DuplicatesResponse{Groups: groups})
}

// DuplicatesCount returns the number of URLs with duplicate items.
// GET /api/media/duplicates/count
func (h *mediaHandler) DuplicatesCount(w http.ResponseWriter, r *http.Request) {
	groups, err := h.media.Duplicates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, &DuplicatesCountResponse{Count: len(groups)})
}
