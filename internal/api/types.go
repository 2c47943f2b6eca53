package api

import (
	"encoding/json"

	"github.com/cipherbox/cipherbox/internal/store"
)

// CreateMediaRequest adds one or more share links to the catalog.
type CreateMediaRequest struct {
	URLs []string `json:"urls"`
}

// CreateMediaResult reports the outcome for a single submitted URL.
type CreateMediaResult struct {
	URL    string           `json:"url"`
	Status string           `json:"status"` // created_new or created_duplicate
	Item   *store.MediaItem `json:"item"`
}

// CreateMediaResponse is the per-URL outcome list for a create request.
type CreateMediaResponse struct {
	Results []CreateMediaResult `json:"results"`
}

// MediaItemResponse is a media item together with its tags and categories.
type MediaItemResponse struct {
	*store.MediaItem
	SizeHuman  *string           `json:"sizeHuman"`
	Tags       []*store.Tag      `json:"tags"`
	Categories []*store.Category `json:"categories"`
}

// MediaListResponse is a page of media items.
type MediaListResponse struct {
	Items []*MediaItemResponse `json:"items"`
	Total int                  `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// UpdateMediaRequest carries optional edits to a media item. Absent fields
// are left unchanged.
type UpdateMediaRequest struct {
	URL         *string `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
	Type        *string `json:"type"`
}

// SetMetadataRequest overrides the resolver-owned metadata fields by hand.
type SetMetadataRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
	Size        *int64  `json:"size"`
	Type        string  `json:"type"`
}

// DownloadRequest asks a named resolver for a playable URL.
type DownloadRequest struct {
	APIID    string `json:"apiId"`
	MediaURL string `json:"mediaUrl"`
}

// DownloadResponse relays the upstream payload plus the extracted playable
// URL when one was found. Response holds the raw JSON payload; RawText holds
// non-JSON passthrough bodies instead.
type DownloadResponse struct {
	Resolver    string          `json:"resolver"`
	PlayableURL *string         `json:"playableUrl"`
	Response    json.RawMessage `json:"response,omitempty"`
	RawText     string          `json:"rawText,omitempty"`
}

// DuplicatesResponse groups duplicate items by URL.
type DuplicatesResponse struct {
	Groups map[string][]*store.MediaItem `json:"groups"`
}

// DuplicatesCountResponse is the number of URLs with more than one item.
type DuplicatesCountResponse struct {
	Count int `json:"count"`
}

// CreateNamedRequest creates a tag or category.
type CreateNamedRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// AttachRequest attaches a tag or category to a media item by name, creating
// it on first use.
type AttachRequest struct {
	Name string `json:"name"`
}

// CreateAPIOptionRequest registers a resolver choice. URL is optional and
// only meaningful for externally hosted services.
type CreateAPIOptionRequest struct {
	Name     string `json:"name"`
	Field    string `json:"field"`
	URL      string `json:"url"`
	IsActive *bool  `json:"isActive"`
}

// UpdateAPIOptionRequest toggles a resolver choice.
type UpdateAPIOptionRequest struct {
	IsActive bool `json:"isActive"`
}
