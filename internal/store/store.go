package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a unique name is already taken.
	ErrDuplicateName = errors.New("name already exists")
)

// MediaStoreIface exposes all media item data operations.
// No handler may query the DB directly; all access goes through this interface.
type MediaStoreIface interface {
	Create(ctx context.Context, url, title string) (*MediaItem, error)
	GetByID(ctx context.Context, id string) (*MediaItem, error)
	GetByURL(ctx context.Context, url string) (*MediaItem, error)
	Search(ctx context.Context, params SearchParams) ([]*MediaItem, int, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*MediaItem, error)
	SetMetadata(ctx context.Context, id string, meta ItemMetadata) error
	SetScrapeError(ctx context.Context, id, msg string, scrapedAt time.Time) error
	Delete(ctx context.Context, id string) error
	Duplicates(ctx context.Context) (map[string][]*MediaItem, error)
}

// TagStoreIface exposes tag operations.
type TagStoreIface interface {
	Create(ctx context.Context, name, color string) (*Tag, error)
	GetByName(ctx context.Context, name string) (*Tag, error)
	ListAll(ctx context.Context) ([]*Tag, error)
	Delete(ctx context.Context, id string) error
	Attach(ctx context.Context, mediaItemID, tagID string) error
	Detach(ctx context.Context, mediaItemID, tagID string) error
	ListForItem(ctx context.Context, mediaItemID string) ([]*Tag, error)
}

// isUniqueConstraintError checks whether err indicates a unique constraint violation.
// Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
