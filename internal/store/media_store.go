package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Size range boundaries for search filtering, in bytes.
const (
	sizeSmallMax  = 100 * 1024 * 1024  // 100 MB
	sizeMediumMax = 1024 * 1024 * 1024 // 1 GB
)

// MediaItem represents a row in the media_items table.
type MediaItem struct {
	ID          string     `db:"id" json:"id"`
	URL         string     `db:"url" json:"url"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	Thumbnail   *string    `db:"thumbnail" json:"thumbnail"`
	Size        *int64     `db:"size" json:"size"`
	Type        *string    `db:"type" json:"type"`
	Error       *string    `db:"error" json:"error"`
	ScrapedAt   *time.Time `db:"scraped_at" json:"scrapedAt"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// SearchParams filters and paginates media item queries.
type SearchParams struct {
	Search     string
	Tags       []string
	Categories []string
	Type       string
	SizeRange  string // small, medium, large
	Page       int
	Limit      int
}

// UpdateFields holds optional updates for a media item. Nil fields are left
// unchanged.
type UpdateFields struct {
	URL         *string
	Title       *string
	Description *string
	Thumbnail   *string
	Type        *string
}

// ItemMetadata is the set of fields the resolver pipeline owns on a media item.
type ItemMetadata struct {
	Title       string
	Description *string
	Thumbnail   *string
	Size        *int64
	Type        string
	ScrapedAt   time.Time
}

// MediaStore is the sqlx-backed implementation of MediaStoreIface.
type MediaStore struct {
	db *sqlx.DB
}

func NewMediaStore(db *sqlx.DB) *MediaStore {
	return &MediaStore{db: db}
}

// Create inserts a new media item for url. Duplicate URLs are allowed; the
// duplicates report surfaces them later.
func (s *MediaStore) Create(ctx context.Context, url, title string) (*MediaItem, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media_items (id, url, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, url, title, now, now)
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// GetByID returns the media item matching id, or ErrNotFound.
func (s *MediaStore) GetByID(ctx context.Context, id string) (*MediaItem, error) {
	var m MediaItem
	err := s.db.GetContext(ctx, &m, `SELECT * FROM media_items WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByURL returns the first media item with the given URL, or ErrNotFound.
func (s *MediaStore) GetByURL(ctx context.Context, url string) (*MediaItem, error) {
	var m MediaItem
	err := s.db.GetContext(ctx, &m, `
		SELECT * FROM media_items WHERE url = ? ORDER BY created_at ASC LIMIT 1
	`, url)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Search returns matching media items and the total match count for pagination.
func (s *MediaStore) Search(ctx context.Context, params SearchParams) ([]*MediaItem, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}

	var where []string
	var args []interface{}

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		where = append(where, `(m.title LIKE ? OR m.url LIKE ? OR m.description LIKE ?)`)
		args = append(args, pattern, pattern, pattern)
	}
	if params.Type != "" {
		where = append(where, `m.type = ?`)
		args = append(args, params.Type)
	}
	switch params.SizeRange {
	case "small":
		where = append(where, `m.size < ?`)
		args = append(args, sizeSmallMax)
	case "medium":
		where = append(where, `m.size >= ? AND m.size < ?`)
		args = append(args, sizeSmallMax, sizeMediumMax)
	case "large":
		where = append(where, `m.size >= ?`)
		args = append(args, sizeMediumMax)
	}
	if len(params.Tags) > 0 {
		q, a, err := sqlx.In(`m.id IN (
			SELECT mt.media_item_id FROM media_item_tags mt
			INNER JOIN tags t ON t.id = mt.tag_id
			WHERE t.name IN (?))`, params.Tags)
		if err != nil {
			return nil, 0, err
		}
		where = append(where, q)
		args = append(args, a...)
	}
	if len(params.Categories) > 0 {
		q, a, err := sqlx.In(`m.id IN (
			SELECT mc.media_item_id FROM media_item_categories mc
			INNER JOIN categories c ON c.id = mc.category_id
			WHERE c.name IN (?))`, params.Categories)
		if err != nil {
			return nil, 0, err
		}
		where = append(where, q)
		args = append(args, a...)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := s.db.Rebind(`SELECT COUNT(*) FROM media_items m` + whereClause)
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.Limit
	query := s.db.Rebind(`SELECT m.* FROM media_items m` + whereClause + `
		ORDER BY m.created_at DESC LIMIT ? OFFSET ?`)
	fetchArgs := append(args, params.Limit, offset)

	var items []*MediaItem
	if err := s.db.SelectContext(ctx, &items, query, fetchArgs...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update applies the non-nil fields and returns the updated item.
func (s *MediaStore) Update(ctx context.Context, id string, fields UpdateFields) (*MediaItem, error) {
	set := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}

	add := func(col string, v *string) {
		if v != nil {
			set = append(set, col+" = ?")
			args = append(args, *v)
		}
	}
	add("url", fields.URL)
	add("title", fields.Title)
	add("description", fields.Description)
	add("thumbnail", fields.Thumbnail)
	add("type", fields.Type)

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE media_items SET %s WHERE id = ?`, strings.Join(set, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// SetMetadata writes the resolver-owned fields after a successful resolution
// and clears any previous scrape error.
func (s *MediaStore) SetMetadata(ctx context.Context, id string, meta ItemMetadata) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE media_items
		SET title = ?, description = ?, thumbnail = ?, size = ?, type = ?,
		    error = NULL, scraped_at = ?, updated_at = ?
		WHERE id = ?
	`, meta.Title, meta.Description, meta.Thumbnail, meta.Size, meta.Type,
		meta.ScrapedAt, now, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetScrapeError records a failed resolution. The scrape time is stamped so
// the item is not retried on every page load.
func (s *MediaStore) SetScrapeError(ctx context.Context, id, msg string, scrapedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE media_items SET error = ?, scraped_at = ?, updated_at = ? WHERE id = ?
	`, msg, scrapedAt, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a media item and its tag/category associations. The join
// rows are removed explicitly so the behavior does not depend on the driver
// enforcing foreign keys.
func (s *MediaStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM media_item_tags WHERE media_item_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM media_item_categories WHERE media_item_id = ?`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM media_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// Duplicates groups items sharing a URL, keyed by URL, for URLs with more
// than one item.
func (s *MediaStore) Duplicates(ctx context.Context) (map[string][]*MediaItem, error) {
	var items []*MediaItem
	err := s.db.SelectContext(ctx, &items, `
		SELECT * FROM media_items
		WHERE url IN (SELECT url FROM media_items GROUP BY url HAVING COUNT(*) > 1)
		ORDER BY url ASC, created_at ASC
	`)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]*MediaItem)
	for _, item := range items {
		groups[item.URL] = append(groups[item.URL], item)
	}
	return groups, nil
}
