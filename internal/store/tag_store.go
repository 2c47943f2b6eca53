package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Tag represents a row in the tags table.
type Tag struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Color     *string   `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// TagStore is the sqlx-backed implementation of TagStoreIface.
type TagStore struct {
	db *sqlx.DB
}

func NewTagStore(db *sqlx.DB) *TagStore {
	return &TagStore{db: db}
}

// Create inserts a new tag. Returns ErrDuplicateName if the name is taken.
func (s *TagStore) Create(ctx context.Context, name, color string) (*Tag, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	name = strings.TrimSpace(name)

	var colorPtr *string
	if color != "" {
		colorPtr = &color
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, created_at) VALUES (?, ?, ?, ?)
	`, id, name, colorPtr, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	return &Tag{ID: id, Name: name, Color: colorPtr, CreatedAt: now}, nil
}

// GetByName returns the tag matching name, or ErrNotFound.
func (s *TagStore) GetByName(ctx context.Context, name string) (*Tag, error) {
	var t Tag
	err := s.db.GetContext(ctx, &t, `SELECT * FROM tags WHERE name = ?`, strings.TrimSpace(name))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListAll returns all tags ordered by name.
func (s *TagStore) ListAll(ctx context.Context) ([]*Tag, error) {
	var tags []*Tag
	err := s.db.SelectContext(ctx, &tags, `SELECT * FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Delete removes a tag and all its media item associations.
func (s *TagStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM media_item_tags WHERE tag_id = ?`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// Attach associates a tag with a media item. Attaching twice is a no-op.
func (s *TagStore) Attach(ctx context.Context, mediaItemID, tagID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media_item_tags (media_item_id, tag_id) VALUES (?, ?)
	`, mediaItemID, tagID)
	if err != nil && isUniqueConstraintError(err) {
		return nil
	}
	return err
}

// Detach removes a tag association. Returns ErrNotFound if none existed.
func (s *TagStore) Detach(ctx context.Context, mediaItemID, tagID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM media_item_tags WHERE media_item_id = ? AND tag_id = ?
	`, mediaItemID, tagID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForItem returns all tags associated with a media item.
func (s *TagStore) ListForItem(ctx context.Context, mediaItemID string) ([]*Tag, error) {
	var tags []*Tag
	err := s.db.SelectContext(ctx, &tags, `
		SELECT t.* FROM tags t
		INNER JOIN media_item_tags mt ON mt.tag_id = t.id
		WHERE mt.media_item_id = ?
		ORDER BY t.name ASC
	`, mediaItemID)
	if err != nil {
		return nil, err
	}
	return tags, nil
}
