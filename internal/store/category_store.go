package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Category represents a row in the categories table.
type Category struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Color     *string   `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// CategoryStore manages the categories table and its media item associations.
type CategoryStore struct {
	db *sqlx.DB
}

func NewCategoryStore(db *sqlx.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// Create inserts a new category. Returns ErrDuplicateName if the name is taken.
func (s *CategoryStore) Create(ctx context.Context, name, color string) (*Category, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	name = strings.TrimSpace(name)

	var colorPtr *string
	if color != "" {
		colorPtr = &color
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, color, created_at) VALUES (?, ?, ?, ?)
	`, id, name, colorPtr, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	return &Category{ID: id, Name: name, Color: colorPtr, CreatedAt: now}, nil
}

// GetByName returns the category matching name, or ErrNotFound.
func (s *CategoryStore) GetByName(ctx context.Context, name string) (*Category, error) {
	var c Category
	err := s.db.GetContext(ctx, &c, `SELECT * FROM categories WHERE name = ?`, strings.TrimSpace(name))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListAll returns all categories ordered by name.
func (s *CategoryStore) ListAll(ctx context.Context) ([]*Category, error) {
	var categories []*Category
	err := s.db.SelectContext(ctx, &categories, `SELECT * FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Delete removes a category and all its media item associations.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM media_item_categories WHERE category_id = ?`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// Attach associates a category with a media item. Attaching twice is a no-op.
func (s *CategoryStore) Attach(ctx context.Context, mediaItemID, categoryID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media_item_categories (media_item_id, category_id) VALUES (?, ?)
	`, mediaItemID, categoryID)
	if err != nil && isUniqueConstraintError(err) {
		return nil
	}
	return err
}

// Detach removes a category association. Returns ErrNotFound if none existed.
func (s *CategoryStore) Detach(ctx context.Context, mediaItemID, categoryID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM media_item_categories WHERE media_item_id = ? AND category_id = ?
	`, mediaItemID, categoryID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForItem returns all categories associated with a media item.
func (s *CategoryStore) ListForItem(ctx context.Context, mediaItemID string) ([]*Category, error) {
	var categories []*Category
	err := s.db.SelectContext(ctx, &categories, `
		SELECT c.* FROM categories c
		INNER JOIN media_item_categories mc ON mc.category_id = c.id
		WHERE mc.media_item_id = ?
		ORDER BY c.name ASC
	`, mediaItemID)
	if err != nil {
		return nil, err
	}
	return categories, nil
}
