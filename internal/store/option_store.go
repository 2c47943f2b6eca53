package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// APIOption represents a row in the api_options table: one user-selectable
// playback/download resolver.
type APIOption struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Field     string    `db:"field" json:"field"`
	URL       *string   `db:"url" json:"url"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// APIOptionStore manages the api_options table.
type APIOptionStore struct {
	db *sqlx.DB
}

func NewAPIOptionStore(db *sqlx.DB) *APIOptionStore {
	return &APIOptionStore{db: db}
}

// Create inserts a new API option. endpoint is the option's own URL when the
// caller registers an external service; empty means a built-in resolver.
// Returns ErrDuplicateName if the name is taken.
func (s *APIOptionStore) Create(ctx context.Context, name, field, endpoint string, active bool) (*APIOption, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	name = strings.TrimSpace(name)
	if field == "" {
		field = "url"
	}

	var endpointPtr *string
	if endpoint != "" {
		endpointPtr = &endpoint
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_options (id, name, field, url, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, name, field, endpointPtr, active, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	return &APIOption{ID: id, Name: name, Field: field, URL: endpointPtr, IsActive: active, CreatedAt: now}, nil
}

// GetByID returns the API option matching id, or ErrNotFound.
func (s *APIOptionStore) GetByID(ctx context.Context, id string) (*APIOption, error) {
	var o APIOption
	err := s.db.GetContext(ctx, &o, `SELECT * FROM api_options WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListAll returns all API options ordered by name.
func (s *APIOptionStore) ListAll(ctx context.Context) ([]*APIOption, error) {
	var options []*APIOption
	err := s.db.SelectContext(ctx, &options, `SELECT * FROM api_options ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return options, nil
}

// SetActive toggles an option's availability.
func (s *APIOptionStore) SetActive(ctx context.Context, id string, active bool) (*APIOption, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE api_options SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes an API option by ID.
func (s *APIOptionStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM api_options WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed inserts the given resolver names if the table is empty, so a fresh
// install has the built-in resolvers selectable.
func (s *APIOptionStore) Seed(ctx context.Context, options map[string]string) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM api_options`); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for name, field := range options {
		if _, err := s.Create(ctx, name, field, "", true); err != nil {
			return err
		}
	}
	return nil
}
