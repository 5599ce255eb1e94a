// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"postforge/internal/models"
)

// CatalogStore handles all template-catalog database operations.
type CatalogStore struct {
	db *sql.DB
}

// NewCatalogStore creates a new CatalogStore with the given database connection.
func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

const catalogColumns = `
	id, name, output_kind, payload, builtin_ref, image_count,
	rotation_weight, category_keys, is_active, created_at, updated_at`

// List returns every catalog entry ordered by name.
func (s *CatalogStore) List(ctx context.Context) ([]models.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+catalogColumns+`
		FROM media_templates
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListActive returns the active entries feeding the rotation pool.
func (s *CatalogStore) ListActive(ctx context.Context) ([]models.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+catalogColumns+`
		FROM media_templates
		WHERE is_active = TRUE
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list active catalog: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// FindByID retrieves a catalog entry by its UUID. Returns nil if not found.
func (s *CatalogStore) FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+catalogColumns+`
		FROM media_templates WHERE id = $1
	`, id)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find catalog entry by id: %w", err)
	}
	return entry, nil
}

// Create inserts a new catalog entry and fills in its generated fields.
func (s *CatalogStore) Create(ctx context.Context, e *models.CatalogEntry) error {
	keys, err := json.Marshal(categoryKeysOrEmpty(e.CategoryKeys))
	if err != nil {
		return fmt.Errorf("create catalog entry: marshal keys: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO media_templates
			(name, output_kind, payload, builtin_ref, image_count, rotation_weight, category_keys, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, e.Name, e.OutputKind, nullableJSON(e.Definition), e.BuiltinName,
		e.ImageCount, e.Weight, keys, e.IsActive,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create catalog entry: %w", err)
	}
	return nil
}

// Update rewrites an entry's mutable fields.
func (s *CatalogStore) Update(ctx context.Context, e *models.CatalogEntry) error {
	keys, err := json.Marshal(categoryKeysOrEmpty(e.CategoryKeys))
	if err != nil {
		return fmt.Errorf("update catalog entry: marshal keys: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE media_templates
		SET name = $2, payload = $3, rotation_weight = $4,
		    category_keys = $5, is_active = $6, updated_at = now()
		WHERE id = $1
	`, e.ID, e.Name, nullableJSON(e.Definition), e.Weight, keys, e.IsActive)
	if err != nil {
		return fmt.Errorf("update catalog entry: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update catalog entry: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update catalog entry: %s not found", e.ID)
	}
	return nil
}

// Delete removes a catalog entry.
func (s *CatalogStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM media_templates WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete catalog entry: %w", err)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan helper.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.CatalogEntry, error) {
	var (
		e       models.CatalogEntry
		payload []byte
		keys    []byte
	)
	if err := row.Scan(
		&e.ID, &e.Name, &e.OutputKind, &payload, &e.BuiltinName, &e.ImageCount,
		&e.Weight, &keys, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(payload) > 0 {
		e.Definition = json.RawMessage(payload)
	}
	if len(keys) > 0 {
		if err := json.Unmarshal(keys, &e.CategoryKeys); err != nil {
			return nil, fmt.Errorf("decode category keys for %s: %w", e.ID, err)
		}
	}
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func categoryKeysOrEmpty(keys []string) []string {
	if keys == nil {
		return []string{}
	}
	return keys
}

// nullableJSON maps an absent payload to SQL NULL instead of the empty
// string, which jsonb would reject.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
