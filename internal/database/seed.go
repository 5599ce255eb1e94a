package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"postforge/internal/template"
)

// Seed populates an empty catalog with the built-in templates so a fresh
// install has a usable rotation pool. Entries reference the built-ins by
// name rather than copying their JSON, so updates to the compiled-in set
// take effect without a re-seed.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM media_templates").Scan(&count); err != nil {
		return fmt.Errorf("seed check catalog: %w", err)
	}

	if count > 0 {
		slog.Info("catalog already seeded, skipping")
		return nil
	}

	for _, name := range template.BuiltinNames() {
		tpl := template.Builtin(name)
		_, err := db.Exec(`
			INSERT INTO media_templates (name, output_kind, builtin_ref, image_count, rotation_weight)
			VALUES ($1, $2, $3, $4, $5)
		`, tpl.Name, string(tpl.Output), name, tpl.ImageCount, 1)
		if err != nil {
			return fmt.Errorf("seed insert %s: %w", name, err)
		}
	}

	slog.Info("catalog seeded with built-in templates", "count", len(template.BuiltinNames()))
	return nil
}
