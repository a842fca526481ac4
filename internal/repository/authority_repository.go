package repository

import (
	"context"
	"fmt"

	"library-be/pkg/database"
)

// authorityRepository handles the global authority set with PostgreSQL
type authorityRepository struct {
	db *database.PostgresDB
}

// NewAuthorityRepository creates a new authority repository
func NewAuthorityRepository(db *database.PostgresDB) AuthorityRepository {
	return &authorityRepository{db: db}
}

// FindAll returns every known authority name
func (r *authorityRepository) FindAll(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT name FROM authority ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list authorities: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan authority row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate authority rows: %w", err)
	}
	return names, nil
}

// Save inserts an authority. Two requests racing on the same first-time role
// must both succeed, so duplicates are ignored at the statement level.
func (r *authorityRepository) Save(ctx context.Context, name string) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO authority (name)
		VALUES ($1)
		ON CONFLICT DO NOTHING`,
		name,
	)
	if err != nil {
		return fmt.Errorf("failed to save authority: %w", err)
	}
	return nil
}
