package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"library-be/internal/domain"
	"library-be/pkg/database"
)

// categoryRepository handles category persistence with PostgreSQL
type categoryRepository struct {
	db *database.PostgresDB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.PostgresDB) CategoryRepository {
	return &categoryRepository{db: db}
}

const categorySelect = `
	SELECT id, description, sort_order, date_added, date_modified, COALESCE(status, ''), parent_id
	FROM category
`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	category := &domain.Category{}
	err := row.Scan(
		&category.ID,
		&category.Description,
		&category.SortOrder,
		&category.DateAdded,
		&category.DateModified,
		&category.Status,
		&category.ParentID,
	)
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Create inserts a category
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO category (description, sort_order, date_added, date_modified, status, parent_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING id`,
		category.Description,
		category.SortOrder,
		category.DateAdded,
		category.DateModified,
		string(category.Status),
		category.ParentID,
	).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// Update overwrites a category
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE category
		SET description = $2, sort_order = $3, date_added = $4, date_modified = $5,
		    status = NULLIF($6, ''), parent_id = $7
		WHERE id = $1`,
		category.ID,
		category.Description,
		category.SortOrder,
		category.DateAdded,
		category.DateModified,
		string(category.Status),
		category.ParentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID retrieves a category by id, nil when absent
func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := scanCategory(r.db.Pool.QueryRow(ctx, categorySelect+` WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

// FindAll lists categories, paged, ordered by id
func (r *categoryRepository) FindAll(ctx context.Context, page Pageable) ([]*domain.Category, error) {
	rows, err := r.db.Pool.Query(ctx, categorySelect+` ORDER BY id LIMIT $1 OFFSET $2`, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rows: %w", err)
	}
	return categories, nil
}

// Count returns the total number of categories
func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM category`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

// Delete removes a category and its book associations
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM rel_category_book WHERE category_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear category books: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM category WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
