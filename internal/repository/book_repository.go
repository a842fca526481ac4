package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"library-be/internal/domain"
	"library-be/pkg/database"
)

// bookRepository handles book persistence with PostgreSQL
type bookRepository struct {
	db *database.PostgresDB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *database.PostgresDB) BookRepository {
	return &bookRepository{db: db}
}

const bookSelect = `
	SELECT b.id, b.title, COALESCE(b.author, ''), COALESCE(b.keywords, ''), COALESCE(b.description, ''),
	       b.rating, b.date_added, b.date_modified,
	       COALESCE(array_agg(cb.category_id) FILTER (WHERE cb.category_id IS NOT NULL), '{}')
	FROM book b
	LEFT JOIN rel_category_book cb ON cb.book_id = b.id
`

func scanBook(row pgx.Row) (*domain.Book, error) {
	book := &domain.Book{}
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Keywords,
		&book.Description,
		&book.Rating,
		&book.DateAdded,
		&book.DateModified,
		&book.CategoryIDs,
	)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Create inserts a book and its category associations atomically
func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO book (title, author, keywords, description, rating, date_added, date_modified)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			book.Title,
			book.Author,
			book.Keywords,
			book.Description,
			book.Rating,
			book.DateAdded,
			book.DateModified,
		).Scan(&book.ID)
		if err != nil {
			return fmt.Errorf("failed to insert book: %w", err)
		}
		return insertBookCategories(ctx, tx, book)
	})
}

// Update overwrites a book and replaces its category associations
func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE book
			SET title = $2, author = $3, keywords = $4, description = $5, rating = $6,
			    date_added = $7, date_modified = $8
			WHERE id = $1`,
			book.ID,
			book.Title,
			book.Author,
			book.Keywords,
			book.Description,
			book.Rating,
			book.DateAdded,
			book.DateModified,
		)
		if err != nil {
			return fmt.Errorf("failed to update book: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM rel_category_book WHERE book_id = $1`, book.ID); err != nil {
			return fmt.Errorf("failed to clear book categories: %w", err)
		}
		return insertBookCategories(ctx, tx, book)
	})
}

func insertBookCategories(ctx context.Context, tx pgx.Tx, book *domain.Book) error {
	for _, categoryID := range book.CategoryIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO rel_category_book (category_id, book_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			categoryID, book.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert book category: %w", err)
		}
	}
	return nil
}

// FindByID retrieves a book by id, nil when absent
func (r *bookRepository) FindByID(ctx context.Context, id int64) (*domain.Book, error) {
	query := bookSelect + `
	WHERE b.id = $1
	GROUP BY b.id`

	book, err := scanBook(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find book: %w", err)
	}
	return book, nil
}

// FindAll lists books, paged, ordered by id
func (r *bookRepository) FindAll(ctx context.Context, page Pageable) ([]*domain.Book, error) {
	query := bookSelect + `
	GROUP BY b.id
	ORDER BY b.id
	LIMIT $1 OFFSET $2`

	rows, err := r.db.Pool.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate book rows: %w", err)
	}
	return books, nil
}

// Count returns the total number of books
func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM book`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return count, nil
}

// Delete removes a book and its category associations
func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM rel_category_book WHERE book_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear book categories: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM book WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete book: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
