package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"library-be/internal/domain"
	"library-be/pkg/database"
)

// customerRepository handles customer persistence with PostgreSQL
type customerRepository struct {
	db *database.PostgresDB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *database.PostgresDB) CustomerRepository {
	return &customerRepository{db: db}
}

const customerSelect = `
	SELECT id, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(email, ''), COALESCE(telephone, '')
	FROM customer
`

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	customer := &domain.Customer{}
	err := row.Scan(
		&customer.ID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Email,
		&customer.Telephone,
	)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// Create inserts a customer
func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO customer (first_name, last_name, email, telephone)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.Telephone,
	).Scan(&customer.ID)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

// Update overwrites a customer
func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE customer
		SET first_name = $2, last_name = $3, email = $4, telephone = $5
		WHERE id = $1`,
		customer.ID,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.Telephone,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID retrieves a customer by id, nil when absent
func (r *customerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	customer, err := scanCustomer(r.db.Pool.QueryRow(ctx, customerSelect+` WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return customer, nil
}

// FindAll lists customers, paged, ordered by id
func (r *customerRepository) FindAll(ctx context.Context, page Pageable) ([]*domain.Customer, error) {
	rows, err := r.db.Pool.Query(ctx, customerSelect+` ORDER BY id LIMIT $1 OFFSET $2`, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customer rows: %w", err)
	}
	return customers, nil
}

// Count returns the total number of customers
func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM customer`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

// Delete removes a customer and its addresses
func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM address WHERE customer_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete customer addresses: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM customer WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete customer: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
