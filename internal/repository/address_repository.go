package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"library-be/internal/domain"
	"library-be/pkg/database"
)

// addressRepository handles address persistence with PostgreSQL
type addressRepository struct {
	db *database.PostgresDB
}

// NewAddressRepository creates a new address repository
func NewAddressRepository(db *database.PostgresDB) AddressRepository {
	return &addressRepository{db: db}
}

const addressSelect = `
	SELECT id, COALESCE(address_1, ''), COALESCE(address_2, ''), COALESCE(city, ''),
	       COALESCE(postcode, ''), COALESCE(country, ''), customer_id
	FROM address
`

func scanAddress(row pgx.Row) (*domain.Address, error) {
	address := &domain.Address{}
	err := row.Scan(
		&address.ID,
		&address.Address1,
		&address.Address2,
		&address.City,
		&address.Postcode,
		&address.Country,
		&address.CustomerID,
	)
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Create inserts an address
func (r *addressRepository) Create(ctx context.Context, address *domain.Address) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO address (address_1, address_2, city, postcode, country, customer_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		address.Address1,
		address.Address2,
		address.City,
		address.Postcode,
		address.Country,
		address.CustomerID,
	).Scan(&address.ID)
	if err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}
	return nil
}

// Update overwrites an address
func (r *addressRepository) Update(ctx context.Context, address *domain.Address) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE address
		SET address_1 = $2, address_2 = $3, city = $4, postcode = $5, country = $6, customer_id = $7
		WHERE id = $1`,
		address.ID,
		address.Address1,
		address.Address2,
		address.City,
		address.Postcode,
		address.Country,
		address.CustomerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID retrieves an address by id, nil when absent
func (r *addressRepository) FindByID(ctx context.Context, id int64) (*domain.Address, error) {
	address, err := scanAddress(r.db.Pool.QueryRow(ctx, addressSelect+` WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find address: %w", err)
	}
	return address, nil
}

// FindAll lists addresses, paged, ordered by id
func (r *addressRepository) FindAll(ctx context.Context, page Pageable) ([]*domain.Address, error) {
	rows, err := r.db.Pool.Query(ctx, addressSelect+` ORDER BY id LIMIT $1 OFFSET $2`, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []*domain.Address
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address row: %w", err)
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate address rows: %w", err)
	}
	return addresses, nil
}

// Count returns the total number of addresses
func (r *addressRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM address`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count addresses: %w", err)
	}
	return count, nil
}

// Delete removes an address
func (r *addressRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM address WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
