package repository

import (
	"context"
	"errors"

	"library-be/internal/domain"
)

// ErrNotFound is returned by mutating operations that target a missing row
var ErrNotFound = errors.New("entity not found")

// Pageable carries pagination and sorting for list queries
type Pageable struct {
	Page int
	Size int
	Sort string
}

// Offset returns the row offset of the page
func (p Pageable) Offset() int {
	if p.Page < 0 {
		return 0
	}
	return p.Page * p.Limit()
}

// Limit returns the page size, bounded to a sane window
func (p Pageable) Limit() int {
	if p.Size <= 0 {
		return 20
	}
	if p.Size > 100 {
		return 100
	}
	return p.Size
}

// UserRepository defines persistence operations for synchronized users
type UserRepository interface {
	// FindOneByLogin retrieves a user by its natural key, nil when absent
	FindOneByLogin(ctx context.Context, login string) (*domain.User, error)

	// FindOneWithAuthoritiesByLogin retrieves a user and its authority set
	FindOneWithAuthoritiesByLogin(ctx context.Context, login string) (*domain.User, error)

	// FindAllWithAuthorities lists users with authorities, paged
	FindAllWithAuthorities(ctx context.Context, page Pageable) ([]*domain.User, error)

	// FindAllActivated lists activated users, paged
	FindAllActivated(ctx context.Context, page Pageable) ([]*domain.User, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)

	// Create inserts a new user and its authority associations atomically
	Create(ctx context.Context, user *domain.User) error

	// Update overwrites the mutable profile fields of an existing user
	Update(ctx context.Context, user *domain.User) error

	// SaveUserAuthority writes a single user-authority association
	SaveUserAuthority(ctx context.Context, userID, authority string) error

	// DeleteUserAuthorities removes all associations of one user
	DeleteUserAuthorities(ctx context.Context, userID string) error

	// DeleteAllUserAuthorities clears the association table
	DeleteAllUserAuthorities(ctx context.Context) error
}

// AuthorityRepository defines persistence operations for the global role set
type AuthorityRepository interface {
	// FindAll returns every known authority name
	FindAll(ctx context.Context) ([]string, error)

	// Save inserts an authority, idempotent on concurrent duplicates
	Save(ctx context.Context, name string) error
}

// BookRepository defines persistence operations for books
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	Update(ctx context.Context, book *domain.Book) error
	FindByID(ctx context.Context, id int64) (*domain.Book, error)
	FindAll(ctx context.Context, page Pageable) ([]*domain.Book, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	FindAll(ctx context.Context, page Pageable) ([]*domain.Category, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
	FindAll(ctx context.Context, page Pageable) ([]*domain.Customer, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// AddressRepository defines persistence operations for addresses
type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) error
	Update(ctx context.Context, address *domain.Address) error
	FindByID(ctx context.Context, id int64) (*domain.Address, error)
	FindAll(ctx context.Context, page Pageable) ([]*domain.Address, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	User      UserRepository
	Authority AuthorityRepository
	Book      BookRepository
	Category  CategoryRepository
	Customer  CustomerRepository
	Address   AddressRepository
}
