package service

import (
	"context"

	"library-be/internal/domain"
	"library-be/internal/repository"
)

// SyncOutcome is the terminal state of one reconciliation pass
type SyncOutcome string

const (
	OutcomeCreated   SyncOutcome = "created"
	OutcomeUpdated   SyncOutcome = "updated"
	OutcomeUnchanged SyncOutcome = "unchanged"
)

// UserSynchronizer reconciles IdP identities with the local user store and
// serves the account and admin user views.
type UserSynchronizer interface {
	// GetUserFromToken derives a user from token claims, synchronizes it with
	// the local store and returns the administrative view carrying the
	// authorities asserted by the token.
	GetUserFromToken(ctx context.Context, claims map[string]interface{}, authorities []string) (*domain.AdminUserDTO, error)

	// GetUserWithAuthoritiesByLogin returns the admin view of one user, nil when unknown
	GetUserWithAuthoritiesByLogin(ctx context.Context, login string) (*domain.AdminUserDTO, error)

	// GetAllManagedUsers lists administrative views, paged
	GetAllManagedUsers(ctx context.Context, page repository.Pageable) ([]*domain.AdminUserDTO, error)

	// GetAllPublicUsers lists public views of activated users, paged
	GetAllPublicUsers(ctx context.Context, page repository.Pageable) ([]*domain.UserDTO, error)

	// CountManagedUsers returns the total number of users
	CountManagedUsers(ctx context.Context) (int64, error)

	// GetAuthorities lists every known authority name
	GetAuthorities(ctx context.Context) ([]string, error)
}

// UserCache is the explicit cache port for synchronized users, keyed by the
// two natural lookup keys. Injected so tests can use a fake.
type UserCache interface {
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, user *domain.User) error
	Evict(ctx context.Context, login, email string) error
}
