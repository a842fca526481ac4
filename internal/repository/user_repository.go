package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"library-be/internal/domain"
	"library-be/pkg/database"
)

// userRepository handles user and user-authority persistence with PostgreSQL
type userRepository struct {
	db *database.PostgresDB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.PostgresDB) UserRepository {
	return &userRepository{db: db}
}

const userWithAuthoritiesSelect = `
	SELECT u.id, u.login, COALESCE(u.first_name, ''), COALESCE(u.last_name, ''),
	       COALESCE(u.email, ''), u.activated, COALESCE(u.lang_key, ''), COALESCE(u.image_url, ''),
	       COALESCE(u.created_by, ''), u.created_date, COALESCE(u.last_modified_by, ''), u.last_modified_date,
	       COALESCE(array_agg(ua.authority_name) FILTER (WHERE ua.authority_name IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_authority ua ON ua.user_id = u.id
`

func scanUserWithAuthorities(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Login,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Activated,
		&user.LangKey,
		&user.ImageURL,
		&user.CreatedBy,
		&user.CreatedDate,
		&user.LastModifiedBy,
		&user.LastModifiedDate,
		&user.Authorities,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindOneByLogin retrieves a user by login, nil when no row matches
func (r *userRepository) FindOneByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := userWithAuthoritiesSelect + `
	WHERE u.login = $1
	GROUP BY u.id`

	user, err := scanUserWithAuthorities(r.db.Pool.QueryRow(ctx, query, login))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by login: %w", err)
	}
	return user, nil
}

// FindOneWithAuthoritiesByLogin retrieves a user and its authority set
func (r *userRepository) FindOneWithAuthoritiesByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.FindOneByLogin(ctx, login)
}

// FindAllWithAuthorities lists users with their authorities, paged
func (r *userRepository) FindAllWithAuthorities(ctx context.Context, page Pageable) ([]*domain.User, error) {
	query := userWithAuthoritiesSelect + `
	GROUP BY u.id
	ORDER BY ` + userOrderBy(page.Sort) + `
	LIMIT $1 OFFSET $2`

	return r.queryUsers(ctx, query, page.Limit(), page.Offset())
}

// FindAllActivated lists activated users, paged
func (r *userRepository) FindAllActivated(ctx context.Context, page Pageable) ([]*domain.User, error) {
	query := userWithAuthoritiesSelect + `
	WHERE u.activated = TRUE
	GROUP BY u.id
	ORDER BY ` + userOrderBy(page.Sort) + `
	LIMIT $1 OFFSET $2`

	return r.queryUsers(ctx, query, page.Limit(), page.Offset())
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*domain.User, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUserWithAuthorities(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return users, nil
}

// Count returns the total number of users
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// Create inserts a new user row and its authority associations in one
// transaction, so a failing association write rolls the user back too.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, login, first_name, last_name, email, activated, lang_key, image_url,
			                   created_by, created_date, last_modified_by, last_modified_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			user.ID,
			user.Login,
			user.FirstName,
			user.LastName,
			user.Email,
			user.Activated,
			user.LangKey,
			user.ImageURL,
			user.CreatedBy,
			user.CreatedDate,
			user.LastModifiedBy,
			user.LastModifiedDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}

		for _, authority := range user.Authorities {
			_, err := tx.Exec(ctx, `
				INSERT INTO user_authority (user_id, authority_name)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`,
				user.ID, authority,
			)
			if err != nil {
				return fmt.Errorf("failed to insert user authority: %w", err)
			}
		}
		return nil
	})
}

// Update overwrites the mutable profile fields of an existing user
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, lang_key = $5, image_url = $6,
		    last_modified_by = $7, last_modified_date = $8
		WHERE id = $1`,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.LangKey,
		user.ImageURL,
		user.LastModifiedBy,
		user.LastModifiedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveUserAuthority writes a single user-authority association
func (r *userRepository) SaveUserAuthority(ctx context.Context, userID, authority string) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO user_authority (user_id, authority_name)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		userID, authority,
	)
	if err != nil {
		return fmt.Errorf("failed to save user authority: %w", err)
	}
	return nil
}

// DeleteUserAuthorities removes all associations of one user
func (r *userRepository) DeleteUserAuthorities(ctx context.Context, userID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM user_authority WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user authorities: %w", err)
	}
	return nil
}

// DeleteAllUserAuthorities clears the association table
func (r *userRepository) DeleteAllUserAuthorities(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM user_authority`)
	if err != nil {
		return fmt.Errorf("failed to delete user authorities: %w", err)
	}
	return nil
}

// userOrderBy maps a requested sort field onto a known column, defaulting to
// login. The whitelist keeps request input out of the SQL text.
func userOrderBy(sort string) string {
	switch sort {
	case "id":
		return "u.id"
	case "email":
		return "u.email"
	case "lastModifiedDate":
		return "u.last_modified_date"
	default:
		return "u.login"
	}
}
