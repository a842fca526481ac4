package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"library-be/internal/domain"
	"library-be/internal/repository"
	"library-be/internal/security"
	"library-be/pkg/logger"
	"library-be/pkg/metrics"
)

// UserService reconciles IdP identities against the local user store
type UserService struct {
	users       repository.UserRepository
	authorities repository.AuthorityRepository
	cache       UserCache
	log         *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, authorities repository.AuthorityRepository, cache UserCache, log *logger.Logger) *UserService {
	return &UserService{
		users:       users,
		authorities: authorities,
		cache:       cache,
		log:         log,
	}
}

// GetUserFromToken derives a user from the verified claims, synchronizes it
// with the local store and returns the administrative view. The returned
// authorities are the ones asserted by the token, not a second database read.
func (s *UserService) GetUserFromToken(ctx context.Context, claims map[string]interface{}, authorities []string) (*domain.AdminUserDTO, error) {
	user := security.UserFromClaims(claims)
	if user.ID == "" {
		return nil, fmt.Errorf("token claims carry no subject identifier")
	}
	user.Authorities = authorities

	synced, outcome, err := s.syncUserWithIdP(ctx, claims, user)
	if err != nil {
		return nil, err
	}
	metrics.UserSyncTotal.WithLabelValues(string(outcome)).Inc()

	return domain.NewAdminUserDTO(synced), nil
}

// syncUserWithIdP applies the reconciliation state machine: missing
// authorities are inserted first, then the user is created, updated in place
// or left untouched depending on the IdP's updated_at claim.
func (s *UserService) syncUserWithIdP(ctx context.Context, claims map[string]interface{}, user *domain.User) (*domain.User, SyncOutcome, error) {
	if err := s.saveMissingAuthorities(ctx, user.Authorities); err != nil {
		return nil, "", err
	}

	existing, err := s.users.FindOneByLogin(ctx, user.Login)
	if err != nil {
		return nil, "", err
	}

	if existing == nil {
		if err := s.createUser(ctx, user); err != nil {
			return nil, "", err
		}
		s.evictUserCaches(ctx, user.Login, user.Email)
		s.log.WithField("login", user.Login).Debug("Created user from IdP claims")
		return user, OutcomeCreated, nil
	}

	// When the IdP reports a last-updated timestamp, only overwrite if it is
	// strictly newer than the persisted record. Absent the claim, every login
	// re-applies the update.
	if idpModified, ok := idpModifiedTime(claims); ok {
		if existing.LastModifiedDate != nil && !idpModified.After(*existing.LastModifiedDate) {
			return user, OutcomeUnchanged, nil
		}
	}

	if err := s.updateUser(ctx, existing, user); err != nil {
		return nil, "", err
	}
	s.evictUserCaches(ctx, existing.Login, existing.Email)
	if user.Email != existing.Email {
		s.evictUserCaches(ctx, user.Login, user.Email)
	}
	s.log.WithField("login", user.Login).Debug("Updated user from IdP claims")
	return user, OutcomeUpdated, nil
}

// saveMissingAuthorities inserts every token role absent from the durable
// authority set. Roles are never removed here.
func (s *UserService) saveMissingAuthorities(ctx context.Context, tokenAuthorities []string) error {
	known, err := s.authorities.FindAll(ctx)
	if err != nil {
		return err
	}

	knownSet := make(map[string]struct{}, len(known))
	for _, name := range known {
		knownSet[name] = struct{}{}
	}

	for _, name := range tokenAuthorities {
		if _, ok := knownSet[name]; ok {
			continue
		}
		s.log.WithField("authority", name).Debug("Saving authority in local database")
		if err := s.authorities.Save(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *UserService) createUser(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	actor := s.actingLogin(ctx)

	user.CreatedBy = actor
	user.CreatedDate = &now
	user.LastModifiedBy = actor
	user.LastModifiedDate = &now

	return s.users.Create(ctx, user)
}

func (s *UserService) updateUser(ctx context.Context, existing, incoming *domain.User) error {
	existing.FirstName = incoming.FirstName
	existing.LastName = incoming.LastName
	existing.Email = incoming.Email
	existing.LangKey = incoming.LangKey
	existing.ImageURL = incoming.ImageURL
	now := time.Now().UTC()
	existing.LastModifiedBy = s.actingLogin(ctx)
	existing.LastModifiedDate = &now

	return s.users.Update(ctx, existing)
}

// actingLogin resolves the audit actor: the authenticated login when present,
// else the system account sentinel.
func (s *UserService) actingLogin(ctx context.Context) string {
	if login, ok := security.CurrentUserLogin(ctx); ok {
		return login
	}
	return security.SystemAccount
}

func (s *UserService) evictUserCaches(ctx context.Context, login, email string) {
	if err := s.cache.Evict(ctx, login, email); err != nil {
		s.log.WithError(err).Warn("Failed to evict user cache entries",
			zap.String("login", login))
	}
}

// GetUserWithAuthoritiesByLogin returns the admin view of one user, going
// through the usersByLogin cache, nil when the login is unknown.
func (s *UserService) GetUserWithAuthoritiesByLogin(ctx context.Context, login string) (*domain.AdminUserDTO, error) {
	if cached, err := s.cache.GetByLogin(ctx, login); err != nil {
		s.log.WithError(err).Warn("User cache read failed, falling back to database")
	} else if cached != nil {
		metrics.UserCacheHits.WithLabelValues("usersByLogin").Inc()
		return domain.NewAdminUserDTO(cached), nil
	}
	metrics.UserCacheMisses.WithLabelValues("usersByLogin").Inc()

	user, err := s.users.FindOneWithAuthoritiesByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if err := s.cache.Put(ctx, user); err != nil {
		s.log.WithError(err).Warn("Failed to cache user")
	}
	return domain.NewAdminUserDTO(user), nil
}

// GetAllManagedUsers lists administrative views, paged
func (s *UserService) GetAllManagedUsers(ctx context.Context, page repository.Pageable) ([]*domain.AdminUserDTO, error) {
	users, err := s.users.FindAllWithAuthorities(ctx, page)
	if err != nil {
		return nil, err
	}

	dtos := make([]*domain.AdminUserDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, domain.NewAdminUserDTO(user))
	}
	return dtos, nil
}

// GetAllPublicUsers lists public views of activated users, paged
func (s *UserService) GetAllPublicUsers(ctx context.Context, page repository.Pageable) ([]*domain.UserDTO, error) {
	users, err := s.users.FindAllActivated(ctx, page)
	if err != nil {
		return nil, err
	}

	dtos := make([]*domain.UserDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, domain.NewUserDTO(user))
	}
	return dtos, nil
}

// CountManagedUsers returns the total number of users
func (s *UserService) CountManagedUsers(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

// GetAuthorities lists every known authority name
func (s *UserService) GetAuthorities(ctx context.Context) ([]string, error) {
	return s.authorities.FindAll(ctx)
}

// idpModifiedTime reads the updated_at claim in the shapes IdPs actually send:
// epoch seconds (number), RFC 3339 text, or an already-parsed time.
func idpModifiedTime(claims map[string]interface{}) (time.Time, bool) {
	raw, ok := claims["updated_at"]
	if !ok || raw == nil {
		return time.Time{}, false
	}

	switch v := raw.(type) {
	case time.Time:
		return v, true
	case float64:
		sec := int64(v)
		nsec := int64((v - float64(sec)) * float64(time.Second))
		return time.Unix(sec, nsec).UTC(), true
	case int64:
		return time.Unix(v, 0).UTC(), true
	case json.Number:
		if sec, err := v.Int64(); err == nil {
			return time.Unix(sec, 0).UTC(), true
		}
	case string:
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
