package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-be/internal/domain"
	"library-be/internal/repository"
	"library-be/internal/security"
	"library-be/pkg/logger"
)

func timePtr(t time.Time) *time.Time { return &t }

// fakeUserRepository keeps users in memory, keyed by login
type fakeUserRepository struct {
	users       map[string]*domain.User
	createCalls int
	updateCalls int
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepository) FindOneByLogin(_ context.Context, login string) (*domain.User, error) {
	if u, ok := f.users[login]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeUserRepository) FindOneWithAuthoritiesByLogin(ctx context.Context, login string) (*domain.User, error) {
	return f.FindOneByLogin(ctx, login)
}

func (f *fakeUserRepository) FindAllWithAuthorities(_ context.Context, _ repository.Pageable) ([]*domain.User, error) {
	result := make([]*domain.User, 0, len(f.users))
	for _, u := range f.users {
		result = append(result, u)
	}
	return result, nil
}

func (f *fakeUserRepository) FindAllActivated(_ context.Context, _ repository.Pageable) ([]*domain.User, error) {
	result := make([]*domain.User, 0, len(f.users))
	for _, u := range f.users {
		if u.Activated {
			result = append(result, u)
		}
	}
	return result, nil
}

func (f *fakeUserRepository) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepository) Create(_ context.Context, user *domain.User) error {
	f.createCalls++
	clone := *user
	f.users[user.Login] = &clone
	return nil
}

func (f *fakeUserRepository) Update(_ context.Context, user *domain.User) error {
	f.updateCalls++
	clone := *user
	f.users[user.Login] = &clone
	return nil
}

func (f *fakeUserRepository) SaveUserAuthority(_ context.Context, _, _ string) error { return nil }
func (f *fakeUserRepository) DeleteUserAuthorities(_ context.Context, _ string) error {
	return nil
}
func (f *fakeUserRepository) DeleteAllUserAuthorities(_ context.Context) error { return nil }

// fakeAuthorityRepository keeps the authority set in memory
type fakeAuthorityRepository struct {
	names map[string]struct{}
}

func newFakeAuthorityRepository(names ...string) *fakeAuthorityRepository {
	f := &fakeAuthorityRepository{names: make(map[string]struct{})}
	for _, n := range names {
		f.names[n] = struct{}{}
	}
	return f
}

func (f *fakeAuthorityRepository) FindAll(_ context.Context) ([]string, error) {
	result := make([]string, 0, len(f.names))
	for n := range f.names {
		result = append(result, n)
	}
	return result, nil
}

func (f *fakeAuthorityRepository) Save(_ context.Context, name string) error {
	f.names[name] = struct{}{}
	return nil
}

// fakeUserCache records eviction calls
type fakeUserCache struct {
	byLogin map[string]*domain.User
	evicted []string
}

func newFakeUserCache() *fakeUserCache {
	return &fakeUserCache{byLogin: make(map[string]*domain.User)}
}

func (f *fakeUserCache) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	return f.byLogin[login], nil
}

func (f *fakeUserCache) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, nil
}

func (f *fakeUserCache) Put(_ context.Context, user *domain.User) error {
	f.byLogin[user.Login] = user
	return nil
}

func (f *fakeUserCache) Evict(_ context.Context, login, _ string) error {
	f.evicted = append(f.evicted, login)
	delete(f.byLogin, login)
	return nil
}

func newTestUserService(t *testing.T) (*UserService, *fakeUserRepository, *fakeAuthorityRepository, *fakeUserCache) {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)

	users := newFakeUserRepository()
	authorities := newFakeAuthorityRepository("ROLE_USER")
	cache := newFakeUserCache()
	return NewUserService(users, authorities, cache, log), users, authorities, cache
}

func TestGetUserFromToken_CreatesUnknownUser(t *testing.T) {
	svc, users, authorities, cache := newTestUserService(t)
	ctx := context.Background()

	claims := map[string]interface{}{
		"sub":                "abc-123",
		"preferred_username": "JDoe",
		"given_name":         "John",
		"family_name":        "Doe",
		"email":              "JDoe@Example.com",
	}

	dto, err := svc.GetUserFromToken(ctx, claims, []string{"ROLE_ADMIN", "ROLE_USER"})
	require.NoError(t, err)
	require.NotNil(t, dto)

	assert.Equal(t, "abc-123", dto.ID)
	assert.Equal(t, "jdoe", dto.Login)
	assert.Equal(t, "jdoe@example.com", dto.Email)
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_USER"}, dto.Authorities)

	// persisted with system audit stamps, since no caller is authenticated
	stored := users.users["jdoe"]
	require.NotNil(t, stored)
	assert.Equal(t, security.SystemAccount, stored.CreatedBy)
	assert.Equal(t, security.SystemAccount, stored.LastModifiedBy)
	require.NotNil(t, stored.CreatedDate)
	assert.False(t, stored.CreatedDate.IsZero())
	assert.Equal(t, 1, users.createCalls)

	// the unseen token role landed in the durable authority set
	_, ok := authorities.names["ROLE_ADMIN"]
	assert.True(t, ok)

	assert.Contains(t, cache.evicted, "jdoe")
}

func TestGetUserFromToken_AuditActorIsCurrentLogin(t *testing.T) {
	svc, users, _, _ := newTestUserService(t)
	ctx := security.WithAccount(context.Background(), map[string]interface{}{}, nil, "operator", "")

	claims := map[string]interface{}{"sub": "xyz", "preferred_username": "newcomer"}
	_, err := svc.GetUserFromToken(ctx, claims, nil)
	require.NoError(t, err)

	assert.Equal(t, "operator", users.users["newcomer"].CreatedBy)
}

func TestGetUserFromToken_RejectsMissingSubject(t *testing.T) {
	svc, _, _, _ := newTestUserService(t)

	_, err := svc.GetUserFromToken(context.Background(), map[string]interface{}{"email": "a@b.c"}, nil)
	assert.Error(t, err)
}

func TestGetUserFromToken_UpdatesWhenIdPIsNewer(t *testing.T) {
	svc, users, _, cache := newTestUserService(t)
	ctx := context.Background()

	persisted := &domain.User{
		ID:               "abc",
		Login:            "jdoe",
		FirstName:        "Old",
		Email:            "old@example.com",
		Activated:        true,
		LastModifiedDate: timePtr(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	users.users["jdoe"] = persisted

	claims := map[string]interface{}{
		"sub":                "abc",
		"preferred_username": "jdoe",
		"given_name":         "New",
		"email":              "new@example.com",
		"updated_at":         float64(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Unix()),
	}

	dto, err := svc.GetUserFromToken(ctx, claims, nil)
	require.NoError(t, err)
	assert.Equal(t, "New", dto.FirstName)
	assert.Equal(t, 1, users.updateCalls)
	assert.Equal(t, "New", users.users["jdoe"].FirstName)
	assert.Equal(t, "new@example.com", users.users["jdoe"].Email)
	assert.Contains(t, cache.evicted, "jdoe")
}

func TestGetUserFromToken_SkipsUpdateWhenIdPIsStale(t *testing.T) {
	svc, users, _, cache := newTestUserService(t)
	ctx := context.Background()

	users.users["jdoe"] = &domain.User{
		ID:               "abc",
		Login:            "jdoe",
		FirstName:        "Current",
		Activated:        true,
		LastModifiedDate: timePtr(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
	}

	claims := map[string]interface{}{
		"sub":                "abc",
		"preferred_username": "jdoe",
		"given_name":         "Stale",
		"updated_at":         float64(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Unix()),
	}

	dto, err := svc.GetUserFromToken(ctx, claims, []string{"ROLE_USER"})
	require.NoError(t, err)

	// the view reflects the token, the store stays untouched
	assert.Equal(t, "Stale", dto.FirstName)
	assert.Equal(t, 0, users.updateCalls)
	assert.Equal(t, "Current", users.users["jdoe"].FirstName)
	assert.Empty(t, cache.evicted)
}

func TestGetUserFromToken_AlwaysUpdatesWithoutTimestampClaim(t *testing.T) {
	svc, users, _, _ := newTestUserService(t)
	ctx := context.Background()

	users.users["jdoe"] = &domain.User{
		ID:               "abc",
		Login:            "jdoe",
		FirstName:        "Current",
		Activated:        true,
		LastModifiedDate: timePtr(time.Now().UTC()),
	}

	claims := map[string]interface{}{
		"sub":                "abc",
		"preferred_username": "jdoe",
		"given_name":         "Fresh",
	}

	for i := 0; i < 2; i++ {
		_, err := svc.GetUserFromToken(ctx, claims, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, users.updateCalls)
	assert.Equal(t, "Fresh", users.users["jdoe"].FirstName)
}

func TestGetUserWithAuthoritiesByLogin_CacheAside(t *testing.T) {
	svc, users, _, cache := newTestUserService(t)
	ctx := context.Background()

	users.users["jdoe"] = &domain.User{
		ID:          "abc",
		Login:       "jdoe",
		Activated:   true,
		Authorities: []string{"ROLE_USER"},
	}

	// first read misses the cache and populates it
	dto, err := svc.GetUserWithAuthoritiesByLogin(ctx, "jdoe")
	require.NoError(t, err)
	require.NotNil(t, dto)
	assert.Equal(t, []string{"ROLE_USER"}, dto.Authorities)
	assert.NotNil(t, cache.byLogin["jdoe"])

	// second read is served from the cache even after the store changes
	users.users["jdoe"].Login = "renamed"
	delete(users.users, "jdoe")
	dto, err = svc.GetUserWithAuthoritiesByLogin(ctx, "jdoe")
	require.NoError(t, err)
	require.NotNil(t, dto)
	assert.Equal(t, "jdoe", dto.Login)
}

func TestGetUserWithAuthoritiesByLogin_UnknownLogin(t *testing.T) {
	svc, _, _, _ := newTestUserService(t)

	dto, err := svc.GetUserWithAuthoritiesByLogin(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, dto)
}

func TestIdpModifiedTime(t *testing.T) {
	ref := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		raw   interface{}
		want  time.Time
		found bool
	}{
		{name: "epoch seconds float", raw: float64(ref.Unix()), want: ref, found: true},
		{name: "epoch seconds int64", raw: ref.Unix(), want: ref, found: true},
		{name: "rfc3339 string", raw: ref.Format(time.RFC3339), want: ref, found: true},
		{name: "time value", raw: ref, want: ref, found: true},
		{name: "unparseable string", raw: "not-a-time", found: false},
		{name: "nil claim", raw: nil, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := idpModifiedTime(map[string]interface{}{"updated_at": tt.raw})
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
			}
		})
	}

	_, ok := idpModifiedTime(map[string]interface{}{})
	assert.False(t, ok)
}
