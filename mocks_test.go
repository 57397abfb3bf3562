package hikeusers_test

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/salazarje1/hikeusers-api"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// TestIdentity is a simple implementation of Identity interface for testing
type TestIdentity struct {
	id       string
	username string
	email    string
	isAdmin  bool
}

func (t TestIdentity) ID() string       { return t.id }
func (t TestIdentity) Username() string { return t.username }
func (t TestIdentity) Email() string    { return t.email }
func (t TestIdentity) IsAdmin() bool    { return t.isAdmin }

// MockConfig implements hikeusers.Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetSigningKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetSigningMethod() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetContextKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenExpiration() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockConfig) GetTokenLookup() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAuthScheme() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetIssuer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAudience() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockConfig) GetBcryptCost() int {
	args := m.Called()
	return args.Int(0)
}

func newMockConfig() *MockConfig {
	mockConfig := new(MockConfig)
	mockConfig.On("GetSigningKey").Return("test-signing-key")
	mockConfig.On("GetTokenExpiration").Return(24)
	mockConfig.On("GetIssuer").Return("test-issuer")
	mockConfig.On("GetAudience").Return([]string{"test:audience"})
	return mockConfig
}

// MockIdentityProvider implements hikeusers.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (hikeusers.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(hikeusers.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByUsername(ctx context.Context, username string) (hikeusers.Identity, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(hikeusers.Identity), args.Error(1)
}

// fakeUsers is an in-memory Users implementation. The embedded
// interface covers the repository methods these tests never touch.
type fakeUsers struct {
	hikeusers.Users

	mu     sync.Mutex
	byName map[string]*hikeusers.User
	hikes  map[uuid.UUID][]*hikeusers.Hike
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byName: map[string]*hikeusers.User{},
		hikes:  map[uuid.UUID][]*hikeusers.Hike{},
	}
}

func (f *fakeUsers) Register(ctx context.Context, user *hikeusers.User) (*hikeusers.User, error) {
	return f.RegisterTx(ctx, nil, user)
}

func (f *fakeUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *hikeusers.User) (*hikeusers.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byName[user.Username]; ok {
		return nil, hikeusers.ErrDuplicateUsername
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	clone := *user
	f.byName[user.Username] = &clone
	return user, nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*hikeusers.User, error) {
	return f.GetByUsernameTx(ctx, nil, username, criteria...)
}

func (f *fakeUsers) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string, criteria ...repository.SelectCriteria) (*hikeusers.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byName[username]
	if !ok {
		return nil, hikeusers.ErrUserNotFound
	}

	clone := *user
	clone.Hikes = f.hikes[user.ID]
	return &clone, nil
}

func (f *fakeUsers) FindAll(ctx context.Context, criteria ...repository.SelectCriteria) ([]*hikeusers.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make([]*hikeusers.User, 0, len(f.byName))
	for _, u := range f.byName {
		clone := *u
		users = append(users, &clone)
	}
	return users, nil
}

// UpdateFields applies the assignments the same way the real store
// would, matching each "col"=$N pair against the value list.
func (f *fakeUsers) UpdateFields(ctx context.Context, username, setClause string, values []any) (*hikeusers.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byName[username]
	if !ok {
		return nil, hikeusers.ErrUserNotFound
	}

	for _, assignment := range strings.Split(setClause, ", ") {
		parts := strings.SplitN(assignment, "=", 2)
		if len(parts) != 2 {
			continue
		}
		col := strings.Trim(parts[0], `"`)
		idx, err := strconv.Atoi(strings.TrimPrefix(parts[1], "$"))
		if err != nil || idx < 1 || idx > len(values) {
			continue
		}
		val := values[idx-1]

		switch col {
		case "first_name":
			user.FirstName = val.(string)
		case "last_name":
			user.LastName = val.(string)
		case "email":
			user.Email = val.(string)
		case "is_admin":
			user.IsAdmin = val.(bool)
		case "password_hash":
			user.PasswordHash = val.(string)
		}
	}

	clone := *user
	return &clone, nil
}

func (f *fakeUsers) DeleteByUsername(ctx context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byName[username]
	if !ok {
		return hikeusers.ErrUserNotFound
	}

	delete(f.hikes, user.ID)
	delete(f.byName, username)
	return nil
}

func (f *fakeUsers) AddHike(ctx context.Context, hike *hikeusers.Hike) (*hikeusers.Hike, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	hike.ID = f.nextID
	f.hikes[hike.UserID] = append(f.hikes[hike.UserID], hike)
	return hike, nil
}

func (f *fakeUsers) RemoveHikeByID(ctx context.Context, userID uuid.UUID, hikeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.hikes[userID][:0]
	for _, h := range f.hikes[userID] {
		if h.HikeID != hikeID {
			kept = append(kept, h)
		}
	}
	f.hikes[userID] = kept
	return nil
}

func (f *fakeUsers) ListHikes(ctx context.Context, userID uuid.UUID) ([]*hikeusers.Hike, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hikes[userID], nil
}

// fakeManager implements hikeusers.RepositoryManager around fakeUsers
type fakeManager struct {
	users *fakeUsers
}

func newFakeManager() *fakeManager {
	return &fakeManager{users: newFakeUsers()}
}

func (m *fakeManager) Validate() error { return nil }

func (m *fakeManager) MustValidate() {}

func (m *fakeManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *fakeManager) Users() hikeusers.Users { return m.users }
