package hikeusers

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserStore is the narrow persistence surface identity verification needs
type UserStore interface {
	GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*User, error)
}

// UserProvider resolves usernames to identities and verifies credentials
type UserProvider struct {
	store  UserStore
	hasher *PasswordHasher
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore, hasher *PasswordHasher) *UserProvider {
	if hasher == nil {
		hasher = NewPasswordHasher(passwordHashCost())
	}
	return &UserProvider{
		store:  store,
		hasher: hasher,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return
// the identity. A missing user and a bad password both come back as
// ErrInvalidCredentials.
func (u UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByUsername(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := u.hasher.Compare(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return newAuthIdentity(user), nil
}

// FindIdentityByUsername resolves a username without checking credentials
func (u UserProvider) FindIdentityByUsername(ctx context.Context, username string) (Identity, error) {
	user, err := u.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	return newAuthIdentity(user), nil
}

type authIdentity struct {
	id       string
	username string
	email    string
	isAdmin  bool
}

func newAuthIdentity(user *User) authIdentity {
	return authIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
		isAdmin:  user.IsAdmin,
	}
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Username() string {
	return a.username
}

func (a authIdentity) Email() string {
	return a.email
}

func (a authIdentity) IsAdmin() bool {
	return a.isAdmin
}
