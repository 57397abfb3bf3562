package hikeusers

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// userFieldToSQL maps the public payload field names to their columns.
// Fields missing from the map pass through as-is. The admin flag is
// absent on purpose: updates never touch it.
var userFieldToSQL = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
}

// RegisterInput carries a new account request
type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	UseHashid bool   `json:"-"`
}

// Validate implements validation.Validatable
func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, maxPasswordBytes)),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// UserService orchestrates registration, authentication, and profile
// maintenance on top of the repository manager
type UserService struct {
	repo   RepositoryManager
	hasher *PasswordHasher
	logger Logger
}

// NewUserService creates the service. A nil hasher gets the default cost.
func NewUserService(repo RepositoryManager, hasher *PasswordHasher) *UserService {
	if hasher == nil {
		hasher = NewPasswordHasher(passwordHashCost())
	}
	return &UserService{
		repo:   repo,
		hasher: hasher,
		logger: defLogger{},
	}
}

func (s *UserService) WithLogger(l Logger) *UserService {
	if l != nil {
		s.logger = l
	}
	return s
}

// Register creates a new account. The admin flag is never taken from
// the input; accounts always start as regular users. The username
// pre-check is a fast path, the unique constraint settles races.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*Profile, error) {
	if err := input.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
			WithCode(goerrors.CodeBadRequest)
	}

	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.Users().GetByUsernameTx(ctx, tx, input.Username); err == nil {
			return ErrDuplicateUsername
		} else if !goerrors.IsNotFound(err) {
			return err
		}

		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Username = getUsername(input.Username, input.Email)
		user.FirstName = input.FirstName
		user.LastName = input.LastName
		user.Email = input.Email
		user.IsAdmin = false
		if input.UseHashid {
			if id, err := hashid.NewUUID(input.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = s.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return user.Profile(), nil
}

// Authenticate verifies a username/password pair. Every failure mode
// collapses into ErrInvalidCredentials so callers can't probe which
// usernames exist.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*Profile, error) {
	user, err := s.repo.Users().GetByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("Authenticate lookup failed for %q: %s", username, err)
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(password, user.PasswordHash); err != nil {
		s.logger.Warn("Authenticate password mismatch for %q", username)
		return nil, ErrInvalidCredentials
	}

	return user.Profile(), nil
}

// Update applies a sparse field map to the account. The password and
// admin-flag keys are dropped: credential changes go through a
// dedicated flow, and no update path may grant admin. Letting the
// flag through would hand every account self-service escalation via a
// self-or-admin guarded PATCH.
func (s *UserService) Update(ctx context.Context, username string, fields map[string]any) (*Profile, error) {
	data := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "password" || k == "isAdmin" {
			continue
		}
		data[k] = v
	}

	setClause, values, err := PartialUpdate(data, userFieldToSQL)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Users().UpdateFields(ctx, username, setClause, values)
	if err != nil {
		return nil, err
	}

	return user.Profile(), nil
}

// Remove deletes the account. Hike links go with it via the schema's
// foreign key.
func (s *UserService) Remove(ctx context.Context, username string) error {
	return s.repo.Users().DeleteByUsername(ctx, username)
}

// Get returns the bare profile for a username
func (s *UserService) Get(ctx context.Context, username string) (*Profile, error) {
	user, err := s.repo.Users().GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// GetWithHikes returns the profile with its hike links loaded
func (s *UserService) GetWithHikes(ctx context.Context, username string) (*Profile, error) {
	user, err := s.repo.Users().GetByUsername(ctx, username, WithHikes())
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// FindAll lists every profile, ordered by username
func (s *UserService) FindAll(ctx context.Context) ([]*Profile, error) {
	users, err := s.repo.Users().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]*Profile, len(users))
	for i, u := range users {
		profiles[i] = u.Profile()
	}
	return profiles, nil
}

// AddHike links a hike to the account
func (s *UserService) AddHike(ctx context.Context, username, hikeID, hikeName string) (*Hike, error) {
	user, err := s.repo.Users().GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	hike := &Hike{
		UserID:   user.ID,
		HikeID:   hikeID,
		HikeName: hikeName,
	}

	return s.repo.Users().AddHike(ctx, hike)
}

// RemoveHike unlinks a hike. Unlinking a hike that was never saved is
// a no-op.
func (s *UserService) RemoveHike(ctx context.Context, username, hikeID string) error {
	user, err := s.repo.Users().GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	return s.repo.Users().RemoveHikeByID(ctx, user.ID, hikeID)
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}
