package hikeusers

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the persistence surface for accounts and their hike links
type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string, criteria ...repository.SelectCriteria) (*User, error)
	FindAll(ctx context.Context, criteria ...repository.SelectCriteria) ([]*User, error)
	UpdateFields(ctx context.Context, username, setClause string, values []any) (*User, error)
	DeleteByUsername(ctx context.Context, username string) error

	AddHike(ctx context.Context, hike *Hike) (*Hike, error)
	RemoveHikeByID(ctx context.Context, userID uuid.UUID, hikeID string) error
	ListHikes(ctx context.Context, userID uuid.UUID) ([]*Hike, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string { return "username" },
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	record, err := a.Repository.CreateTx(ctx, tx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return record, nil
}

func (a *users) GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username, criteria...)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string, criteria ...repository.SelectCriteria) (*User, error) {
	record := &User{}
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.username = ?", strings.TrimSpace(username)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return record, nil
}

func (a *users) FindAll(ctx context.Context, criteria ...repository.SelectCriteria) ([]*User, error) {
	var records []*User
	q := a.db.NewSelect().Model(&records)

	for _, c := range criteria {
		q.Apply(c)
	}

	if err := q.Order("usr.username ASC").Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

// WithHikes loads the hike links alongside the user record
func WithHikes() repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Relation("Hikes")
	}
}

// UpdateFields applies a pre-built SET clause with positional $N
// placeholders against the given username. The username takes the
// placeholder after the last value.
func (a *users) UpdateFields(ctx context.Context, username, setClause string, values []any) (*User, error) {
	if setClause == "" {
		return nil, ErrNoUpdateData
	}

	query := fmt.Sprintf(`UPDATE "users" AS "usr"
SET
	%s
WHERE
	"usr"."username" = $%d
RETURNING
	"usr"."id",
	"usr"."username",
	"usr"."first_name",
	"usr"."last_name",
	"usr"."email",
	"usr"."is_admin";`, setClause, len(values)+1)

	args := make([]any, 0, len(values)+1)
	args = append(args, values...)
	args = append(args, username)

	record := &User{}
	row := a.db.DB.QueryRowContext(ctx, query, args...)
	err := row.Scan(
		&record.ID,
		&record.Username,
		&record.FirstName,
		&record.LastName,
		&record.Email,
		&record.IsAdmin,
	)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	return record, nil
}

func (a *users) DeleteByUsername(ctx context.Context, username string) error {
	res, err := a.db.NewDelete().
		Model((*User)(nil)).
		Where("?TableAlias.username = ?", username).
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (a *users) AddHike(ctx context.Context, hike *Hike) (*Hike, error) {
	if _, err := a.db.NewInsert().Model(hike).Exec(ctx); err != nil {
		return nil, err
	}
	return hike, nil
}

// RemoveHikeByID deletes a single hike link. Removing a link that does
// not exist is not an error.
func (a *users) RemoveHikeByID(ctx context.Context, userID uuid.UUID, hikeID string) error {
	_, err := a.db.NewDelete().
		Model((*Hike)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.hike_id = ?", hikeID).
		Exec(ctx)
	return err
}

func (a *users) ListHikes(ctx context.Context, userID uuid.UUID) ([]*Hike, error) {
	var hikes []*Hike
	err := a.db.NewSelect().
		Model(&hikes).
		Where("?TableAlias.user_id = ?", userID).
		Order("uhk.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return hikes, nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
