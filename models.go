package hikeusers

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	FirstName     string     `bun:"first_name" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name" json:"last_name,omitempty"`
	Email         string     `bun:"email,notnull" json:"email,omitempty"`
	IsAdmin       bool       `bun:"is_admin,notnull,default:false" json:"is_admin"`
	Hikes         []*Hike    `bun:"rel:has-many,join:id=user_id" json:"hikes,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Hike links a user to a saved hike
type Hike struct {
	bun.BaseModel `bun:"table:users_hikes,alias:uhk"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	HikeID        string     `bun:"hike_id,notnull" json:"hike_id,omitempty"`
	HikeName      string     `bun:"hike_name" json:"hike_name,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Profile is the safe projection of a User, free of credential material
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Email     string    `json:"email,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	Hikes     []*Hike   `json:"hikes,omitempty"`
}

// Profile strips the password hash from the record
func (u *User) Profile() *Profile {
	return &Profile{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		Hikes:     u.Hikes,
	}
}

// Identity adapts the profile for token issuance
func (p *Profile) Identity() Identity {
	return &authIdentity{
		id:       p.ID.String(),
		username: p.Username,
		email:    p.Email,
		isAdmin:  p.IsAdmin,
	}
}
