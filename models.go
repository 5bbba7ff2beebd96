package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model. PasswordHash never serializes to JSON and is
// excluded from default projections; only GetByEmailWithPassword selects it.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	FullName      string     `bun:"full_name,notnull" json:"full_name,omitempty"`
	IsActive      bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	Roles         []UserRole `bun:"roles,notnull" json:"roles,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*User)(nil)

// BeforeAppendModel normalizes the email before inserts and updates so the
// unique constraint sees a canonical value.
func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		u.Email = NormalizeEmail(u.Email)
	}
	return nil
}

// HasRole checks if the user carries the given role tag
func (u *User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// EnsureDefaults fills role set, active flag, and identifier for fresh records
func (u *User) EnsureDefaults() {
	if len(u.Roles) == 0 {
		u.Roles = []UserRole{RoleUser}
	}

	u.IsActive = true

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
