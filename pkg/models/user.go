package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `bun:",notnull" json:"username"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // Never expose password hash
	RoleID       int       `json:"role_id"`
	IsActive     bool      `json:"is_active"`

	Role *Role `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
}

// Capabilities returns what the user's role grants. A user without a loaded
// role has none.
func (u *User) Capabilities() CapabilitySet {
	if u.Role == nil {
		return CapabilitySet{}
	}
	return u.Role.Capabilities()
}

// HasCapability checks if the user's role grants the capability.
func (u *User) HasCapability(c Capability) bool {
	return u.Capabilities().Has(c)
}

// Caller returns the identity to pass into services.
func (u *User) Caller() Caller {
	return Caller{UserID: u.ID, Capabilities: u.Capabilities()}
}
