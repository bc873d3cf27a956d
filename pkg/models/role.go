package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Predefined role names.
const (
	RoleLibrarian = "librarian"
	RoleBorrower  = "borrower"
)

type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID          int           `bun:",pk,autoincrement" json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Name        string        `bun:",notnull" json:"name"`
	IsSystem    bool          `json:"is_system"`
	Permissions []*Permission `bun:"rel:has-many,join:id=role_id" json:"permissions,omitempty"`
}

type Permission struct {
	bun.BaseModel `bun:"table:permissions,alias:p"`

	ID       int        `bun:",pk,autoincrement" json:"id"`
	RoleID   int        `json:"role_id"`
	Codename Capability `json:"codename"`
}

// Capabilities returns the set of capabilities granted by the role.
func (r *Role) Capabilities() CapabilitySet {
	set := make(CapabilitySet, len(r.Permissions))
	for _, p := range r.Permissions {
		set[p.Codename] = struct{}{}
	}
	return set
}
