package session

import (
	"context"
	"fmt"

	"github.com/aarogyalekha/hospital-portal/internal/models"
)

// Role identifies which operator area a credential belongs to.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
)

// Other returns the opposite operator role.
func (r Role) Other() Role {
	if r == RoleAdmin {
		return RoleDoctor
	}
	return RoleAdmin
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDoctor
}

// Credential is one live session: an opaque bearer token plus the
// profile snapshot issued with it. At most one per role at any time.
type Credential struct {
	Role  Role               `json:"role"`
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

// Snapshot is a point-in-time read of both slots, used by the gateway's
// credential selection and by the route guards. Nil means logged out.
type Snapshot struct {
	Admin  *Credential
	Doctor *Credential
}

// Get returns the credential for role, or nil.
func (s Snapshot) Get(role Role) *Credential {
	if role == RoleAdmin {
		return s.Admin
	}
	return s.Doctor
}

// Store holds at most one credential per role in persistent storage.
// Writers must be idempotent: clearing an absent credential is a no-op,
// and SetCredential always drops the other role's credential before
// writing, so two roles never coexist after a login completes.
type Store interface {
	SetCredential(ctx context.Context, role Role, token string, user models.UserProfile) error
	GetCredential(ctx context.Context, role Role) (*Credential, error)
	Clear(ctx context.Context, role Role) error
	Snapshot(ctx context.Context) (Snapshot, error)
}

// ErrNoCredential is returned when no credential is stored for a role.
var ErrNoCredential = fmt.Errorf("session: no credential")
