package domain

import "time"

// AccountRole is the authorization tier of a login identity.
type AccountRole string

const (
	// RoleMaster is the elevated back-office tier; only masters may drive
	// seller status transitions.
	RoleMaster AccountRole = "MASTER"
	// RoleSeller is the default tier created at signup.
	RoleSeller AccountRole = "SELLER"
)

// Account is a login identity. Credentials mutate in place and accounts are
// soft-deleted, never removed.
type Account struct {
	ID           int64
	LoginID      string
	PasswordHash string
	Role         AccountRole
	IsDeleted    bool
	CreatedAt    time.Time
}

// Actor identifies the authenticated caller of a mutating operation.
type Actor struct {
	AccountID int64
	Role      AccountRole
}

// IsMaster reports whether the actor holds the elevated tier.
func (a Actor) IsMaster() bool {
	return a.Role == RoleMaster
}
