package domain

import "time"

// StatusChange is an immutable audit trail entry: one row per accepted
// transition, owned by the seller account and independent of version identity.
type StatusChange struct {
	ID              int64
	SellerAccountID int64
	Status          SellerStatus
	ChangedAt       time.Time
	ModifierID      int64
}
