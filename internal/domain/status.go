package domain

import (
	"time"

	apperrors "github.com/spec-kit/seller-admin-service/pkg/util/errorutil"
)

// SellerStatus is a seller lifecycle state.
type SellerStatus string

const (
	StatusPending     SellerStatus = "PENDING"
	StatusActive      SellerStatus = "ACTIVE"
	StatusSuspended   SellerStatus = "SUSPENDED"
	StatusExitPending SellerStatus = "EXIT_PENDING"
	StatusExited      SellerStatus = "EXITED"
)

// Valid reports whether s is a known status.
func (s SellerStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusExitPending, StatusExited:
		return true
	}
	return false
}

// TransitionTable maps each status to the statuses it may move to.
type TransitionTable map[SellerStatus][]SellerStatus

// DefaultTransitionTable returns the deployment's legality table.
func DefaultTransitionTable() TransitionTable {
	return TransitionTable{
		StatusPending:     {StatusActive, StatusExited},
		StatusActive:      {StatusSuspended, StatusExitPending},
		StatusSuspended:   {StatusActive, StatusExitPending},
		StatusExitPending: {StatusSuspended, StatusExited, StatusActive},
	}
}

// Allows reports whether from -> to is present in the table.
func (t TransitionTable) Allows(from, to SellerStatus) bool {
	for _, allowed := range t[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionRecord describes one accepted status change, ready for the audit
// trail.
type TransitionRecord struct {
	From    SellerStatus
	To      SellerStatus
	At      time.Time
	ActorID int64
}

// TransitionAuthority decides which status changes are legal and who may
// perform them. It never writes; accepted transitions come back as records for
// the audit trail.
type TransitionAuthority struct {
	table TransitionTable
}

// NewTransitionAuthority builds an authority over the given table, falling
// back to the default table when nil.
func NewTransitionAuthority(table TransitionTable) *TransitionAuthority {
	if table == nil {
		table = DefaultTransitionTable()
	}
	return &TransitionAuthority{table: table}
}

// Authorize validates a requested transition. Only master actors may change
// status at all, regardless of whether the target state is reachable.
func (a *TransitionAuthority) Authorize(actor Actor, from, to SellerStatus, at time.Time) (TransitionRecord, error) {
	if !actor.IsMaster() {
		return TransitionRecord{}, apperrors.NewForbidden("status changes require master role")
	}
	if !a.table.Allows(from, to) {
		return TransitionRecord{}, apperrors.NewIllegalTransition(string(from), string(to))
	}
	return TransitionRecord{From: from, To: to, At: at, ActorID: actor.AccountID}, nil
}
