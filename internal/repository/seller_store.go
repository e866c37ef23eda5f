package repository

import (
	"context"
	"time"

	"github.com/spec-kit/seller-admin-service/internal/domain"
)

// SellerTx groups the statements available inside one revision transaction.
// Every method runs against the same transaction-scoped handle; nothing is
// observable to readers until the enclosing WithTx commits.
type SellerTx interface {
	// Now returns the transaction's snapshot clock. Revisions read it once and
	// reuse it for both the close and the open so the windows join exactly.
	Now(ctx context.Context) (time.Time, error)

	SellerAccountIDByAccountNo(ctx context.Context, accountNo int64) (int64, error)

	// CurrentInfo returns the open version for the seller account, without
	// manager rows. pgx.ErrNoRows means the invariant is broken upstream.
	CurrentInfo(ctx context.Context, sellerAccountID int64) (*domain.SellerInfo, error)

	// ResolveAppUser maps an external shopper-app id to its internal id,
	// honoring the soft-delete flag.
	ResolveAppUser(ctx context.Context, appID string) (int64, error)

	// InsertInfoVersion inserts a new open version and fills in info.ID.
	InsertInfoVersion(ctx context.Context, info *domain.SellerInfo) error

	// CloseInfoVersion sets close_time on a still-open row. The update is
	// conditional on the open sentinel; losing that race yields CONFLICT, never
	// a silent overwrite.
	CloseInfoVersion(ctx context.Context, infoID int64, asOf time.Time) error

	// CopyInfoVersion opens a new version carrying every profile field forward
	// verbatim from fromID; only status, modifier and start_time differ.
	CopyInfoVersion(ctx context.Context, fromID int64, status domain.SellerStatus, modifierID int64, asOf time.Time) (int64, error)

	InsertManagers(ctx context.Context, infoID int64, managers []domain.ManagerInfo) error

	// CopyManagers duplicates the manager rows of one version under another.
	CopyManagers(ctx context.Context, fromInfoID, toInfoID int64) error

	// AppendStatusChange writes one immutable audit row. Pure insert.
	AppendStatusChange(ctx context.Context, change *domain.StatusChange) error

	InsertAccount(ctx context.Context, account *domain.Account) error
	InsertSellerAccount(ctx context.Context, accountID int64) (int64, error)
}

// SellerFilter narrows the open-version listing.
type SellerFilter struct {
	Status        *domain.SellerStatus
	NameKR        *string
	NameEN        *string
	LoginID       *string
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
	Limit         int
	Offset        int
}

// SellerSummary is one row of the master listing, drawn from open versions.
type SellerSummary struct {
	SellerAccountID int64
	AccountNo       int64
	LoginID         string
	NameKR          string
	NameEN          string
	Status          domain.SellerStatus
	ManagerName     string
	ManagerNumber   string
	RegisteredAt    time.Time
}

// SellerStore owns the versioned seller tables.
type SellerStore interface {
	// WithTx runs fn inside one serializable transaction, committing only when
	// fn returns nil and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx SellerTx) error) error

	SellerAccountIDByAccountNo(ctx context.Context, accountNo int64) (int64, error)
	CurrentInfo(ctx context.Context, sellerAccountID int64) (*domain.SellerInfo, error)
	ManagersByInfoID(ctx context.Context, infoID int64) ([]domain.ManagerInfo, error)
	StatusHistory(ctx context.Context, sellerAccountID int64) ([]domain.StatusChange, error)
	NameKRTaken(ctx context.Context, nameKR string) (bool, error)
	NameENTaken(ctx context.Context, nameEN string) (bool, error)
	ListOpen(ctx context.Context, filter SellerFilter) ([]SellerSummary, error)
	CountOpen(ctx context.Context, filter SellerFilter) (int64, error)
}
