package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/seller-admin-service/internal/domain"
	"github.com/spec-kit/seller-admin-service/internal/repository"
	"github.com/spec-kit/seller-admin-service/internal/temporal"
	apperrors "github.com/spec-kit/seller-admin-service/pkg/util/errorutil"
)

// fakeSellerStore is an in-memory stand-in for the pgx store. WithTx snapshots
// state up front and restores it when fn fails, mirroring a rollback.
type fakeSellerStore struct {
	clock time.Time

	accounts       map[int64]*domain.Account // account id -> account
	accountNos     map[int64]int64           // account_no -> seller_account_id
	sellerAccounts map[int64]int64           // seller_account_id -> account id
	appUsers       map[string]int64

	infos    []domain.SellerInfo
	managers map[int64][]domain.ManagerInfo // info id -> rows
	history  []domain.StatusChange

	nextAccountID int64
	nextSellerID  int64
	nextInfoID    int64
	nextChangeID  int64

	// set to force the conditional close to miss, like a lost serialization race
	closeAlwaysMisses bool
}

func newFakeSellerStore() *fakeSellerStore {
	return &fakeSellerStore{
		clock:          time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
		accounts:       map[int64]*domain.Account{},
		accountNos:     map[int64]int64{},
		sellerAccounts: map[int64]int64{},
		appUsers:       map[string]int64{},
		managers:       map[int64][]domain.ManagerInfo{},
	}
}

// seedSeller installs a seller with one open version and returns its ids.
func (f *fakeSellerStore) seedSeller(accountNo int64, status domain.SellerStatus) (sellerAccountID, infoID int64) {
	f.nextAccountID++
	f.nextSellerID++
	f.nextInfoID++

	f.accountNos[accountNo] = f.nextSellerID
	f.sellerAccounts[f.nextSellerID] = f.nextAccountID

	info := domain.SellerInfo{
		ID:              f.nextInfoID,
		SellerAccountID: f.nextSellerID,
		Status:          status,
		NameKR:          "서울상회",
		NameEN:          "Seoul Trading",
		CenterNumber:    "02-1234-5678",
		ModifierID:      f.nextAccountID,
		Window:          temporal.NewOpenWindow(f.clock.Add(-24 * time.Hour)),
	}
	f.infos = append(f.infos, info)
	f.managers[info.ID] = []domain.ManagerInfo{
		{ID: 1, SellerInfoID: info.ID, Name: "Kim", ContactNumber: "010-1111-2222", Email: "kim@example.com", Ranking: 1},
	}
	f.history = append(f.history, domain.StatusChange{
		ID: 1, SellerAccountID: f.nextSellerID, Status: status,
		ChangedAt: f.clock.Add(-24 * time.Hour), ModifierID: f.nextAccountID,
	})
	f.nextChangeID = 1
	return f.nextSellerID, info.ID
}

// versionsOf returns every version of the seller, oldest first.
func (f *fakeSellerStore) versionsOf(sellerAccountID int64) []domain.SellerInfo {
	var out []domain.SellerInfo
	for _, info := range f.infos {
		if info.SellerAccountID == sellerAccountID {
			out = append(out, info)
		}
	}
	return out
}

func (f *fakeSellerStore) windowsOf(sellerAccountID int64) []temporal.Window {
	var out []temporal.Window
	for _, info := range f.versionsOf(sellerAccountID) {
		out = append(out, info.Window)
	}
	return out
}

func (f *fakeSellerStore) WithTx(_ context.Context, fn func(tx repository.SellerTx) error) error {
	f.clock = f.clock.Add(time.Second)

	saved := f.snapshot()
	if err := fn(&fakeSellerTx{store: f}); err != nil {
		f.restore(saved)
		return err
	}
	return nil
}

type storeSnapshot struct {
	accountNos     map[int64]int64
	sellerAccounts map[int64]int64
	infos          []domain.SellerInfo
	managers       map[int64][]domain.ManagerInfo
	history        []domain.StatusChange

	nextAccountID, nextSellerID, nextInfoID, nextChangeID int64
}

func (f *fakeSellerStore) snapshot() storeSnapshot {
	managers := make(map[int64][]domain.ManagerInfo, len(f.managers))
	for id, rows := range f.managers {
		managers[id] = append([]domain.ManagerInfo(nil), rows...)
	}
	accountNos := make(map[int64]int64, len(f.accountNos))
	for k, v := range f.accountNos {
		accountNos[k] = v
	}
	sellerAccounts := make(map[int64]int64, len(f.sellerAccounts))
	for k, v := range f.sellerAccounts {
		sellerAccounts[k] = v
	}
	return storeSnapshot{
		accountNos:     accountNos,
		sellerAccounts: sellerAccounts,
		infos:          append([]domain.SellerInfo(nil), f.infos...),
		managers:       managers,
		history:        append([]domain.StatusChange(nil), f.history...),
		nextAccountID:  f.nextAccountID,
		nextSellerID:   f.nextSellerID,
		nextInfoID:     f.nextInfoID,
		nextChangeID:   f.nextChangeID,
	}
}

func (f *fakeSellerStore) restore(s storeSnapshot) {
	f.accountNos = s.accountNos
	f.sellerAccounts = s.sellerAccounts
	f.infos = s.infos
	f.managers = s.managers
	f.history = s.history
	f.nextAccountID = s.nextAccountID
	f.nextSellerID = s.nextSellerID
	f.nextInfoID = s.nextInfoID
	f.nextChangeID = s.nextChangeID
}

func (f *fakeSellerStore) SellerAccountIDByAccountNo(_ context.Context, accountNo int64) (int64, error) {
	id, ok := f.accountNos[accountNo]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	return id, nil
}

func (f *fakeSellerStore) CurrentInfo(_ context.Context, sellerAccountID int64) (*domain.SellerInfo, error) {
	for i := range f.infos {
		if f.infos[i].SellerAccountID == sellerAccountID && f.infos[i].Window.Open() {
			info := f.infos[i]
			return &info, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSellerStore) ManagersByInfoID(_ context.Context, infoID int64) ([]domain.ManagerInfo, error) {
	return append([]domain.ManagerInfo(nil), f.managers[infoID]...), nil
}

func (f *fakeSellerStore) StatusHistory(_ context.Context, sellerAccountID int64) ([]domain.StatusChange, error) {
	var out []domain.StatusChange
	for _, change := range f.history {
		if change.SellerAccountID == sellerAccountID {
			out = append(out, change)
		}
	}
	return out, nil
}

func (f *fakeSellerStore) NameKRTaken(_ context.Context, nameKR string) (bool, error) {
	for _, info := range f.infos {
		if info.Window.Open() && info.NameKR == nameKR {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSellerStore) NameENTaken(_ context.Context, nameEN string) (bool, error) {
	for _, info := range f.infos {
		if info.Window.Open() && info.NameEN == nameEN {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSellerStore) ListOpen(_ context.Context, filter repository.SellerFilter) ([]repository.SellerSummary, error) {
	var out []repository.SellerSummary
	for _, info := range f.infos {
		if !info.Window.Open() {
			continue
		}
		if filter.Status != nil && info.Status != *filter.Status {
			continue
		}
		out = append(out, repository.SellerSummary{
			SellerAccountID: info.SellerAccountID,
			AccountNo:       f.sellerAccounts[info.SellerAccountID],
			NameKR:          info.NameKR,
			NameEN:          info.NameEN,
			Status:          info.Status,
			RegisteredAt:    info.Window.Start,
		})
	}
	return out, nil
}

func (f *fakeSellerStore) CountOpen(ctx context.Context, filter repository.SellerFilter) (int64, error) {
	rows, err := f.ListOpen(ctx, filter)
	return int64(len(rows)), err
}

type fakeSellerTx struct {
	store *fakeSellerStore
}

func (t *fakeSellerTx) Now(context.Context) (time.Time, error) {
	return t.store.clock, nil
}

func (t *fakeSellerTx) SellerAccountIDByAccountNo(ctx context.Context, accountNo int64) (int64, error) {
	return t.store.SellerAccountIDByAccountNo(ctx, accountNo)
}

func (t *fakeSellerTx) CurrentInfo(ctx context.Context, sellerAccountID int64) (*domain.SellerInfo, error) {
	return t.store.CurrentInfo(ctx, sellerAccountID)
}

func (t *fakeSellerTx) ResolveAppUser(_ context.Context, appID string) (int64, error) {
	id, ok := t.store.appUsers[appID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	return id, nil
}

// openVersionIndexError mimics the partial unique index on open versions:
// Postgres checks it when the INSERT executes, not at commit.
func openVersionIndexError() error {
	return &pgconn.PgError{
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "seller_infos_open_version_idx"`,
		ConstraintName: "seller_infos_open_version_idx",
	}
}

func (t *fakeSellerTx) hasOpenVersion(sellerAccountID int64) bool {
	for i := range t.store.infos {
		if t.store.infos[i].SellerAccountID == sellerAccountID && t.store.infos[i].Window.Open() {
			return true
		}
	}
	return false
}

func (t *fakeSellerTx) InsertInfoVersion(_ context.Context, info *domain.SellerInfo) error {
	if info.Window.Open() && t.hasOpenVersion(info.SellerAccountID) {
		return openVersionIndexError()
	}
	t.store.nextInfoID++
	info.ID = t.store.nextInfoID
	t.store.infos = append(t.store.infos, *info)
	return nil
}

func (t *fakeSellerTx) CloseInfoVersion(_ context.Context, infoID int64, asOf time.Time) error {
	if t.store.closeAlwaysMisses {
		return apperrors.NewConflict("seller info already revised", map[string]any{"info_id": infoID})
	}
	for i := range t.store.infos {
		if t.store.infos[i].ID == infoID && t.store.infos[i].Window.Open() {
			t.store.infos[i].Window.Close = asOf
			return nil
		}
	}
	return apperrors.NewConflict("seller info already revised", map[string]any{"info_id": infoID})
}

func (t *fakeSellerTx) CopyInfoVersion(_ context.Context, fromID int64, status domain.SellerStatus, modifierID int64, asOf time.Time) (int64, error) {
	for i := range t.store.infos {
		if t.store.infos[i].ID == fromID {
			if t.hasOpenVersion(t.store.infos[i].SellerAccountID) {
				return 0, openVersionIndexError()
			}
			next := t.store.infos[i]
			t.store.nextInfoID++
			next.ID = t.store.nextInfoID
			next.Status = status
			next.ModifierID = modifierID
			next.Window = temporal.NewOpenWindow(asOf)
			t.store.infos = append(t.store.infos, next)
			return next.ID, nil
		}
	}
	return 0, pgx.ErrNoRows
}

func (t *fakeSellerTx) InsertManagers(_ context.Context, infoID int64, managers []domain.ManagerInfo) error {
	rows := make([]domain.ManagerInfo, 0, len(managers))
	for i, m := range managers {
		m.ID = int64(i + 1)
		m.SellerInfoID = infoID
		rows = append(rows, m)
	}
	t.store.managers[infoID] = rows
	return nil
}

func (t *fakeSellerTx) CopyManagers(_ context.Context, fromInfoID, toInfoID int64) error {
	rows := append([]domain.ManagerInfo(nil), t.store.managers[fromInfoID]...)
	for i := range rows {
		rows[i].SellerInfoID = toInfoID
	}
	t.store.managers[toInfoID] = rows
	return nil
}

func (t *fakeSellerTx) AppendStatusChange(_ context.Context, change *domain.StatusChange) error {
	t.store.nextChangeID++
	change.ID = t.store.nextChangeID
	t.store.history = append(t.store.history, *change)
	return nil
}

func (t *fakeSellerTx) InsertAccount(_ context.Context, account *domain.Account) error {
	t.store.nextAccountID++
	account.ID = t.store.nextAccountID
	t.store.accounts[account.ID] = account
	return nil
}

func (t *fakeSellerTx) InsertSellerAccount(_ context.Context, accountID int64) (int64, error) {
	t.store.nextSellerID++
	t.store.sellerAccounts[t.store.nextSellerID] = accountID
	t.store.accountNos[accountID] = t.store.nextSellerID
	return t.store.nextSellerID, nil
}
