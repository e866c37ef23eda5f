package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/seller-admin-service/internal/domain"
	"github.com/spec-kit/seller-admin-service/internal/repository"
	"github.com/spec-kit/seller-admin-service/internal/temporal"
	apperrors "github.com/spec-kit/seller-admin-service/pkg/util/errorutil"
)

func newSellerServiceForTest(store *fakeSellerStore) *SellerService {
	return NewSellerService(SellerDependencies{Store: store})
}

func masterActor() domain.Actor {
	return domain.Actor{AccountID: 999, Role: domain.RoleMaster}
}

func sellerActor(accountID int64) domain.Actor {
	return domain.Actor{AccountID: accountID, Role: domain.RoleSeller}
}

func strPtr(s string) *string { return &s }

func validProfileInput() ProfileInput {
	return ProfileInput{
		NameKR:       "서울상회",
		NameEN:       "Seoul Trading",
		CenterNumber: "02-1234-5678",
		Managers: []ManagerInput{
			{Name: "Lee", ContactNumber: "010-3333-4444", Email: "lee@example.com", Ranking: 1},
		},
	}
}

func TestReviseProfileOpensNewVersionAndClosesOld(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, oldInfoID := store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	input := validProfileInput()
	input.CompanyName = strPtr("Seoul Trading Co.")

	result, err := svc.ReviseProfile(context.Background(), 1, input, sellerActor(1))
	require.NoError(t, err)
	assert.Equal(t, sellerID, result.SellerAccountID)
	assert.False(t, result.StatusChanged)
	assert.Equal(t, domain.StatusActive, result.Status)

	versions := store.versionsOf(sellerID)
	require.Len(t, versions, 2)
	require.NoError(t, temporal.ValidateTimeline(store.windowsOf(sellerID)))

	old, next := versions[0], versions[1]
	assert.Equal(t, oldInfoID, old.ID)
	assert.False(t, old.Window.Open())
	assert.True(t, next.Window.Open())
	assert.True(t, old.Window.Abuts(next.Window))

	require.NotNil(t, next.CompanyName)
	assert.Equal(t, "Seoul Trading Co.", *next.CompanyName)

	// old version keeps its manager rows, new version gets the submitted set
	assert.Len(t, store.managers[old.ID], 1)
	require.Len(t, store.managers[next.ID], 1)
	assert.Equal(t, "Lee", store.managers[next.ID][0].Name)
	assert.Equal(t, next.ID, store.managers[next.ID][0].SellerInfoID)

	// no inline transition, so no new audit row
	history, err := store.StatusHistory(context.Background(), sellerID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

// The store rejects a second open row per seller the way the partial unique
// index does, so these pass only when the predecessor is closed before the
// successor is inserted.
func TestRevisionPathsCloseBeforeOpening(t *testing.T) {
	t.Run("profile edit", func(t *testing.T) {
		store := newFakeSellerStore()
		sellerID, _ := store.seedSeller(1, domain.StatusActive)
		svc := newSellerServiceForTest(store)

		_, err := svc.ReviseProfile(context.Background(), 1, validProfileInput(), sellerActor(1))
		require.NoError(t, err)

		open := 0
		for _, info := range store.versionsOf(sellerID) {
			if info.Window.Open() {
				open++
			}
		}
		assert.Equal(t, 1, open)
	})

	t.Run("status change", func(t *testing.T) {
		store := newFakeSellerStore()
		sellerID, _ := store.seedSeller(1, domain.StatusActive)
		svc := newSellerServiceForTest(store)

		_, err := svc.ChangeStatus(context.Background(), sellerID, domain.StatusSuspended, masterActor())
		require.NoError(t, err)

		open := 0
		for _, info := range store.versionsOf(sellerID) {
			if info.Window.Open() {
				open++
			}
		}
		assert.Equal(t, 1, open)
	})
}

func TestStoreRejectsSecondOpenVersion(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, _ := store.seedSeller(1, domain.StatusActive)

	err := store.WithTx(context.Background(), func(tx repository.SellerTx) error {
		asOf, err := tx.Now(context.Background())
		require.NoError(t, err)
		return tx.InsertInfoVersion(context.Background(), &domain.SellerInfo{
			SellerAccountID: sellerID,
			Status:          domain.StatusActive,
			NameKR:          "서울상회",
			NameEN:          "Seoul Trading",
			CenterNumber:    "02-1234-5678",
			Window:          temporal.NewOpenWindow(asOf),
		})
	})
	require.Error(t, err)
	assert.Len(t, store.versionsOf(sellerID), 1)
}

func TestReviseProfileCarriesUnsetFieldsForward(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, _ := store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	first := validProfileInput()
	first.BankName = strPtr("국민은행")
	_, err := svc.ReviseProfile(context.Background(), 1, first, sellerActor(1))
	require.NoError(t, err)

	// second edit omits BankName; the stored value must survive
	second := validProfileInput()
	second.Address = strPtr("Mapo-gu 12")
	_, err = svc.ReviseProfile(context.Background(), 1, second, sellerActor(1))
	require.NoError(t, err)

	current, err := store.CurrentInfo(context.Background(), sellerID)
	require.NoError(t, err)
	require.NotNil(t, current.BankName)
	assert.Equal(t, "국민은행", *current.BankName)
	require.NotNil(t, current.Address)
	assert.Equal(t, "Mapo-gu 12", *current.Address)
}

func TestReviseProfileTwiceWithIdenticalPayload(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, _ := store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	input := validProfileInput()
	_, err := svc.ReviseProfile(context.Background(), 1, input, sellerActor(1))
	require.NoError(t, err)
	_, err = svc.ReviseProfile(context.Background(), 1, input, sellerActor(1))
	require.NoError(t, err)

	// edits are never deduplicated: each submit is its own version
	assert.Len(t, store.versionsOf(sellerID), 3)
	require.NoError(t, temporal.ValidateTimeline(store.windowsOf(sellerID)))
}

func TestReviseProfileWithInlineStatusChange(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, _ := store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	input := validProfileInput()
	input.Status = domain.StatusSuspended

	result, err := svc.ReviseProfile(context.Background(), 1, input, masterActor())
	require.NoError(t, err)
	assert.True(t, result.StatusChanged)
	assert.Equal(t, domain.StatusActive, result.PreviousStatus)
	assert.Equal(t, domain.StatusSuspended, result.Status)

	current, err := store.CurrentInfo(context.Background(), sellerID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuspended, current.Status)

	history, err := store.StatusHistory(context.Background(), sellerID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	last := history[len(history)-1]
	assert.Equal(t, domain.StatusSuspended, last.Status)
	assert.Equal(t, masterActor().AccountID, last.ModifierID)
	assert.Equal(t, current.Window.Start, last.ChangedAt)
}

func TestReviseProfileRejectsPendingSeller(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, _ := store.seedSeller(1, domain.StatusPending)
	svc := newSellerServiceForTest(store)

	_, err := svc.ReviseProfile(context.Background(), 1, validProfileInput(), sellerActor(1))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "NOT_EDITABLE_IN_PENDING"))
	assert.Len(t, store.versionsOf(sellerID), 1)
}

func TestReviseProfileUnknownAccount(t *testing.T) {
	store := newFakeSellerStore()
	svc := newSellerServiceForTest(store)

	_, err := svc.ReviseProfile(context.Background(), 404, validProfileInput(), masterActor())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "NOT_FOUND"))
}

func TestReviseProfileUnresolvedAppUser(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, _ := store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	input := validProfileInput()
	input.AppUserAppID = strPtr("ghost")

	_, err := svc.ReviseProfile(context.Background(), 1, input, sellerActor(1))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "REFERENCE_NOT_FOUND"))
	assert.Len(t, store.versionsOf(sellerID), 1)
}

func TestReviseProfileValidation(t *testing.T) {
	store := newFakeSellerStore()
	store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	t.Run("missing required fields", func(t *testing.T) {
		input := validProfileInput()
		input.NameKR = ""
		_, err := svc.ReviseProfile(context.Background(), 1, input, sellerActor(1))
		assert.True(t, apperrors.HasCode(err, "VALIDATION_FAILED"))
	})

	t.Run("no managers", func(t *testing.T) {
		input := validProfileInput()
		input.Managers = nil
		_, err := svc.ReviseProfile(context.Background(), 1, input, sellerActor(1))
		assert.True(t, apperrors.HasCode(err, "VALIDATION_FAILED"))
	})

	t.Run("too many managers", func(t *testing.T) {
		input := validProfileInput()
		for i := 0; i < domain.MaxManagers; i++ {
			input.Managers = append(input.Managers, ManagerInput{ContactNumber: "010-0000-0000"})
		}
		_, err := svc.ReviseProfile(context.Background(), 1, input, sellerActor(1))
		assert.True(t, apperrors.HasCode(err, "VALIDATION_FAILED"))
	})
}

func TestReviseProfileInlineTransitionDeniedForNonMaster(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, _ := store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	input := validProfileInput()
	input.Status = domain.StatusSuspended

	_, err := svc.ReviseProfile(context.Background(), 1, input, sellerActor(1))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "FORBIDDEN"))

	// the whole revision rolls back, not just the transition
	assert.Len(t, store.versionsOf(sellerID), 1)
	history, _ := store.StatusHistory(context.Background(), sellerID)
	assert.Len(t, history, 1)
}

func TestReviseProfileConflictRollsBack(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, _ := store.seedSeller(1, domain.StatusActive)
	store.closeAlwaysMisses = true
	svc := newSellerServiceForTest(store)

	_, err := svc.ReviseProfile(context.Background(), 1, validProfileInput(), sellerActor(1))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "CONFLICT"))

	// the inserted version is rolled back with the failed close
	assert.Len(t, store.versionsOf(sellerID), 1)
	require.NoError(t, temporal.ValidateTimeline(store.windowsOf(sellerID)))
}

func TestChangeStatusCopiesVersionVerbatim(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, oldInfoID := store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	result, err := svc.ChangeStatus(context.Background(), sellerID, domain.StatusSuspended, masterActor())
	require.NoError(t, err)
	assert.True(t, result.StatusChanged)

	versions := store.versionsOf(sellerID)
	require.Len(t, versions, 2)
	require.NoError(t, temporal.ValidateTimeline(store.windowsOf(sellerID)))

	old, next := versions[0], versions[1]
	assert.Equal(t, domain.StatusSuspended, next.Status)
	assert.Equal(t, old.NameKR, next.NameKR)
	assert.Equal(t, old.NameEN, next.NameEN)
	assert.Equal(t, old.CenterNumber, next.CenterNumber)
	assert.Equal(t, masterActor().AccountID, next.ModifierID)

	// manager rows are duplicated, not moved
	require.Len(t, store.managers[next.ID], 1)
	assert.Equal(t, store.managers[oldInfoID][0].Name, store.managers[next.ID][0].Name)
	assert.Equal(t, next.ID, store.managers[next.ID][0].SellerInfoID)

	history, err := store.StatusHistory(context.Background(), sellerID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.StatusSuspended, history[1].Status)
}

func TestChangeStatusIllegalTransition(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, _ := store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	_, err := svc.ChangeStatus(context.Background(), sellerID, domain.StatusExited, masterActor())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "ILLEGAL_TRANSITION"))

	assert.Len(t, store.versionsOf(sellerID), 1)
	history, _ := store.StatusHistory(context.Background(), sellerID)
	assert.Len(t, history, 1)
}

func TestChangeStatusForbiddenBeforeLegality(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, _ := store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	// ACTIVE -> EXITED is also illegal; the role check must win
	_, err := svc.ChangeStatus(context.Background(), sellerID, domain.StatusExited, sellerActor(1))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "FORBIDDEN"))
}

func TestChangeStatusSameStatusRejected(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, _ := store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	_, err := svc.ChangeStatus(context.Background(), sellerID, domain.StatusActive, masterActor())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "ILLEGAL_TRANSITION"))
	assert.Len(t, store.versionsOf(sellerID), 1)
}

func TestChangeStatusUnknownStatus(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, _ := store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	_, err := svc.ChangeStatus(context.Background(), sellerID, domain.SellerStatus("BANANA"), masterActor())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "VALIDATION_FAILED"))
}

func TestChangeStatusNoOpenVersion(t *testing.T) {
	store := newFakeSellerStore()
	svc := newSellerServiceForTest(store)

	_, err := svc.ChangeStatus(context.Background(), 42, domain.StatusSuspended, masterActor())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "NO_OPEN_VERSION"))
}

func TestCurrentSellerInfo(t *testing.T) {
	store := newFakeSellerStore()
	sellerID, infoID := store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	snapshot, err := svc.CurrentSellerInfo(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, infoID, snapshot.Info.ID)
	assert.Equal(t, sellerID, snapshot.Info.SellerAccountID)
	assert.True(t, snapshot.Info.Window.Open())
	require.Len(t, snapshot.Info.Managers, 1)
	require.Len(t, snapshot.History, 1)
	assert.Equal(t, domain.StatusActive, snapshot.History[0].Status)
}

func TestCurrentSellerInfoUnknownAccount(t *testing.T) {
	store := newFakeSellerStore()
	svc := newSellerServiceForTest(store)

	_, err := svc.CurrentSellerInfo(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "NOT_FOUND"))
}

func TestCurrentSellerInfoReflectsLatestVersion(t *testing.T) {
	store := newFakeSellerStore()
	store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	input := validProfileInput()
	input.NameEN = "Seoul Trading v2"
	_, err := svc.ReviseProfile(context.Background(), 1, input, sellerActor(1))
	require.NoError(t, err)

	snapshot, err := svc.CurrentSellerInfo(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Seoul Trading v2", snapshot.Info.NameEN)
}

func TestListSellersMasterOnly(t *testing.T) {
	store := newFakeSellerStore()
	store.seedSeller(1, domain.StatusActive)
	svc := newSellerServiceForTest(store)

	_, _, err := svc.ListSellers(context.Background(), repository.SellerFilter{}, sellerActor(1))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "FORBIDDEN"))
}

func TestListSellersWithAllowedTransitions(t *testing.T) {
	store := newFakeSellerStore()
	store.seedSeller(1, domain.StatusActive)
	store.seedSeller(2, domain.StatusExitPending)
	svc := newSellerServiceForTest(store)

	items, total, err := svc.ListSellers(context.Background(), repository.SellerFilter{Limit: 10}, masterActor())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)

	byStatus := map[domain.SellerStatus][]domain.SellerStatus{}
	for _, item := range items {
		byStatus[item.Status] = item.AllowedTransitions
	}
	assert.ElementsMatch(t, []domain.SellerStatus{domain.StatusSuspended, domain.StatusExitPending}, byStatus[domain.StatusActive])
	assert.ElementsMatch(t, []domain.SellerStatus{domain.StatusSuspended, domain.StatusExited, domain.StatusActive}, byStatus[domain.StatusExitPending])
}

func TestListSellersStatusFilter(t *testing.T) {
	store := newFakeSellerStore()
	store.seedSeller(1, domain.StatusActive)
	store.seedSeller(2, domain.StatusSuspended)
	svc := newSellerServiceForTest(store)

	status := domain.StatusSuspended
	items, total, err := svc.ListSellers(context.Background(), repository.SellerFilter{Status: &status, Limit: 10}, masterActor())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, domain.StatusSuspended, items[0].Status)
}
