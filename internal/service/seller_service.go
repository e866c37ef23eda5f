package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/seller-admin-service/internal/cache"
	"github.com/spec-kit/seller-admin-service/internal/domain"
	"github.com/spec-kit/seller-admin-service/internal/events"
	"github.com/spec-kit/seller-admin-service/internal/repository"
	"github.com/spec-kit/seller-admin-service/internal/temporal"
	apperrors "github.com/spec-kit/seller-admin-service/pkg/util/errorutil"
)

// SellerService coordinates seller profile revisions, status transitions and
// open-version queries.
type SellerService struct {
	store      repository.SellerStore
	authority  *domain.TransitionAuthority
	snapshots  *cache.SellerSnapshotCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// SellerDependencies bundles collaborators for the seller service.
type SellerDependencies struct {
	Store      repository.SellerStore
	Authority  *domain.TransitionAuthority
	Snapshots  *cache.SellerSnapshotCache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewSellerService constructs the service.
func NewSellerService(deps SellerDependencies) *SellerService {
	authority := deps.Authority
	if authority == nil {
		authority = domain.NewTransitionAuthority(nil)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SellerService{
		store:      deps.Store,
		authority:  authority,
		snapshots:  deps.Snapshots,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ManagerInput describes one contact-person entry of an edit form.
type ManagerInput struct {
	Name          string
	ContactNumber string
	Email         string
	Ranking       int
}

// ProfileInput is the full seller edit form. Required fields replace the
// stored value; optional pointer fields carry the stored value forward when
// nil.
type ProfileInput struct {
	Status domain.SellerStatus

	NameKR       string
	NameEN       string
	CenterNumber string

	AppUserAppID *string

	ProfileImageURL        *string
	BackgroundImageURL     *string
	CEOName                *string
	CompanyName            *string
	BusinessNumber         *string
	CertificateImageURL    *string
	OnlineBusinessNumber   *string
	OnlineBusinessImageURL *string
	ShortDescription       *string
	LongDescription        *string
	SiteURL                *string
	KakaoID                *string
	InstaID                *string
	ZipCode                *string
	Address                *string
	DetailAddress          *string
	WeekdayStartTime       *string
	WeekdayEndTime         *string
	WeekendStartTime       *string
	WeekendEndTime         *string
	BankName               *string
	BankHolderName         *string
	BankAccountNumber      *string

	Managers []ManagerInput
}

// RevisionResult reports the outcome of a version bump.
type RevisionResult struct {
	SellerAccountID int64
	VersionID       int64
	Status          domain.SellerStatus
	StatusChanged   bool
	PreviousStatus  domain.SellerStatus
}

// ReviseProfile closes the current version of the seller behind accountNo and
// opens a new one carrying the edited fields, re-attaching manager rows and
// auditing an inline status change when one is requested. All writes share one
// transaction and one snapshot timestamp.
func (s *SellerService) ReviseProfile(ctx context.Context, accountNo int64, input ProfileInput, actor domain.Actor) (*RevisionResult, error) {
	if err := validateProfileInput(input); err != nil {
		return nil, err
	}

	var result RevisionResult
	err := s.store.WithTx(ctx, func(tx repository.SellerTx) error {
		sellerAccountID, err := tx.SellerAccountIDByAccountNo(ctx, accountNo)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("seller account", map[string]any{"account_no": accountNo})
			}
			return apperrors.NewPersistenceError(err)
		}

		current, err := tx.CurrentInfo(ctx, sellerAccountID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNoOpenVersion("seller info", sellerAccountID)
			}
			return apperrors.NewPersistenceError(err)
		}

		if current.Status == domain.StatusPending {
			return apperrors.NewNotEditableInPending()
		}

		// Resolve the external reference before any write so a bad app id never
		// produces a half-applied version.
		appUserID := current.AppUserID
		if input.AppUserAppID != nil {
			id, err := tx.ResolveAppUser(ctx, *input.AppUserAppID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperrors.NewReferenceNotFound("app user", map[string]any{"app_id": *input.AppUserAppID})
				}
				return apperrors.NewPersistenceError(err)
			}
			appUserID = &id
		}

		asOf, err := tx.Now(ctx)
		if err != nil {
			return err
		}

		requested := input.Status
		if requested == "" {
			requested = current.Status
		}
		var transition *domain.TransitionRecord
		if requested != current.Status {
			rec, err := s.authority.Authorize(actor, current.Status, requested, asOf)
			if err != nil {
				return err
			}
			transition = &rec
		}

		// Close before opening: the one-open-version index rejects a second
		// open row for the seller.
		if err := tx.CloseInfoVersion(ctx, current.ID, asOf); err != nil {
			return err
		}
		next := mergeVersion(current, input, requested, appUserID, actor, asOf)
		if err := tx.InsertInfoVersion(ctx, next); err != nil {
			return apperrors.NewPersistenceError(err)
		}

		// Full replace: the old version keeps its manager rows, history stays
		// queryable.
		if err := tx.InsertManagers(ctx, next.ID, managersFromInput(input.Managers)); err != nil {
			return apperrors.NewPersistenceError(err)
		}

		if transition != nil {
			change := &domain.StatusChange{
				SellerAccountID: sellerAccountID,
				Status:          transition.To,
				ChangedAt:       transition.At,
				ModifierID:      transition.ActorID,
			}
			if err := tx.AppendStatusChange(ctx, change); err != nil {
				return err
			}
		}

		result = RevisionResult{
			SellerAccountID: sellerAccountID,
			VersionID:       next.ID,
			Status:          requested,
			StatusChanged:   transition != nil,
			PreviousStatus:  current.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.snapshots.Invalidate(ctx, result.SellerAccountID)
	s.publishRevision(ctx, result, actor)
	return &result, nil
}

// ChangeStatus bumps the seller to a new version whose only semantic delta is
// status: every profile field and manager row is carried forward verbatim, and
// one audit row is appended.
func (s *SellerService) ChangeStatus(ctx context.Context, sellerAccountID int64, target domain.SellerStatus, actor domain.Actor) (*RevisionResult, error) {
	if !target.Valid() {
		return nil, apperrors.NewValidationError("unknown seller status", map[string]any{"status": target})
	}

	var result RevisionResult
	err := s.store.WithTx(ctx, func(tx repository.SellerTx) error {
		current, err := tx.CurrentInfo(ctx, sellerAccountID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNoOpenVersion("seller info", sellerAccountID)
			}
			return apperrors.NewPersistenceError(err)
		}

		asOf, err := tx.Now(ctx)
		if err != nil {
			return err
		}

		rec, err := s.authority.Authorize(actor, current.Status, target, asOf)
		if err != nil {
			return err
		}

		// Close before copying, for the same one-open-version index reason as
		// in ReviseProfile. The closed row keeps every profile field, so the
		// copy still reads from it.
		if err := tx.CloseInfoVersion(ctx, current.ID, asOf); err != nil {
			return err
		}
		newID, err := tx.CopyInfoVersion(ctx, current.ID, target, actor.AccountID, asOf)
		if err != nil {
			return apperrors.NewPersistenceError(err)
		}
		if err := tx.CopyManagers(ctx, current.ID, newID); err != nil {
			return apperrors.NewPersistenceError(err)
		}

		change := &domain.StatusChange{
			SellerAccountID: sellerAccountID,
			Status:          rec.To,
			ChangedAt:       rec.At,
			ModifierID:      rec.ActorID,
		}
		if err := tx.AppendStatusChange(ctx, change); err != nil {
			return err
		}

		result = RevisionResult{
			SellerAccountID: sellerAccountID,
			VersionID:       newID,
			Status:          target,
			StatusChanged:   true,
			PreviousStatus:  current.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.snapshots.Invalidate(ctx, sellerAccountID)
	s.publishRevision(ctx, result, actor)
	return &result, nil
}

// SellerSnapshot is the open-version view served to callers.
type SellerSnapshot struct {
	Info    domain.SellerInfo     `json:"info"`
	History []domain.StatusChange `json:"history"`
}

// CurrentSellerInfo returns the open version for the account, with manager
// rows and the status-change history. Served from the snapshot cache when
// warm.
func (s *SellerService) CurrentSellerInfo(ctx context.Context, accountNo int64) (*SellerSnapshot, error) {
	sellerAccountID, err := s.store.SellerAccountIDByAccountNo(ctx, accountNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("seller account", map[string]any{"account_no": accountNo})
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	var snapshot SellerSnapshot
	if s.snapshots.Get(ctx, sellerAccountID, &snapshot) {
		return &snapshot, nil
	}

	info, err := s.store.CurrentInfo(ctx, sellerAccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("seller info", map[string]any{"account_no": accountNo})
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	managers, err := s.store.ManagersByInfoID(ctx, info.ID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	history, err := s.store.StatusHistory(ctx, sellerAccountID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	info.Managers = managers
	snapshot = SellerSnapshot{Info: *info, History: history}
	s.snapshots.Set(ctx, sellerAccountID, &snapshot)
	return &snapshot, nil
}

// SellerListItem extends the summary row with the transitions the legality
// table offers from its current status.
type SellerListItem struct {
	repository.SellerSummary
	AllowedTransitions []domain.SellerStatus
}

// ListSellers returns the filtered open-version listing. Master only.
func (s *SellerService) ListSellers(ctx context.Context, filter repository.SellerFilter, actor domain.Actor) ([]SellerListItem, int64, error) {
	if !actor.IsMaster() {
		return nil, 0, apperrors.NewForbidden("seller listing requires master role")
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 10
	}

	summaries, err := s.store.ListOpen(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.NewPersistenceError(err)
	}
	total, err := s.store.CountOpen(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.NewPersistenceError(err)
	}

	table := domain.DefaultTransitionTable()
	items := make([]SellerListItem, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, SellerListItem{
			SellerSummary:      summary,
			AllowedTransitions: table[summary.Status],
		})
	}
	return items, total, nil
}

func (s *SellerService) publishRevision(ctx context.Context, result RevisionResult, actor domain.Actor) {
	if s.dispatcher == nil {
		return
	}
	eventType := events.EventSellerProfileRevised
	var payload any = events.SellerProfileRevisedPayload{
		VersionID:     result.VersionID,
		StatusChanged: result.StatusChanged,
	}
	if result.StatusChanged {
		eventType = events.EventSellerStatusChanged
		payload = events.SellerStatusChangedPayload{
			OldStatus: result.PreviousStatus,
			NewStatus: result.Status,
			VersionID: result.VersionID,
		}
	}
	if err := s.dispatcher.Publish(ctx, events.Event{
		Type:            eventType,
		SellerAccountID: result.SellerAccountID,
		Actor:           events.Actor{AccountID: actor.AccountID, Role: actor.Role},
		Timestamp:       time.Now(),
		Payload:         payload,
	}); err != nil {
		s.logger.Warn("publish revision event", zap.Error(err))
	}
}

func validateProfileInput(input ProfileInput) error {
	details := map[string]any{}
	if input.NameKR == "" {
		details["name_kr"] = "required"
	}
	if input.NameEN == "" {
		details["name_en"] = "required"
	}
	if input.CenterNumber == "" {
		details["center_number"] = "required"
	}
	if input.Status != "" && !input.Status.Valid() {
		details["status"] = "unknown status"
	}
	if len(input.Managers) == 0 {
		details["managers"] = "at least one manager required"
	}
	if len(input.Managers) > domain.MaxManagers {
		details["managers"] = "at most three managers allowed"
	}
	for _, m := range input.Managers {
		if m.ContactNumber == "" {
			details["managers"] = "manager contact number required"
		}
		if m.Ranking < 0 || m.Ranking > domain.MaxManagers {
			details["managers"] = "manager ranking must be 1..3"
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid seller profile", details)
	}
	return nil
}

// mergeVersion builds version N+1: edited fields from the form, everything
// else carried over from version N, with a fresh open window.
func mergeVersion(current *domain.SellerInfo, input ProfileInput, status domain.SellerStatus, appUserID *int64, actor domain.Actor, asOf time.Time) *domain.SellerInfo {
	next := *current
	next.ID = 0
	next.Status = status
	next.NameKR = input.NameKR
	next.NameEN = input.NameEN
	next.CenterNumber = input.CenterNumber
	next.AppUserID = appUserID
	next.ModifierID = actor.AccountID
	next.Window = temporal.NewOpenWindow(asOf)
	next.Managers = nil

	if input.ProfileImageURL != nil {
		next.ProfileImageURL = input.ProfileImageURL
	}
	if input.BackgroundImageURL != nil {
		next.BackgroundImageURL = input.BackgroundImageURL
	}
	if input.CEOName != nil {
		next.CEOName = input.CEOName
	}
	if input.CompanyName != nil {
		next.CompanyName = input.CompanyName
	}
	if input.BusinessNumber != nil {
		next.BusinessNumber = input.BusinessNumber
	}
	if input.CertificateImageURL != nil {
		next.CertificateImageURL = input.CertificateImageURL
	}
	if input.OnlineBusinessNumber != nil {
		next.OnlineBusinessNumber = input.OnlineBusinessNumber
	}
	if input.OnlineBusinessImageURL != nil {
		next.OnlineBusinessImageURL = input.OnlineBusinessImageURL
	}
	if input.ShortDescription != nil {
		next.ShortDescription = input.ShortDescription
	}
	if input.LongDescription != nil {
		next.LongDescription = input.LongDescription
	}
	if input.SiteURL != nil {
		next.SiteURL = input.SiteURL
	}
	if input.KakaoID != nil {
		next.KakaoID = input.KakaoID
	}
	if input.InstaID != nil {
		next.InstaID = input.InstaID
	}
	if input.ZipCode != nil {
		next.ZipCode = input.ZipCode
	}
	if input.Address != nil {
		next.Address = input.Address
	}
	if input.DetailAddress != nil {
		next.DetailAddress = input.DetailAddress
	}
	if input.WeekdayStartTime != nil {
		next.WeekdayStartTime = input.WeekdayStartTime
	}
	if input.WeekdayEndTime != nil {
		next.WeekdayEndTime = input.WeekdayEndTime
	}
	if input.WeekendStartTime != nil {
		next.WeekendStartTime = input.WeekendStartTime
	}
	if input.WeekendEndTime != nil {
		next.WeekendEndTime = input.WeekendEndTime
	}
	if input.BankName != nil {
		next.BankName = input.BankName
	}
	if input.BankHolderName != nil {
		next.BankHolderName = input.BankHolderName
	}
	if input.BankAccountNumber != nil {
		next.BankAccountNumber = input.BankAccountNumber
	}
	return &next
}

func managersFromInput(inputs []ManagerInput) []domain.ManagerInfo {
	managers := make([]domain.ManagerInfo, 0, len(inputs))
	for i, m := range inputs {
		ranking := m.Ranking
		if ranking == 0 {
			ranking = i + 1
		}
		managers = append(managers, domain.ManagerInfo{
			Name:          m.Name,
			ContactNumber: m.ContactNumber,
			Email:         m.Email,
			Ranking:       ranking,
		})
	}
	return managers
}
