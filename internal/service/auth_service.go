package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/seller-admin-service/internal/auth"
	"github.com/spec-kit/seller-admin-service/internal/config"
	"github.com/spec-kit/seller-admin-service/internal/domain"
	"github.com/spec-kit/seller-admin-service/internal/events"
	"github.com/spec-kit/seller-admin-service/internal/repository"
	"github.com/spec-kit/seller-admin-service/internal/temporal"
	apperrors "github.com/spec-kit/seller-admin-service/pkg/util/errorutil"
)

// AuthService coordinates seller signup, login and credential changes.
type AuthService struct {
	accounts   repository.AccountRepository
	store      repository.SellerStore
	tokenMgr   *auth.TokenManager
	bcryptCost int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	SellerStore repository.SellerStore
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:   deps.AccountRepo,
		store:      deps.SellerStore,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// SignupInput is the seller registration form.
type SignupInput struct {
	LoginID       string
	Password      string
	NameKR        string
	NameEN        string
	CenterNumber  string
	ContactNumber string
	SiteURL       *string
	KakaoID       *string
	InstaID       *string
}

// RegisterSeller creates the account, the seller aggregate, version one of the
// seller info (status PENDING, open window), the first manager row and the
// initial audit entry, all in one transaction.
func (s *AuthService) RegisterSeller(ctx context.Context, input SignupInput) (*domain.Account, string, time.Time, error) {
	if err := s.validateSignup(ctx, input); err != nil {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	account := &domain.Account{
		LoginID:      input.LoginID,
		PasswordHash: hash,
		Role:         domain.RoleSeller,
	}
	var sellerAccountID int64
	err = s.store.WithTx(ctx, func(tx repository.SellerTx) error {
		if err := tx.InsertAccount(ctx, account); err != nil {
			return apperrors.NewPersistenceError(err)
		}
		id, err := tx.InsertSellerAccount(ctx, account.ID)
		if err != nil {
			return apperrors.NewPersistenceError(err)
		}
		sellerAccountID = id

		asOf, err := tx.Now(ctx)
		if err != nil {
			return err
		}

		info := &domain.SellerInfo{
			SellerAccountID: sellerAccountID,
			Status:          domain.StatusPending,
			NameKR:          input.NameKR,
			NameEN:          input.NameEN,
			CenterNumber:    input.CenterNumber,
			SiteURL:         input.SiteURL,
			KakaoID:         input.KakaoID,
			InstaID:         input.InstaID,
			ModifierID:      account.ID,
			Window:          temporal.NewOpenWindow(asOf),
		}
		if err := tx.InsertInfoVersion(ctx, info); err != nil {
			return apperrors.NewPersistenceError(err)
		}
		if err := tx.InsertManagers(ctx, info.ID, []domain.ManagerInfo{
			{ContactNumber: input.ContactNumber, Ranking: 1},
		}); err != nil {
			return apperrors.NewPersistenceError(err)
		}
		return tx.AppendStatusChange(ctx, &domain.StatusChange{
			SellerAccountID: sellerAccountID,
			Status:          domain.StatusPending,
			ChangedAt:       asOf,
			ModifierID:      account.ID,
		})
	})
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:            events.EventSellerRegistered,
			SellerAccountID: sellerAccountID,
			Actor:           events.Actor{AccountID: account.ID, Role: account.Role},
			Timestamp:       time.Now(),
			Payload: events.SellerRegisteredPayload{
				AccountNo: account.ID,
				LoginID:   account.LoginID,
				NameKR:    input.NameKR,
			},
		})
	}
	return account, token, exp, nil
}

// Login authenticates an account by login id.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (*domain.Account, string, time.Time, error) {
	account, err := s.accounts.GetByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.NewPersistenceError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return account, token, exp, nil
}

// ChangePassword verifies the current credential and mutates it in place;
// credentials are not versioned.
func (s *AuthService) ChangePassword(ctx context.Context, accountID int64, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("new password too short", map[string]any{"min_length": 8})
	}
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("account", map[string]any{"account_no": accountID})
		}
		return apperrors.NewPersistenceError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError("current password does not match", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.accounts.UpdatePassword(ctx, accountID, hash); err != nil {
		return apperrors.NewPersistenceError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventAccountPasswordChange,
			Actor:     events.Actor{AccountID: accountID, Role: account.Role},
			Timestamp: time.Now(),
		})
	}
	return nil
}

func (s *AuthService) validateSignup(ctx context.Context, input SignupInput) error {
	details := map[string]any{}
	if input.LoginID == "" {
		details["login_id"] = "required"
	}
	if len(input.Password) < 8 {
		details["password"] = "at least 8 characters"
	}
	if input.NameKR == "" {
		details["name_kr"] = "required"
	}
	if input.NameEN == "" {
		details["name_en"] = "required"
	}
	if input.CenterNumber == "" {
		details["center_number"] = "required"
	}
	if input.ContactNumber == "" {
		details["contact_number"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid signup payload", details)
	}

	if taken, err := s.accounts.LoginIDTaken(ctx, input.LoginID); err != nil {
		return apperrors.NewPersistenceError(err)
	} else if taken {
		return apperrors.NewValidationError("login id already in use", map[string]any{"login_id": input.LoginID})
	}
	if taken, err := s.store.NameKRTaken(ctx, input.NameKR); err != nil {
		return apperrors.NewPersistenceError(err)
	} else if taken {
		return apperrors.NewValidationError("korean seller name already in use", map[string]any{"name_kr": input.NameKR})
	}
	if taken, err := s.store.NameENTaken(ctx, input.NameEN); err != nil {
		return apperrors.NewPersistenceError(err)
	} else if taken {
		return apperrors.NewValidationError("english seller name already in use", map[string]any{"name_en": input.NameEN})
	}
	return nil
}
