package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/seller-admin-service/internal/api/dto"
	"github.com/spec-kit/seller-admin-service/internal/auth"
	"github.com/spec-kit/seller-admin-service/internal/service"
	apperrors "github.com/spec-kit/seller-admin-service/pkg/util/errorutil"
)

// AccountsHandler exposes signup/login/credential endpoints.
type AccountsHandler struct {
	auth *service.AuthService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService) *AccountsHandler {
	return &AccountsHandler{auth: authService}
}

// Signup handles POST /auth/signup.
func (h *AccountsHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	account, token, exp, err := h.auth.RegisterSeller(c.Context(), service.SignupInput{
		LoginID:       req.LoginID,
		Password:      req.Password,
		NameKR:        req.NameKR,
		NameEN:        req.NameEN,
		CenterNumber:  req.CenterNumber,
		ContactNumber: req.ContactNumber,
		SiteURL:       req.SiteURL,
		KakaoID:       req.KakaoID,
		InstaID:       req.InstaID,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"account": fiber.Map{
				"account_no": account.ID,
				"login_id":   account.LoginID,
				"role":       account.Role,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.LoginID == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "login_id and password required")
	}

	account, token, exp, err := h.auth.Login(c.Context(), req.LoginID, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"account": fiber.Map{
				"account_no": account.ID,
				"login_id":   account.LoginID,
				"role":       account.Role,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// ChangePassword handles POST /auth/password/change.
func (h *AccountsHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.auth.ChangePassword(c.Context(), principal.Account.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "SUCCESS"}})
}
