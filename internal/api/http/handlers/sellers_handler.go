package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/seller-admin-service/internal/api/dto"
	"github.com/spec-kit/seller-admin-service/internal/auth"
	"github.com/spec-kit/seller-admin-service/internal/domain"
	"github.com/spec-kit/seller-admin-service/internal/repository"
	"github.com/spec-kit/seller-admin-service/internal/service"
	apperrors "github.com/spec-kit/seller-admin-service/pkg/util/errorutil"
)

// SellersHandler exposes the seller profile and status endpoints.
type SellersHandler struct {
	sellers *service.SellerService
}

// NewSellersHandler constructs handler.
func NewSellersHandler(sellers *service.SellerService) *SellersHandler {
	return &SellersHandler{sellers: sellers}
}

// GetCurrent handles GET /sellers/:accountNo.
func (h *SellersHandler) GetCurrent(c *fiber.Ctx) error {
	accountNo, err := pathID(c, "accountNo")
	if err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	// Sellers may only read their own profile.
	if principal.Account.Role != domain.RoleMaster && principal.Account.ID != accountNo {
		return apperrors.NewForbidden("cannot read another seller's profile")
	}

	snapshot, err := h.sellers.CurrentSellerInfo(c.Context(), accountNo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromSnapshot(snapshot)})
}

// Revise handles PUT /sellers/:accountNo.
func (h *SellersHandler) Revise(c *fiber.Ctx) error {
	accountNo, err := pathID(c, "accountNo")
	if err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.Account.Role != domain.RoleMaster && principal.Account.ID != accountNo {
		return apperrors.NewForbidden("cannot edit another seller's profile")
	}

	var req dto.ReviseProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.sellers.ReviseProfile(c.Context(), accountNo, req.ToInput(), principal.Actor())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": revisionResponse(result)})
}

// ChangeStatus handles PATCH /sellers/:sellerAccountID/status. Master only.
func (h *SellersHandler) ChangeStatus(c *fiber.Ctx) error {
	sellerAccountID, err := pathID(c, "sellerAccountID")
	if err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.sellers.ChangeStatus(c.Context(), sellerAccountID, req.Status, principal.Actor())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": revisionResponse(result)})
}

// List handles GET /sellers. Master only; filters come from the query string.
func (h *SellersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter, err := listFilterFromQuery(c)
	if err != nil {
		return err
	}

	items, total, err := h.sellers.ListSellers(c.Context(), filter, principal.Actor())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromListItems(items, total)})
}

func revisionResponse(result *service.RevisionResult) dto.RevisionResponse {
	return dto.RevisionResponse{
		SellerAccountID: result.SellerAccountID,
		VersionID:       result.VersionID,
		Status:          result.Status,
		StatusChanged:   result.StatusChanged,
	}
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func listFilterFromQuery(c *fiber.Ctx) (repository.SellerFilter, error) {
	filter := repository.SellerFilter{
		Limit:  c.QueryInt("limit", 10),
		Offset: c.QueryInt("offset", 0),
	}
	if v := c.Query("status"); v != "" {
		status := domain.SellerStatus(v)
		if !status.Valid() {
			return filter, apperrors.NewValidationError("unknown seller status", map[string]any{"status": v})
		}
		filter.Status = &status
	}
	if v := c.Query("name_kr"); v != "" {
		filter.NameKR = &v
	}
	if v := c.Query("name_en"); v != "" {
		filter.NameEN = &v
	}
	if v := c.Query("login_id"); v != "" {
		filter.LoginID = &v
	}
	if v := c.Query("created_from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid created_from", map[string]any{"created_from": v})
		}
		filter.CreatedFrom = &from
	}
	if v := c.Query("created_to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid created_to", map[string]any{"created_to": v})
		}
		// Inclusive date filter: anything before the next midnight counts.
		before := to.Add(24 * time.Hour)
		filter.CreatedBefore = &before
	}
	return filter, nil
}
