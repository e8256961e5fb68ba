package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/usecase"
	"go.uber.org/zap"
)

// CreditHandler handles credit-related HTTP requests
type CreditHandler struct {
	logger    *zap.Logger
	projector *usecase.BalanceProjector
}

// NewCreditHandler creates a new credit handler instance
func NewCreditHandler(logger *zap.Logger, projector *usecase.BalanceProjector) *CreditHandler {
	return &CreditHandler{
		logger:    logger,
		projector: projector,
	}
}

// GetBalance handles GET /api/v1/credits
func (h *CreditHandler) GetBalance(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	balance, err := h.projector.BalanceOf(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get credit balance")
	}

	return c.JSON(http.StatusOK, echo.Map{"balance": balance})
}

// GetTransactions handles GET /api/v1/credits/transactions
func (h *CreditHandler) GetTransactions(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	page, err := h.projector.History(c.Request().Context(), uid, limit, offset)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get transaction history")
	}

	return c.JSON(http.StatusOK, page)
}

// GetProfile handles GET /api/v1/profile
func (h *CreditHandler) GetProfile(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	profile, err := h.projector.Profile(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get profile")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user_id":         profile.UserID,
		"plan_tier":       profile.PlanTier,
		"plan_status":     profile.PlanStatus,
		"unlimited":       profile.Unlimited(),
		"billing_account": profile.CustomerRef != nil,
	})
}

// GetPayments handles GET /api/v1/payments
func (h *CreditHandler) GetPayments(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	payments, err := h.projector.Payments(c.Request().Context(), uid, limit, offset)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list payments")
	}

	return c.JSON(http.StatusOK, echo.Map{"payments": payments})
}
