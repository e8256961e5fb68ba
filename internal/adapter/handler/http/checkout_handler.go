package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/catalog"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/middleware/auth"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/usecase"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	logger   *zap.Logger
	checkout *usecase.CheckoutService
}

func NewCheckoutHandler(logger *zap.Logger, checkout *usecase.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		logger:   logger,
		checkout: checkout,
	}
}

type CheckoutRequest struct {
	PriceID string `json:"price_id" validate:"required,max=255"`
}

// CreateCheckout handles POST /api/v1/checkout
func (h *CheckoutHandler) CreateCheckout(c echo.Context) error {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.checkout.StartCheckout(c.Request().Context(), user.UserID, user.Email, req.PriceID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to start checkout")
	}

	return c.JSON(http.StatusOK, session)
}

// CreatePortal handles POST /api/v1/portal
func (h *CheckoutHandler) CreatePortal(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	url, err := h.checkout.OpenPortal(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to open billing portal")
	}

	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

// GetPlans handles GET /api/v1/plans. ?kind=credits|plan filters the list.
func (h *CheckoutHandler) GetPlans(c echo.Context) error {
	kind := catalog.PriceKind(c.QueryParam("kind"))
	switch kind {
	case "", catalog.PriceKindCredits, catalog.PriceKindPlan:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid kind parameter")
	}

	prices := h.checkout.Plans()
	filtered := make([]catalog.Price, 0, len(prices))
	for _, p := range prices {
		if kind == "" || p.Kind == kind {
			filtered = append(filtered, p)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"prices": filtered})
}
