package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/entity"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/middleware/auth"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/usecase"
	"go.uber.org/zap"
)

// AdminHandler serves operator corrections. Routes are mounted behind the admin role check.
type AdminHandler struct {
	logger    *zap.Logger
	projector *usecase.BalanceProjector
	engine    *usecase.ReconciliationEngine
}

func NewAdminHandler(logger *zap.Logger, projector *usecase.BalanceProjector, engine *usecase.ReconciliationEngine) *AdminHandler {
	return &AdminHandler{
		logger:    logger,
		projector: projector,
		engine:    engine,
	}
}

type SetBalanceRequest struct {
	Target int64              `json:"target" validate:"gte=0"`
	Reason model.LedgerReason `json:"reason" validate:"omitempty,oneof=correction admin_adjustment"`
}

type OverridePlanRequest struct {
	Tier   entity.PlanTier   `json:"tier" validate:"required,oneof=free starter premium"`
	Status entity.PlanStatus `json:"status" validate:"required,oneof=none active past_due canceled"`
}

// SetBalance handles PUT /api/v1/admin/users/:userID/balance
func (h *AdminHandler) SetBalance(c echo.Context) error {
	target, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req SetBalanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Reason == "" {
		req.Reason = model.LedgerReasonAdminAdjustment
	}

	entry, err := h.projector.SetBalanceTo(c.Request().Context(), target, req.Target, req.Reason)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to set balance")
	}

	h.logger.Info("Balance set by operator",
		zap.String("operator", operatorID(c)),
		zap.String("user_id", target.String()),
		zap.Int64("target", req.Target),
		zap.Bool("changed", entry != nil))

	return c.JSON(http.StatusOK, echo.Map{
		"balance": req.Target,
		"entry":   entry,
	})
}

// OverridePlan handles PUT /api/v1/admin/users/:userID/plan
func (h *AdminHandler) OverridePlan(c echo.Context) error {
	target, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req OverridePlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.projector.OverridePlan(c.Request().Context(), target, req.Tier, req.Status)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to override plan")
	}

	h.logger.Info("Plan overridden by operator",
		zap.String("operator", operatorID(c)),
		zap.String("user_id", target.String()),
		zap.String("tier", string(req.Tier)),
		zap.String("status", string(req.Status)))

	return c.JSON(http.StatusOK, profile)
}

// GetEvent handles GET /api/v1/admin/events/:eventID
func (h *AdminHandler) GetEvent(c echo.Context) error {
	record, err := h.engine.Lookup(c.Request().Context(), c.Param("eventID"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to look up event")
	}
	if record == nil {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}
	return c.JSON(http.StatusOK, record)
}

func operatorID(c echo.Context) string {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return ""
	}
	return user.UserID.String()
}
