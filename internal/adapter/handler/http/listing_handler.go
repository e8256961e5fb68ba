package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/usecase"
	"go.uber.org/zap"
)

type ListingHandler struct {
	logger   *zap.Logger
	listings *usecase.ListingService
}

func NewListingHandler(logger *zap.Logger, listings *usecase.ListingService) *ListingHandler {
	return &ListingHandler{
		logger:   logger,
		listings: listings,
	}
}

// CreateListing handles POST /api/v1/listings
func (h *ListingHandler) CreateListing(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var input usecase.ListingInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	listing, err := h.listings.Generate(c.Request().Context(), uid, input)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to generate listing")
	}

	return c.JSON(http.StatusCreated, listing)
}

// GetListings handles GET /api/v1/listings
func (h *ListingHandler) GetListings(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	listings, err := h.listings.List(c.Request().Context(), uid, limit, offset)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list listings")
	}

	return c.JSON(http.StatusOK, echo.Map{"listings": listings})
}
