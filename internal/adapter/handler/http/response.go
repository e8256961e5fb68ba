package http

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	domainErrors "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/errors"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/middleware/auth"
	pkgErrors "github.com/jake-hone07/Real-Estate-SaaS-sub000/pkg/errors"
	"go.uber.org/zap"
)

// RequestValidator plugs go-playground/validator into echo's c.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return pkgErrors.NewAppError(pkgErrors.ErrInvalidArgument, "invalid request body", err)
	}
	return nil
}

// bindAndValidate decodes the JSON body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return pkgErrors.ToHTTPError(err)
	}
	return nil
}

// userID returns the id of the authenticated caller.
func userID(c echo.Context) (uuid.UUID, error) {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return user.UserID, nil
}

// respondError logs server side failures and converts err into the response
// the client sees. Internal details never reach the client.
func respondError(c echo.Context, logger *zap.Logger, err error, msg string) error {
	appErr := toAppError(err)
	pkgErrors.LogError(logger, appErr, msg,
		zap.String("method", c.Request().Method),
		zap.String("path", c.Request().URL.Path))
	return pkgErrors.ToHTTPError(appErr)
}

func toAppError(err error) *pkgErrors.AppError {
	var appErr *pkgErrors.AppError
	if pkgErrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case pkgErrors.Is(err, domainErrors.ErrNegativeTarget),
		pkgErrors.Is(err, domainErrors.ErrInvalidReason),
		pkgErrors.Is(err, domainErrors.ErrInvalidPlan),
		pkgErrors.Is(err, domainErrors.ErrUnknownPrice),
		pkgErrors.Is(err, domainErrors.ErrInvalidEvent):
		return pkgErrors.NewAppError(pkgErrors.ErrInvalidArgument, err.Error(), err)
	case pkgErrors.Is(err, domainErrors.ErrNoCustomerMapping):
		return pkgErrors.NewAppError(pkgErrors.ErrNotFound, "no billing account yet, start a checkout first", err)
	case domainErrors.IsTransient(err):
		return pkgErrors.NewAppError(pkgErrors.ErrUnavailable, "service temporarily unavailable", err)
	}
	return pkgErrors.NewAppError(pkgErrors.ErrInternal, "internal error", err)
}

// pagination reads limit and offset query parameters. Missing values are zero.
func pagination(c echo.Context) (limit, offset int, err error) {
	if s := c.QueryParam("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid limit parameter")
		}
	}
	if s := c.QueryParam("offset"); s != "" {
		offset, err = strconv.Atoi(s)
		if err != nil || offset < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid offset parameter")
		}
	}
	return limit, offset, nil
}
