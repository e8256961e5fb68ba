package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GenericMessage is shown to end users instead of internal error details.
const GenericMessage = "Something went wrong, please try again"

// ToHTTPError converts err to an echo HTTP error. Client errors keep their
// message; server side failures are replaced by GenericMessage.
func ToHTTPError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		status := ToHTTPStatus(appErr.Code())
		if status >= http.StatusInternalServerError {
			return echo.NewHTTPError(status, GenericMessage)
		}
		return echo.NewHTTPError(status, appErr.Message())
	}

	var echoErr *echo.HTTPError
	if As(err, &echoErr) {
		return echoErr
	}

	return echo.NewHTTPError(http.StatusInternalServerError, GenericMessage)
}
