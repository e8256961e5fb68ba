package errors

import "net/http"

// codeMapping maps application error codes to HTTP status codes.
var codeMapping = map[string]int{
	ErrInternal:        http.StatusInternalServerError,
	ErrNotFound:        http.StatusNotFound,
	ErrInvalidArgument: http.StatusBadRequest,
	ErrUnauthenticated: http.StatusUnauthorized,
	ErrUnauthorized:    http.StatusForbidden,
	ErrConflict:        http.StatusConflict,
	ErrTimeout:         http.StatusGatewayTimeout,
	ErrUnavailable:     http.StatusServiceUnavailable,
	ErrPaymentRequired: http.StatusPaymentRequired,
}

// ToHTTPStatus returns the HTTP status for an error code, 500 when unknown.
func ToHTTPStatus(code string) int {
	if status, ok := codeMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// CodeOf extracts the application code from err, ErrInternal when err carries none.
func CodeOf(err error) string {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Code()
	}
	return ErrInternal
}
