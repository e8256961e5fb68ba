package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// LogError records err with its code and mapped HTTP status. Failures the
// caller can fix are logged at warn, everything else at error.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if err == nil {
		return
	}

	code := CodeOf(err)
	status := ToHTTPStatus(code)
	fields = append([]zap.Field{
		zap.Error(err),
		zap.String("error_code", code),
		zap.Int("http_status", status),
	}, fields...)

	if status < http.StatusInternalServerError {
		logger.Warn(msg, fields...)
		return
	}
	logger.Error(msg, fields...)
}
