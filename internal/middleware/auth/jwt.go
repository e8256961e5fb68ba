package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthUser represents an authenticated user from JWT
type AuthUser struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

// contextKey is used for storing user in context
type contextKey string

const (
	userContextKey contextKey = "authenticated_user"
)

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret    string
	Logger    *zap.Logger
	SkipPaths []string // Paths to skip JWT validation
}

// JWTMiddleware validates HMAC-signed bearer tokens issued by the auth provider.
// The subject claim carries the user id.
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, skipPath := range config.SkipPaths {
				if strings.HasPrefix(path, skipPath) {
					return next(c)
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				config.Logger.Warn("Missing authorization header",
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return reject(c, http.StatusUnauthorized, "MISSING_AUTH_HEADER", "Authorization header required")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				config.Logger.Warn("Invalid authorization header format",
					zap.String("path", path))
				return reject(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Invalid authorization header format. Expected: Bearer <token>")
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(config.Secret), nil
			})
			if err != nil || !token.Valid {
				config.Logger.Warn("JWT validation failed",
					zap.Error(err),
					zap.String("path", path))
				return reject(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			}

			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				config.Logger.Warn("Token without subject", zap.String("path", path))
				return reject(c, http.StatusUnauthorized, "INVALID_CLAIMS", "Invalid token claims")
			}
			userID, err := uuid.Parse(subject)
			if err != nil {
				config.Logger.Warn("Invalid user id in token",
					zap.String("sub", subject),
					zap.String("path", path),
					zap.Error(err))
				return reject(c, http.StatusUnauthorized, "INVALID_CLAIMS", "Invalid token claims")
			}

			email, _ := claims["email"].(string)
			role, _ := claims["role"].(string)

			authUser := &AuthUser{
				UserID: userID,
				Email:  email,
				Role:   role,
			}

			ctx := WithUser(c.Request().Context(), authUser)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("user_id", userID.String())

			config.Logger.Debug("User authenticated successfully",
				zap.String("user_id", userID.String()),
				zap.String("path", path))

			return next(c)
		}
	}
}

// RequireRole rejects authenticated users whose role claim differs from role.
func RequireRole(role string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := GetUserFromContext(c)
			if err != nil {
				return reject(c, http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required")
			}
			if user.Role != role {
				logger.Warn("Role check failed",
					zap.String("user_id", user.UserID.String()),
					zap.String("required_role", role),
					zap.String("path", c.Request().URL.Path))
				return reject(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
			}
			return next(c)
		}
	}
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(c echo.Context) (*AuthUser, error) {
	user, ok := c.Request().Context().Value(userContextKey).(*AuthUser)
	if !ok || user == nil {
		return nil, fmt.Errorf("no authenticated user found in context")
	}
	return user, nil
}

// WithUser returns ctx carrying user, as the middleware stores it.
func WithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// reject answers with the auth error body clients match on.
func reject(c echo.Context, status int, code, message string) error {
	return c.JSON(status, echo.Map{"error": message, "code": code})
}
