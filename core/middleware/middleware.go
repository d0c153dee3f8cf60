package middleware

import (
	"strings"

	"quickpoll/core/controller"
	"quickpoll/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	ContextUserIDKey = "user_id"
	ContextEmailKey  = "user_email"
)

// Middleware bundles the request middlewares that need configuration.
type Middleware struct {
	jwtSecret []byte
	base      controller.BaseController
}

func NewMiddleware(jwtSecret string) *Middleware {
	return &Middleware{
		jwtSecret: []byte(jwtSecret),
		base:      controller.NewBaseController(),
	}
}

// AuthMiddleware validates the bearer token and injects user_id/user_email
// into the echo context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return m.base.Unauthorized(errors.ErrMissingAuthorizationHeader, "Missing Authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return m.base.Unauthorized(errors.ErrInvalidTokenFormat, "Invalid Authorization header format")
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return m.jwtSecret, nil
			})
			if err != nil || !token.Valid {
				return m.base.Unauthorized(errors.ErrTokenExpired, "Invalid or expired token")
			}

			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				return m.base.Unauthorized(errors.ErrInvalidTokenFormat, "Token missing subject")
			}
			userID, err := uuid.Parse(sub)
			if err != nil {
				return m.base.Unauthorized(errors.ErrInvalidTokenFormat, "Token subject is not a valid user id")
			}

			c.Set(ContextUserIDKey, userID)
			if email, ok := claims["email"].(string); ok {
				c.Set(ContextEmailKey, email)
			}
			return next(c)
		}
	}
}

// OptionalAuthMiddleware injects user_id/user_email when a valid bearer token
// is present and passes the request through untouched otherwise. Public poll
// routes use it so hosts viewing their own polls are recognized.
func (m *Middleware) OptionalAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return next(c)
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return m.jwtSecret, nil
			})
			if err != nil || !token.Valid {
				return next(c)
			}

			if sub, err := claims.GetSubject(); err == nil {
				if userID, err := uuid.Parse(sub); err == nil {
					c.Set(ContextUserIDKey, userID)
				}
			}
			if email, ok := claims["email"].(string); ok {
				c.Set(ContextEmailKey, email)
			}
			return next(c)
		}
	}
}

// UserID extracts the authenticated user id set by AuthMiddleware.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextUserIDKey).(uuid.UUID)
	return id, ok
}

// UserEmail extracts the authenticated user email, when present in the token.
func UserEmail(c echo.Context) string {
	email, _ := c.Get(ContextEmailKey).(string)
	return email
}
