package server

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/benedikt-weyer/streamline-scheduler/internal/domain"
	apperrors "github.com/benedikt-weyer/streamline-scheduler/internal/errors"
)

// connectionIDHeader carries the originating websocket connection ID on
// mutation requests so that the change event skips the sending device.
const connectionIDHeader = "X-Connection-Id"

// requireAuth resolves the bearer token and stores the user in the request
// context. Handlers behind it can call currentUser without nil checks.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return apperrors.UnauthorizedError("missing bearer token")
		}

		user, err := s.deps.Auth.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return apperrors.UnauthorizedError("invalid or expired token")
		}

		c.Set(domain.ContextKeyUser, user)
		return next(c)
	}
}

func currentUser(c echo.Context) *domain.User {
	user, _ := c.Get(domain.ContextKeyUser).(*domain.User)
	return user
}

// originConnectionID parses the connection ID header on mutation requests.
// Absent or malformed values mean no exclusion; a device that sends garbage
// just receives its own echo.
func originConnectionID(c echo.Context) *uuid.UUID {
	raw := c.Request().Header.Get(connectionIDHeader)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// authRateLimiter throttles credential endpoints per client IP.
func authRateLimiter() echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(5),
			Burst:     10,
			ExpiresIn: 3 * time.Minute,
		}),
	})
}
