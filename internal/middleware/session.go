package middleware

import (
	"net/http"

	"medsynq/internal/model"
	"medsynq/internal/store"
	"medsynq/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionKey is the echo context key under which the current session is
// stored. Absent or expired sessions leave the key unset.
const SessionKey = "session"

// LoadSession resolves the browser's session cookie into a session record.
// It never fails the request: anonymous browsing is always allowed and the
// auth gate is applied separately by RequireSession.
func LoadSession(st *store.Store, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			session, err := st.GetSession(c.Request().Context(), cookie.Value)
			if err != nil {
				// Storage trouble downgrades to anonymous rather than a hard failure
				logger.FromEcho(c).Error("Failed to load session", zap.Error(err))
				return next(c)
			}
			if session != nil {
				c.Set(SessionKey, session)
			}
			return next(c)
		}
	}
}

// RequireSession redirects unauthenticated requests to the login page.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentSession(c) == nil {
			return c.Redirect(http.StatusFound, "/login")
		}
		return next(c)
	}
}

// CurrentSession returns the authenticated session for this request, or nil.
func CurrentSession(c echo.Context) *model.Session {
	session, ok := c.Get(SessionKey).(*model.Session)
	if !ok {
		return nil
	}
	return session
}
