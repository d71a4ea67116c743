package middleware

import (
	"medsynq/internal/model"

	"github.com/labstack/echo/v4"
)

// TenantKey is the echo context key holding the tenant resolved for this
// request.
const TenantKey = "tenant"

// ResolvedTenant identifies the tenant a request acts on. ID is zero when the
// tenant came from an explicit request parameter and has not been looked up.
type ResolvedTenant struct {
	ID   uint
	Name string
}

// ResolveTenant picks the acting tenant for a request: an explicit request
// parameter wins, then the session's bound tenant, otherwise absent.
func ResolveTenant(session *model.Session, requestParam string) (ResolvedTenant, bool) {
	if requestParam != "" {
		return ResolvedTenant{Name: requestParam}, true
	}
	if session != nil {
		return ResolvedTenant{ID: session.TenantID, Name: session.TenantName}, true
	}
	return ResolvedTenant{}, false
}

// TenantContext resolves the acting tenant once per request, before any
// tenant-scoped handler work, and stores it in the context.
func TenantContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenant, ok := ResolveTenant(CurrentSession(c), c.QueryParam("tenant"))
		if ok {
			c.Set(TenantKey, tenant)
		}
		return next(c)
	}
}

// CurrentTenant returns the tenant resolved for this request.
func CurrentTenant(c echo.Context) (ResolvedTenant, bool) {
	tenant, ok := c.Get(TenantKey).(ResolvedTenant)
	return tenant, ok
}
