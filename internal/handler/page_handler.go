package handler

import (
	"net/http"

	"medsynq/internal/middleware"

	"github.com/labstack/echo/v4"
)

// Home renders the landing page, or sends authenticated browsers straight to
// their dashboard.
func Home(c echo.Context) error {
	if session := middleware.CurrentSession(c); session != nil {
		return c.Redirect(http.StatusFound, "/dashboard")
	}
	return c.Render(http.StatusOK, "index.html", echo.Map{"User": nil})
}
