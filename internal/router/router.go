package router

import (
	"errors"
	"net/http"

	"medsynq/internal/handler"
	"medsynq/internal/middleware"
	"medsynq/internal/store"
	"medsynq/pkg/config"
	"medsynq/pkg/logger"
	"medsynq/pkg/render"
	"medsynq/prometheus"
	"medsynq/web"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// New assembles the Echo engine: renderer, middleware chain and the full
// route table.
func New(cfg *config.Config, st *store.Store) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.HTTPErrorHandler = errorHandler

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(logger.GetLogger()))
	e.Use(prometheus.MetricsMiddleware())
	e.Use(middleware.LoadSession(st, cfg.Session.CookieName))
	e.Use(middleware.TenantContext)

	// Operational endpoints
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Static assets
	e.StaticFS("/public", echo.MustSubFS(web.Public, "public"))

	authHandler := handler.NewAuthHandler(st, cfg)
	patientHandler := handler.NewPatientHandler(st)

	// Public pages
	e.GET("/", handler.Home)
	e.GET("/register-tenant", authHandler.ShowRegisterForm)
	e.POST("/register-tenant", authHandler.Register)
	e.GET("/login", authHandler.ShowLoginForm)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)

	// Pages that require an authenticated session
	protected := e.Group("", middleware.RequireSession)
	protected.GET("/dashboard", patientHandler.Dashboard)
	protected.GET("/patients/new", patientHandler.ShowPatientForm)
	protected.POST("/patients/new", patientHandler.CreatePatient)

	return e, nil
}

// errorHandler converts any unhandled failure into a generic error page.
// Internal details never reach the client.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
	}

	title := "Something went wrong"
	message := "An unexpected error occurred. Please try again later."
	if code == http.StatusNotFound {
		title = "Page not found"
		message = "The page you requested does not exist."
	}

	if code >= http.StatusInternalServerError {
		logger.FromEcho(c).Error("Request failed",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err))
	}

	if renderErr := c.Render(code, "error.html", echo.Map{
		"Title":   title,
		"Message": message,
	}); renderErr != nil {
		_ = c.NoContent(code)
	}
}
