package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"medsynq/internal/middleware"
	"medsynq/internal/model"
	"medsynq/internal/store"
	"medsynq/pkg/config"
	"medsynq/pkg/logger"
	"medsynq/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Wrong password and unknown email must be indistinguishable, so account
// existence cannot be probed.
const loginFailedMessage = "Invalid email or password."

// AuthHandler serves tenant registration, login and logout.
type AuthHandler struct {
	store      *store.Store
	cookieName string
	sessionTTL time.Duration
	bcryptCost int
}

// NewAuthHandler wires the auth handler to the store and configuration.
func NewAuthHandler(st *store.Store, cfg *config.Config) *AuthHandler {
	cost := cfg.Security.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthHandler{
		store:      st,
		cookieName: cfg.Session.CookieName,
		sessionTTL: cfg.Session.TTL,
		bcryptCost: cost,
	}
}

// ShowRegisterForm renders the tenant signup form.
func (h *AuthHandler) ShowRegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register_tenant.html", registerFormData("", "", "", ""))
}

// Register creates a tenant with its admin user and logs the admin in.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	tenantName := strings.TrimSpace(c.FormValue("tenantName"))
	adminName := strings.TrimSpace(c.FormValue("adminName"))
	adminEmail := strings.TrimSpace(c.FormValue("adminEmail"))
	adminPassword := c.FormValue("adminPassword")

	if tenantName == "" || adminName == "" || adminEmail == "" || adminPassword == "" {
		prometheus.RecordAuthError("incomplete_registration")
		data := registerFormData(tenantName, adminName, adminEmail, "All fields are required.")
		return c.Render(http.StatusOK, "register_tenant.html", data)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), h.bcryptCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return err
	}

	ctx := c.Request().Context()
	tenant, admin, err := h.store.RegisterTenant(ctx, tenantName, "", adminName, adminEmail, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrDuplicateTenantName) {
			log.Info("Duplicate tenant name rejected", zap.String("tenant_name", tenantName))
			prometheus.RecordAuthError("duplicate_tenant_name")
			data := registerFormData(tenantName, adminName, adminEmail, "Organisation name already exists.")
			return c.Render(http.StatusOK, "register_tenant.html", data)
		}
		log.Error("Failed to register tenant", zap.Error(err))
		prometheus.RecordAuthError("tenant_registration_failed")
		return err
	}

	log.Info("Tenant registered",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("tenant_name", tenant.Name),
		zap.Uint("admin_id", admin.ID))

	return h.establishSession(c, admin, tenant)
}

// ShowLoginForm renders the login form. An explicit tenant parameter on the
// anonymous request prefills the organisation field.
func (h *AuthHandler) ShowLoginForm(c echo.Context) error {
	tenantName := ""
	if tenant, ok := middleware.CurrentTenant(c); ok {
		tenantName = tenant.Name
	}
	return c.Render(http.StatusOK, "login.html", loginFormData(tenantName, "", ""))
}

// Login authenticates a user within their tenant and establishes a session.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	tenantName := strings.TrimSpace(c.FormValue("tenantName"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	if tenantName == "" || email == "" || password == "" {
		prometheus.RecordAuthError("incomplete_login")
		return c.Render(http.StatusOK, "login.html", loginFormData(tenantName, email, "All fields are required."))
	}

	ctx := c.Request().Context()
	tenant, err := h.store.FindTenantByName(ctx, tenantName)
	if err != nil {
		log.Error("Failed to look up tenant", zap.Error(err))
		prometheus.RecordAuthError("db_error")
		return err
	}
	if tenant == nil {
		prometheus.RecordAuthError("tenant_not_found")
		return c.Render(http.StatusOK, "login.html", loginFormData(tenantName, email, "Organisation not found."))
	}

	user, err := h.store.FindUserByTenantAndEmail(ctx, tenant.ID, email)
	if err != nil {
		log.Error("Failed to look up user", zap.Error(err))
		prometheus.RecordAuthError("db_error")
		return err
	}
	if user == nil {
		prometheus.RecordAuthError("invalid_credentials")
		return c.Render(http.StatusOK, "login.html", loginFormData(tenantName, email, loginFailedMessage))
	}

	// bcrypt's comparison is constant-time
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		prometheus.RecordAuthError("invalid_credentials")
		return c.Render(http.StatusOK, "login.html", loginFormData(tenantName, email, loginFailedMessage))
	}

	log.Info("User logged in",
		zap.Uint("user_id", user.ID),
		zap.Uint("tenant_id", tenant.ID),
		zap.String("tenant_name", tenant.Name))

	return h.establishSession(c, user, tenant)
}

// Logout destroys the session unconditionally and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	log := logger.FromEcho(c)

	if cookie, err := c.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if err := h.store.DeleteSession(c.Request().Context(), cookie.Value); err != nil {
			// The cookie is cleared regardless; the stale row expires on its own
			log.Error("Failed to delete session", zap.Error(err))
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) establishSession(c echo.Context, user *model.User, tenant *model.Tenant) error {
	session, err := h.store.CreateSession(c.Request().Context(), user, tenant, h.sessionTTL)
	if err != nil {
		logger.FromEcho(c).Error("Failed to create session", zap.Error(err))
		prometheus.RecordAuthError("session_creation_failed")
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, "/dashboard")
}

func registerFormData(tenantName, adminName, adminEmail, errMsg string) echo.Map {
	return echo.Map{
		"TenantName": tenantName,
		"AdminName":  adminName,
		"AdminEmail": adminEmail,
		"Error":      errMsg,
	}
}

func loginFormData(tenantName, email, errMsg string) echo.Map {
	return echo.Map{
		"TenantName": tenantName,
		"Email":      email,
		"Error":      errMsg,
	}
}
