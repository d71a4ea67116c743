package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"medsynq/internal/router"
	"medsynq/internal/store"
	"medsynq/pkg/config"
	"medsynq/pkg/database"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testCookieName = "medsynq_session"

type testApp struct {
	echo  *echo.Echo
	store *store.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	st := store.New(db)
	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test"},
		Session: config.SessionConfig{
			CookieName: testCookieName,
			TTL:        time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}

	e, err := router.New(cfg, st)
	require.NoError(t, err)

	return &testApp{echo: e, store: st}
}

// get performs a GET request, optionally with a session cookie.
func (a *testApp) get(path string, sessionCookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sessionCookie != nil {
		req.AddCookie(sessionCookie)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

// postForm performs a form POST, optionally with a session cookie.
func (a *testApp) postForm(path string, form url.Values, sessionCookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if sessionCookie != nil {
		req.AddCookie(sessionCookie)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

// register signs up a tenant with its admin and returns the session cookie.
func (a *testApp) register(t *testing.T, tenantName, adminName, adminEmail, password string) *http.Cookie {
	t.Helper()

	rec := a.postForm("/register-tenant", url.Values{
		"tenantName":    {tenantName},
		"adminName":     {adminName},
		"adminEmail":    {adminEmail},
		"adminPassword": {password},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	return cookie
}

// sessionCookie extracts the session cookie from a response, if set.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == testCookieName && cookie.Value != "" {
			return cookie
		}
	}
	return nil
}
