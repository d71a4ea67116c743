package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"medsynq/internal/model"

	"github.com/stretchr/testify/require"
)

func TestDashboardRequiresSession(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/dashboard", "/patients/new"} {
		rec := app.get(path, nil)
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	}

	rec := app.postForm("/patients/new", url.Values{"name": {"Jane Doe"}}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestCreatePatientAndListOnDashboard(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "Acme", "Ada", "ada@acme.test", "pw1")

	rec := app.postForm("/patients/new", url.Values{
		"name":          {"Jane Doe"},
		"date_of_birth": {"1990-01-01"},
	}, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = app.get("/dashboard", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Jane Doe")
	require.Contains(t, rec.Body.String(), "1990-01-01")

	var count int64
	require.NoError(t, app.store.DB().Model(&model.Patient{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreatePatientEmptyNameRejectedBeforeWrite(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "Acme", "Ada", "ada@acme.test", "pw1")

	rec := app.postForm("/patients/new", url.Values{
		"name":          {"   "},
		"date_of_birth": {"1990-01-01"},
		"notes":         {"checkup"},
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Name is required.")
	// The rest of the form is echoed back
	require.Contains(t, rec.Body.String(), "1990-01-01")
	require.Contains(t, rec.Body.String(), "checkup")

	var count int64
	require.NoError(t, app.store.DB().Model(&model.Patient{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPatientsNeverLeakAcrossTenants(t *testing.T) {
	app := newTestApp(t)

	acmeCookie := app.register(t, "Acme", "Ada", "ada@acme.test", "pw1")
	globexCookie := app.register(t, "Globex", "Hank", "hank@globex.test", "pw2")

	rec := app.postForm("/patients/new", url.Values{
		"name": {"Jane Doe"},
	}, acmeCookie)
	require.Equal(t, http.StatusFound, rec.Code)

	// The other tenant's dashboard never shows the patient
	rec = app.get("/dashboard", globexCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "Jane Doe")

	rec = app.get("/dashboard", acmeCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Jane Doe")
}

func TestDashboardEmptyState(t *testing.T) {
	app := newTestApp(t)
	cookie := app.register(t, "Acme", "Ada", "ada@acme.test", "pw1")

	rec := app.get("/dashboard", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "No patients yet.")
}
