package handler

import (
	"net/http"
	"strings"

	"medsynq/internal/middleware"
	"medsynq/internal/store"
	"medsynq/pkg/logger"
	"medsynq/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PatientHandler serves the dashboard listing and the new-patient flow.
// Every store call is scoped by the session's tenant id.
type PatientHandler struct {
	store *store.Store
}

// NewPatientHandler wires the patient handler to the store.
func NewPatientHandler(st *store.Store) *PatientHandler {
	return &PatientHandler{store: st}
}

// Dashboard lists the patients owned by the session's tenant.
func (h *PatientHandler) Dashboard(c echo.Context) error {
	session := middleware.CurrentSession(c)
	prometheus.RecordPatientOperation("list")

	patients := h.store.ListPatientsByTenant(c.Request().Context(), session.TenantID)
	return c.Render(http.StatusOK, "dashboard.html", echo.Map{
		"User":     session,
		"Patients": patients,
	})
}

// ShowPatientForm renders the new-patient form.
func (h *PatientHandler) ShowPatientForm(c echo.Context) error {
	return c.Render(http.StatusOK, "new_patient.html", patientFormData("", "", "", ""))
}

// CreatePatient validates the form and creates a patient scoped to the
// session's tenant.
func (h *PatientHandler) CreatePatient(c echo.Context) error {
	log := logger.FromEcho(c)
	session := middleware.CurrentSession(c)

	name := strings.TrimSpace(c.FormValue("name"))
	dateOfBirth := c.FormValue("date_of_birth")
	notes := c.FormValue("notes")

	if name == "" {
		data := patientFormData(name, dateOfBirth, notes, "Name is required.")
		return c.Render(http.StatusOK, "new_patient.html", data)
	}

	patient, err := h.store.CreatePatient(c.Request().Context(), session.TenantID, name, dateOfBirth, notes)
	if err != nil {
		log.Error("Failed to create patient",
			zap.Uint("tenant_id", session.TenantID),
			zap.Error(err))
		prometheus.RecordStorageError("create_patient")
		return err
	}
	prometheus.RecordPatientOperation("create")

	log.Info("Patient created",
		zap.Uint("patient_id", patient.ID),
		zap.Uint("tenant_id", session.TenantID))

	return c.Redirect(http.StatusFound, "/dashboard")
}

func patientFormData(name, dateOfBirth, notes, errMsg string) echo.Map {
	return echo.Map{
		"Name":        name,
		"DateOfBirth": dateOfBirth,
		"Notes":       notes,
		"Error":       errMsg,
	}
}
