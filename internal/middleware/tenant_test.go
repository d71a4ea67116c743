package middleware_test

import (
	"testing"

	"medsynq/internal/middleware"
	"medsynq/internal/model"

	"github.com/stretchr/testify/require"
)

func TestResolveTenantExplicitParamWins(t *testing.T) {
	session := &model.Session{TenantID: 7, TenantName: "Acme"}

	tenant, ok := middleware.ResolveTenant(session, "Globex")
	require.True(t, ok)
	require.Equal(t, "Globex", tenant.Name)
	require.Zero(t, tenant.ID)
}

func TestResolveTenantFallsBackToSession(t *testing.T) {
	session := &model.Session{TenantID: 7, TenantName: "Acme"}

	tenant, ok := middleware.ResolveTenant(session, "")
	require.True(t, ok)
	require.Equal(t, uint(7), tenant.ID)
	require.Equal(t, "Acme", tenant.Name)
}

func TestResolveTenantAbsent(t *testing.T) {
	_, ok := middleware.ResolveTenant(nil, "")
	require.False(t, ok)
}
