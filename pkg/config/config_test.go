package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "sqlite", cfg.DB.Driver)
	require.Equal(t, "8000", cfg.Server.Port)
	require.Equal(t, "medsynq_session", cfg.Session.CookieName)
	require.Equal(t, 24*time.Hour, cfg.Session.TTL)
	require.Equal(t, 10, cfg.Security.BcryptCost)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("BCRYPT_COST", "12")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "9000", cfg.Server.Port)
	require.Equal(t, "postgres", cfg.DB.Driver)
	require.Equal(t, 2*time.Hour, cfg.Session.TTL)
	require.Equal(t, 12, cfg.Security.BcryptCost)
}

func TestPostgresDSN(t *testing.T) {
	db := DBConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "medsynq",
		Password: "secret",
		DBName:   "medsynq",
		SSLMode:  "disable",
	}
	require.Equal(t,
		"host=db.internal port=5433 user=medsynq password=secret dbname=medsynq sslmode=disable",
		db.GetDSN())
}
