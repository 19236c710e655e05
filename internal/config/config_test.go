package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "Europe/Rome", cfg.App.Timezone)
	assert.True(t, cfg.App.MetricsEnabled)
	assert.Equal(t, 10*time.Second, cfg.App.ShutdownGrace)
}

func TestLoadFromEnvAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_DRIVER=postgres\nSMTP_HOST=mail.local\n"), 0o600))
	t.Setenv("PORT", "9090")
	t.Setenv("MIGRATIONS", "true")
	t.Cleanup(func() {
		os.Unsetenv("DB_DRIVER")
		os.Unsetenv("SMTP_HOST")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Database.Migrations)
	assert.Equal(t, "mail.local", cfg.Mail.Host)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "lens", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=lens sslmode=disable", d.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/lens?sslmode=disable", d.URL())
}

func TestLocationFallback(t *testing.T) {
	assert.Equal(t, time.UTC, AppConfig{Timezone: "Nowhere/Town"}.Location())
}
