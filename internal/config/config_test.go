package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 720*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "./data/tally.json", cfg.Demo.DataPath)
}

func TestMode_DemoWhenUnconfigured(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, ModeDemo, cfg.Mode())
}

func TestMode_DemoOnPlaceholders(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:        placeholderDBHost,
			dsnOverride: placeholderDBURL,
		},
	}
	assert.Equal(t, ModeDemo, cfg.Mode())
}

func TestMode_RemoteWithHost(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db.internal:3306"}}
	assert.Equal(t, ModeRemote, cfg.Mode())
}

func TestMode_RemoteWithURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{dsnOverride: "tally:pw@tcp(db:3306)/tally?parseTime=true"}}
	assert.Equal(t, ModeRemote, cfg.Mode())
}

func TestLoad_ProductionRequiresBackend(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DB_HOST", "")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestDSN_BuildsFromFields(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		User:     "tally",
		Password: "secret",
		Name:     "tally",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "tcp(localhost:3306)")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestDSN_OverrideWins(t *testing.T) {
	d := DatabaseConfig{
		Host:        "ignored",
		dsnOverride: "user:pw@tcp(elsewhere:3306)/other",
	}
	assert.Equal(t, "user:pw@tcp(elsewhere:3306)/other", d.DSN())
}

func TestEnsurePort(t *testing.T) {
	assert.Equal(t, "mydb:3306", ensurePort("mydb", "3306"))
	assert.Equal(t, "mydb:3307", ensurePort("mydb:3307", "3306"))
}
