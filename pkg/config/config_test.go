package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("SITE_URL", "https://crm.example.com/")
	t.Setenv("APP_STORE", "MEMORY")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "30")
	t.Setenv("DB_FORCE_IPV4", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.App.Store)
	assert.Equal(t, "https://crm.example.com/auth/set-password", cfg.Site.InviteRedirect())
	assert.Equal(t, 5, cfg.RateLimit.Max)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window())
	assert.False(t, cfg.AMQP.Enabled())
	assert.False(t, cfg.SMTP.Enabled())
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.False(t, cfg.DB.ForceIPv4)
	assert.Equal(t, "logistica-api", cfg.DB.ApplicationName)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_FaltanObligatorios(t *testing.T) {
	cfg := &Config{
		App:       AppConfig{Store: StorePostgres},
		RateLimit: RateLimitConfig{Max: 1, WindowSeconds: 1},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "SITE_URL")
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "logistica", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/logistica?sslmode=disable", c.DSN())
}

func TestValidate_PoolInconsistente(t *testing.T) {
	cfg := &Config{
		App:       AppConfig{Store: StorePostgres},
		JWT:       JWTConfig{Secret: "s"},
		Site:      SiteConfig{URL: "https://crm.example.com"},
		RateLimit: RateLimitConfig{Max: 1, WindowSeconds: 1},
		DB:        DBConfig{MaxConns: 2, MinConns: 5},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_CONNS")

	cfg.DB.MinConns = 1
	assert.NoError(t, cfg.Validate())

	// en memoria el pool no aplica
	cfg.App.Store = StoreMemory
	cfg.DB = DBConfig{}
	assert.NoError(t, cfg.Validate())
}
