package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/pkg/config"
)

func TestBuildPoolConfig_AjustesDelServicio(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "app", Password: "secreto", DBName: "logistica", SSLMode: "disable",
		MaxConns: 8, MinConns: 2, ConnLifetimeMinutes: 20, StatementTimeoutSecs: 15,
		ApplicationName: "logistica-api",
	}
	pc, err := buildPoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, 20*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, 10*time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, "logistica-api", pc.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "15000", pc.ConnConfig.RuntimeParams["statement_timeout"])
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "logistica", pc.ConnConfig.Database)
}

func TestBuildPoolConfig_DatabaseURLTienePrioridad(t *testing.T) {
	pc, err := buildPoolConfig(config.DBConfig{
		DatabaseURL: "postgres://u:p@pg.internal:6543/crm?sslmode=disable",
		Host:        "ignorado",
		MinConns:    50, // mayor que MaxConns: se ignora
	})
	require.NoError(t, err)
	assert.Equal(t, "pg.internal", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.LessOrEqual(t, pc.MinConns, pc.MaxConns)
}

func TestBuildPoolConfig_DSNInvalido(t *testing.T) {
	_, err := buildPoolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}

func TestLookupIPv4_Literales(t *testing.T) {
	ip, err := lookupIPv4(context.Background(), "10.0.0.7")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", ip)

	_, err = lookupIPv4(context.Background(), "::1")
	assert.Error(t, err)
}
