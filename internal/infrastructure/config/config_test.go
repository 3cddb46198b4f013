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

	assert.Equal(t, "shopadmin-backend", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 15*time.Minute, cfg.Reservation.DefaultTTL)
	assert.Equal(t, time.Minute, cfg.Reservation.SweepInterval)
	assert.False(t, cfg.FeatureFlag.UseVariantLabel)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SHOPADMIN_APP_PORT", "9191")
	t.Setenv("SHOPADMIN_DATABASE_HOST", "db.internal")
	t.Setenv("SHOPADMIN_USE_VARIANT_LABEL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9191", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.True(t, cfg.FeatureFlag.UseVariantLabel)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("SHOPADMIN_LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "localhost", Port: 5432,
		User: "postgres", Password: "secret",
		DBName: "shopadmin", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=shopadmin sslmode=disable",
		cfg.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "localhost", Port: 6379}
	assert.Equal(t, "localhost:6379", cfg.Addr())
}
