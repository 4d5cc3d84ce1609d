package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("STORE_DRIVER", DriverMemory)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LEDGER_WRITE_TIMEOUT", "10s")
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"CORS_ALLOWED_ORIGINS": "http://a.test, http://b.test,",
		"LOG_LEVEL":            "debug",
		"LEDGER_WRITE_TIMEOUT": "250ms",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.WriteTimeout)
}

func TestFromViper_InvalidTimeoutFallsBack(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"LEDGER_WRITE_TIMEOUT": "soon"}))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
}

func TestFromViper_PostgresNeedsURL(t *testing.T) {
	_, err := fromViper(newViper(map[string]any{"STORE_DRIVER": "POSTGRES"}))
	require.Error(t, err)

	cfg, err := fromViper(newViper(map[string]any{"STORE_DRIVER": "postgres", "PGSQL_URL": "postgres://localhost/ledger"}))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
}

func TestFromViper_UnknownDriver(t *testing.T) {
	_, err := fromViper(newViper(map[string]any{"STORE_DRIVER": "mongo"}))
	assert.Error(t, err)
}

func TestFromViper_ProductionRequiresSecret(t *testing.T) {
	_, err := fromViper(newViper(map[string]any{
		"IS_PRODUCTION": true,
		"JWT_SECRET":    "a-very-secret-key-should-be-longer-and-random",
	}))
	assert.Error(t, err)
}
