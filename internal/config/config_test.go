package config_test

import (
	"testing"
	"time"

	"github.com/flexprice/salestax/internal/config"
	"github.com/flexprice/salestax/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigReadsFileAndEnvironment(t *testing.T) {
	t.Setenv("SALESTAX_AVATAX_COMPANY_CODE", "ACME")
	t.Setenv("SALESTAX_AVATAX_DOCUMENT_COMMIT", "false")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, types.ModeLocal, cfg.Deployment.Mode)
	assert.Equal(t, "ACME", cfg.Avatax.CompanyCode)
	assert.False(t, cfg.Avatax.DocumentCommit)
	assert.True(t, cfg.Avatax.TaxCalculation)
	assert.Equal(t, 5*time.Second, cfg.Avatax.Timeout)
	assert.Equal(t, time.Minute, cfg.Cache.PreferenceTTL)
	assert.Equal(t, types.DefaultAvataxClientVersion, cfg.Avatax.ClientVersion)
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.GetDefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, types.DefaultAvataxClientVersion, cfg.Avatax.ClientVersion)
	assert.True(t, cfg.Avatax.TaxCalculation)
	assert.True(t, cfg.Avatax.DocumentCommit)
}

func TestValidateRequiresClientVersion(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Avatax.ClientVersion = ""

	assert.Error(t, cfg.Validate())
}

func TestGetDSN(t *testing.T) {
	pg := config.PostgresConfig{
		Host:     "db",
		Port:     5433,
		User:     "tax",
		Password: "secret",
		DBName:   "salestax",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"user=tax password=secret dbname=salestax host=db port=5433 sslmode=disable",
		pg.GetDSN())
}
