package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "8081", cfg.Server.OpsPort)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "snop", cfg.Database.DBName)

	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 60, cfg.Cache.DashboardTTLSeconds)

	assert.Equal(t, "snop-snapshots", cfg.Archive.Bucket)

	assert.Equal(t, 2.0, cfg.Thresholds.SpikeRatio)
	assert.Equal(t, 30.0, cfg.Thresholds.SpikeFloorUnits)
	assert.Equal(t, 180, cfg.Thresholds.DeadStockCutoffDays)
	assert.Equal(t, 30, cfg.Thresholds.ImminentDays)
	assert.Equal(t, 60, cfg.Thresholds.CriticalDays)
	assert.Equal(t, []string{"9"}, cfg.Thresholds.NoExpiryPrefixes)
	assert.Equal(t, []string{"8", "9"}, cfg.Thresholds.MerchandisePrefixes)
}

func TestLoadReturnsSingleton(t *testing.T) {
	assert.Same(t, Load(), Load())
}
