package stockhealth

import (
	"testing"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	tests := []struct {
		name          string
		remainingDays int
		noExpiry      bool
		want          domain.HealthStatus
	}{
		{"no expiry wins over days", -5, true, domain.StatusNoExpiry},
		{"expired is disposed", 0, false, domain.StatusDisposed},
		{"negative is disposed", -10, false, domain.StatusDisposed},
		{"one day is imminent", 1, false, domain.StatusImminent},
		{"boundary thirty is imminent", 30, false, domain.StatusImminent},
		{"thirty one is critical", 31, false, domain.StatusCritical},
		{"boundary sixty is critical", 60, false, domain.StatusCritical},
		{"sixty one is healthy", 61, false, domain.StatusHealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.remainingDays, tt.noExpiry))
		})
	}
}

func TestIsNoExpiry(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	assert.True(t, c.IsNoExpiryCode("9001"))
	assert.False(t, c.IsNoExpiryCode("1001"))

	expiry := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, c.IsNoExpiryBatch(domain.InventoryBatch{ProductCode: "9001", ExpirationDate: expiry}))
	assert.True(t, c.IsNoExpiryBatch(domain.InventoryBatch{ProductCode: "1001"}))
	assert.False(t, c.IsNoExpiryBatch(domain.InventoryBatch{ProductCode: "1001", ExpirationDate: expiry}))
}

func TestRepresentative(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	expiry := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	t.Run("takes the worst batch", func(t *testing.T) {
		status, minDays := c.Representative("1001", []domain.InventoryBatch{
			{RemainingDays: 120, ExpirationDate: expiry},
			{RemainingDays: 15, ExpirationDate: expiry},
			{RemainingDays: 45, ExpirationDate: expiry},
		})
		assert.Equal(t, domain.StatusImminent, status)
		assert.Equal(t, 15, minDays)
	})

	t.Run("no batches means healthy", func(t *testing.T) {
		status, minDays := c.Representative("1001", nil)
		assert.Equal(t, domain.StatusHealthy, status)
		assert.Equal(t, 0, minDays)
	})

	t.Run("no expiry code overrides days", func(t *testing.T) {
		status, _ := c.Representative("9001", []domain.InventoryBatch{
			{RemainingDays: 2, ExpirationDate: expiry},
		})
		assert.Equal(t, domain.StatusNoExpiry, status)
	})
}

func TestSummarize(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	expiry := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	items := []domain.IntegratedItem{
		{
			ProductCode: "1001",
			Inventory: domain.InventoryRollup{
				TotalStock: 25000,
				Batches: []domain.InventoryBatch{
					{ProductCode: "1001", Quantity: 10000, RemainingDays: 90, ExpirationDate: expiry},
					{ProductCode: "1001", Quantity: 10000, RemainingDays: 45, ExpirationDate: expiry},
					{ProductCode: "1001", Quantity: 4000, RemainingDays: 10, ExpirationDate: expiry},
					{ProductCode: "1001", Quantity: 1000, RemainingDays: -1, ExpirationDate: expiry},
				},
			},
		},
		{
			ProductCode: "9001",
			Inventory: domain.InventoryRollup{
				TotalStock: 500,
				Batches: []domain.InventoryBatch{
					{ProductCode: "9001", Quantity: 500, RemainingDays: 5, ExpirationDate: expiry},
				},
			},
		},
	}

	s := c.Summarize(items)

	assert.Equal(t, 10000.0, s.Healthy)
	assert.Equal(t, 10000.0, s.Critical)
	assert.Equal(t, 4000.0, s.Imminent)
	assert.Equal(t, 1000.0, s.Disposed)
	assert.Equal(t, 500.0, s.NoExpiry)

	require.Len(t, s.ExcessProducts, 1)
	assert.Equal(t, "1001", s.ExcessProducts[0])
}
