package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExternalBatchAsInventoryBatch(t *testing.T) {
	produced := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("derives remaining rate from shelf life", func(t *testing.T) {
		b := ExternalBatch{
			ProductCode:    "1001",
			AvailableQty:   200,
			ProductionDate: produced,
			ValidUntil:     produced.AddDate(0, 0, 100),
			RemainingDays:  40,
		}

		inv := b.AsInventoryBatch()
		assert.Equal(t, SourceFBH, inv.Source)
		assert.Equal(t, 200.0, inv.Quantity)
		assert.InDelta(t, 40.0, inv.RemainingRate, 1e-9)
		assert.Equal(t, b.ValidUntil, inv.ExpirationDate)
	})

	t.Run("zero shelf life yields zero rate", func(t *testing.T) {
		b := ExternalBatch{ProductionDate: produced, ValidUntil: produced, RemainingDays: 5}
		assert.Equal(t, 0.0, b.AsInventoryBatch().RemainingRate)
	})

	t.Run("negative remaining days clamp to zero rate", func(t *testing.T) {
		b := ExternalBatch{
			ProductionDate: produced,
			ValidUntil:     produced.AddDate(0, 0, 100),
			RemainingDays:  -3,
		}
		assert.Equal(t, 0.0, b.AsInventoryBatch().RemainingRate)
	})
}

func TestDateWindowContains(t *testing.T) {
	w := DateWindow{
		Start: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.True(t, w.Contains(time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Time{}))
}

func TestHealthStatusLabels(t *testing.T) {
	assert.Equal(t, "Healthy", StatusHealthy.Label())
	assert.Equal(t, "No Expiry", StatusNoExpiry.Label())
	assert.Equal(t, "Unknown", HealthStatus("bogus").Label())

	status, ok := ParseHealthStatus(" CRITICAL ")
	assert.True(t, ok)
	assert.Equal(t, StatusCritical, status)

	_, ok = ParseHealthStatus("nope")
	assert.False(t, ok)
}
