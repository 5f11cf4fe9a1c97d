package units

import (
	"testing"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactor(t *testing.T) {
	assert.Equal(t, 24.0, Factor(24))
	assert.Equal(t, 1.0, Factor(0))
	assert.Equal(t, 1.0, Factor(-3))
}

func TestToBaseAndBack(t *testing.T) {
	assert.Equal(t, 240.0, ToBase(10, 24))
	assert.Equal(t, 10.0, ToBoxes(240, 24))

	// Degraded factor keeps quantities intact in both directions.
	assert.Equal(t, 10.0, ToBase(10, 0))
	assert.Equal(t, 10.0, ToBoxes(10, 0))
}

func TestIsBoxUnit(t *testing.T) {
	assert.True(t, IsBoxUnit("BOX"))
	assert.True(t, IsBoxUnit(" box "))
	assert.False(t, IsBoxUnit("EA"))
	assert.False(t, IsBoxUnit(""))
}

func TestNormalizeRate(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"fraction scales up", 0.5, 50},
		{"exact one is a full fraction", 1, 100},
		{"percent passes through", 85, 85},
		{"zero stays zero", 0, 0},
		{"negative clamps to zero", -3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRate(tt.in))
		})
	}
}

func TestNormalizeOrderLines(t *testing.T) {
	lines := []domain.OrderLine{
		{ProductCode: "1001", Unit: "BOX", BoxFactor: 24, RequestedQty: 10, DeliveredQty: 8},
		{ProductCode: "1002", Unit: "EA", BoxFactor: 24, RequestedQty: 5, DeliveredQty: 5},
	}

	out := NormalizeOrderLines(lines)
	require.Len(t, out, 2)

	assert.Equal(t, 240.0, out[0].RequestedQty)
	assert.Equal(t, 192.0, out[0].DeliveredQty)
	assert.Equal(t, UnitBase, out[0].Unit)

	// Base-unit lines pass through untouched.
	assert.Equal(t, 5.0, out[1].RequestedQty)
	assert.Equal(t, "EA", out[1].Unit)

	// The input slice is not mutated.
	assert.Equal(t, 10.0, lines[0].RequestedQty)
}

func TestNormalizeProductionRows(t *testing.T) {
	rows := []domain.ProductionRow{
		{ProductCode: "1001", Unit: "box", BoxFactor: 12, PlannedQty: 3, ReceivedQty: 2},
	}

	out := NormalizeProductionRows(rows)
	require.Len(t, out, 1)
	assert.Equal(t, 36.0, out[0].PlannedQty)
	assert.Equal(t, 24.0, out[0].ReceivedQty)
	assert.Equal(t, UnitBase, out[0].Unit)
}

func TestNormalizeBatches(t *testing.T) {
	batches := []domain.InventoryBatch{
		{ProductCode: "1001", Quantity: 100, RemainingRate: 0.42},
		{ProductCode: "1002", Quantity: 50, RemainingRate: 73},
	}

	out := NormalizeBatches(batches)
	require.Len(t, out, 2)
	assert.Equal(t, 42.0, out[0].RemainingRate)
	assert.Equal(t, 73.0, out[1].RemainingRate)
}
