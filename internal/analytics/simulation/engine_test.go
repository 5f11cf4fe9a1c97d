package simulation

import (
	"testing"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

func daysFromToday(n int) time.Time {
	return today.AddDate(0, 0, n)
}

func TestRunFeasible(t *testing.T) {
	result := Run(Input{
		Batches: []domain.InventoryBatch{
			{ProductCode: "1001", Quantity: 100, ExpirationDate: daysFromToday(90)},
		},
		Production: []domain.ProductionRow{
			{ProductCode: "1001", ScheduledDate: daysFromToday(3), PlannedQty: 50},
		},
		Committed: []domain.OrderLine{
			{ProductCode: "1001", RequestDate: daysFromToday(2), RequestedQty: 80},
		},
		Request: domain.SimulationRequest{
			ProductCode: "1001", Quantity: 60, TargetDate: daysFromToday(4),
		},
		Today:            today,
		MinShelfLifeDays: 30,
	})

	assert.True(t, result.Feasible)
	assert.Nil(t, result.ShortageDate)
	assert.Equal(t, 0.0, result.ShortageQty)
	assert.Equal(t, 100.0, result.UsableStock)
	assert.Equal(t, 50.0, result.ScheduledProduction)
	assert.Equal(t, 80.0, result.CommittedDemand)

	require.Len(t, result.Timeline, 4)
	assert.Equal(t, domain.EventStock, result.Timeline[0].Kind)
	assert.Equal(t, 100.0, result.Timeline[0].Balance)
	assert.Equal(t, 20.0, result.Timeline[1].Balance)  // existing order
	assert.Equal(t, 70.0, result.Timeline[2].Balance)  // production inflow
	assert.Equal(t, 10.0, result.Timeline[3].Balance)  // new request
}

func TestRunShortage(t *testing.T) {
	result := Run(Input{
		Batches: []domain.InventoryBatch{
			{ProductCode: "1001", Quantity: 100, ExpirationDate: daysFromToday(90)},
		},
		Production: []domain.ProductionRow{
			{ProductCode: "1001", ScheduledDate: daysFromToday(3), PlannedQty: 50},
		},
		Committed: []domain.OrderLine{
			{ProductCode: "1001", RequestDate: daysFromToday(1), RequestedQty: 120},
		},
		Request: domain.SimulationRequest{
			ProductCode: "1001", Quantity: 40, TargetDate: daysFromToday(5),
		},
		Today:            today,
		MinShelfLifeDays: 30,
	})

	assert.False(t, result.Feasible)
	require.NotNil(t, result.ShortageDate)
	assert.True(t, result.ShortageDate.Equal(daysFromToday(1)))
	// The deepest dip is -20 on day one; a later recovery does not clear it.
	assert.Equal(t, 20.0, result.ShortageQty)
}

func TestRunMinShelfLifeFiltersStock(t *testing.T) {
	result := Run(Input{
		Batches: []domain.InventoryBatch{
			{ProductCode: "1001", Quantity: 100, ExpirationDate: daysFromToday(90)},
			// Too close to expiry to promise against.
			{ProductCode: "1001", Quantity: 50, ExpirationDate: daysFromToday(10)},
			// No recorded expiry is always usable.
			{ProductCode: "1001", Quantity: 30},
		},
		Request: domain.SimulationRequest{
			ProductCode: "1001", Quantity: 10, TargetDate: daysFromToday(2),
		},
		Today:            today,
		MinShelfLifeDays: 30,
	})

	assert.Equal(t, 130.0, result.UsableStock)
}

func TestRunProductionAppliesBeforeOrdersSameDay(t *testing.T) {
	result := Run(Input{
		Batches: []domain.InventoryBatch{
			{ProductCode: "1001", Quantity: 100, ExpirationDate: daysFromToday(90)},
		},
		Production: []domain.ProductionRow{
			{ProductCode: "1001", ScheduledDate: daysFromToday(2), PlannedQty: 50},
		},
		Committed: []domain.OrderLine{
			{ProductCode: "1001", RequestDate: daysFromToday(2), RequestedQty: 120},
		},
		Request: domain.SimulationRequest{
			ProductCode: "1001", Quantity: 10, TargetDate: daysFromToday(3),
		},
		Today:            today,
		MinShelfLifeDays: 30,
	})

	// 100 + 50 - 120 - 10 stays positive only if the inflow lands first.
	assert.True(t, result.Feasible)
}

func TestRunExistingOrdersBeatNewRequest(t *testing.T) {
	result := Run(Input{
		Batches: []domain.InventoryBatch{
			{ProductCode: "1001", Quantity: 100, ExpirationDate: daysFromToday(90)},
		},
		Committed: []domain.OrderLine{
			{ProductCode: "1001", RequestDate: daysFromToday(2), RequestedQty: 60},
		},
		Request: domain.SimulationRequest{
			ProductCode: "1001", Quantity: 50, TargetDate: daysFromToday(2),
		},
		Today:            today,
		MinShelfLifeDays: 30,
	})

	assert.False(t, result.Feasible)
	require.NotNil(t, result.ShortageDate)
	assert.True(t, result.ShortageDate.Equal(daysFromToday(2)))
	assert.Equal(t, 10.0, result.ShortageQty)

	require.Len(t, result.Timeline, 3)
	assert.Equal(t, domain.EventExistingOrder, result.Timeline[1].Kind)
	assert.Equal(t, domain.EventNewRequest, result.Timeline[2].Kind)
}

func TestRunIgnoresPastRows(t *testing.T) {
	result := Run(Input{
		Batches: []domain.InventoryBatch{
			{ProductCode: "1001", Quantity: 100, ExpirationDate: daysFromToday(90)},
		},
		Production: []domain.ProductionRow{
			{ProductCode: "1001", ScheduledDate: daysFromToday(-2), PlannedQty: 500},
		},
		Committed: []domain.OrderLine{
			{ProductCode: "1001", RequestDate: daysFromToday(-1), RequestedQty: 500},
		},
		Request: domain.SimulationRequest{
			ProductCode: "1001", Quantity: 10, TargetDate: daysFromToday(1),
		},
		Today:            today,
		MinShelfLifeDays: 30,
	})

	assert.True(t, result.Feasible)
	assert.Equal(t, 0.0, result.ScheduledProduction)
	assert.Equal(t, 0.0, result.CommittedDemand)
}
