// Package units converts raw quantities into a product's base unit using
// the per-product box-conversion factor. Every other analytics component
// assumes its inputs have already passed through here.
package units

import (
	"strings"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
)

// Units of measure seen in the raw streams.
const (
	UnitBase = "EA"
	UnitBox  = "BOX"
)

// Factor returns a safe box-conversion multiplier. A zero or negative
// factor degrades to 1 so quantities pass through unchanged instead of
// collapsing to zero or producing Inf on division.
func Factor(boxFactor float64) float64 {
	if boxFactor <= 0 {
		return 1
	}
	return boxFactor
}

// ToBase converts a box quantity to base units.
func ToBase(qty, boxFactor float64) float64 {
	return qty * Factor(boxFactor)
}

// ToBoxes converts a base-unit quantity back to boxes.
func ToBoxes(qty, boxFactor float64) float64 {
	return qty / Factor(boxFactor)
}

// IsBoxUnit reports whether a raw row's unit of measure is box-based and
// therefore needs conversion.
func IsBoxUnit(unit string) bool {
	return strings.EqualFold(strings.TrimSpace(unit), UnitBox)
}

// NormalizeRate lifts remaining rates that arrive as 0-1 fractions onto the
// 0-100 percent scale. Values above 1 are assumed to be percentages already.
func NormalizeRate(rate float64) float64 {
	if rate > 0 && rate <= 1 {
		return rate * 100
	}
	if rate < 0 {
		return 0
	}
	return rate
}

// NormalizeOrderLines returns a copy of the order lines with box quantities
// converted to base units. Lines already in base units pass through.
func NormalizeOrderLines(lines []domain.OrderLine) []domain.OrderLine {
	out := make([]domain.OrderLine, len(lines))
	for i, line := range lines {
		if IsBoxUnit(line.Unit) {
			line.RequestedQty = ToBase(line.RequestedQty, line.BoxFactor)
			line.DeliveredQty = ToBase(line.DeliveredQty, line.BoxFactor)
			line.Unit = UnitBase
		}
		out[i] = line
	}
	return out
}

// NormalizeProductionRows returns a copy of the production rows with box
// quantities converted to base units.
func NormalizeProductionRows(rows []domain.ProductionRow) []domain.ProductionRow {
	out := make([]domain.ProductionRow, len(rows))
	for i, row := range rows {
		if IsBoxUnit(row.Unit) {
			row.PlannedQty = ToBase(row.PlannedQty, row.BoxFactor)
			row.ReceivedQty = ToBase(row.ReceivedQty, row.BoxFactor)
			row.Unit = UnitBase
		}
		out[i] = row
	}
	return out
}

// NormalizeBatches normalizes plant batch remaining rates onto the percent
// scale. Batch quantities always arrive in base units.
func NormalizeBatches(batches []domain.InventoryBatch) []domain.InventoryBatch {
	out := make([]domain.InventoryBatch, len(batches))
	for i, b := range batches {
		b.RemainingRate = NormalizeRate(b.RemainingRate)
		out[i] = b
	}
	return out
}
