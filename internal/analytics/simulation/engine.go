// Package simulation projects a single product's inventory balance
// day-by-day to answer whether a hypothetical new order can be promised on
// top of current stock, scheduled production, and existing commitments.
package simulation

import (
	"math"
	"sort"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
)

// Input is everything one simulation run reads: the product's batches, its
// future production, its committed orders, and the new request under test.
type Input struct {
	Batches          []domain.InventoryBatch
	Production       []domain.ProductionRow
	Committed        []domain.OrderLine
	Request          domain.SimulationRequest
	Today            time.Time
	MinShelfLifeDays int // batches expiring sooner than this are not usable
}

// dayEvents groups the balance changes of a single calendar day. Within a
// day, inflows land first, then existing commitments, then the new request;
// existing customers are always served before the hypothetical order.
type dayEvents struct {
	production float64
	existing   float64
	newRequest float64
}

// Run walks every calendar day from today through the latest event date and
// applies the ledger in the fixed within-day order. The first day the
// running balance goes negative fixes the shortage date; a later recovery
// does not clear the flag. The shortage magnitude is the deepest point the
// balance reaches.
func Run(in Input) domain.SimulationResult {
	today := truncateDay(in.Today)

	usable := usableStock(in.Batches, today, in.MinShelfLifeDays)

	ledger := make(map[time.Time]*dayEvents)
	at := func(d time.Time) *dayEvents {
		d = truncateDay(d)
		ev, ok := ledger[d]
		if !ok {
			ev = &dayEvents{}
			ledger[d] = ev
		}
		return ev
	}

	var scheduledProduction, committedDemand float64
	lastDay := today

	for _, row := range in.Production {
		if row.ScheduledDate.IsZero() || truncateDay(row.ScheduledDate).Before(today) {
			continue
		}
		at(row.ScheduledDate).production += row.PlannedQty
		scheduledProduction += row.PlannedQty
		lastDay = laterOf(lastDay, truncateDay(row.ScheduledDate))
	}
	for _, line := range in.Committed {
		if line.RequestDate.IsZero() || truncateDay(line.RequestDate).Before(today) {
			continue
		}
		at(line.RequestDate).existing += line.RequestedQty
		committedDemand += line.RequestedQty
		lastDay = laterOf(lastDay, truncateDay(line.RequestDate))
	}
	if !in.Request.TargetDate.IsZero() && !truncateDay(in.Request.TargetDate).Before(today) {
		at(in.Request.TargetDate).newRequest += in.Request.Quantity
		lastDay = laterOf(lastDay, truncateDay(in.Request.TargetDate))
	}

	result := domain.SimulationResult{
		Feasible:            true,
		UsableStock:         usable,
		ScheduledProduction: scheduledProduction,
		CommittedDemand:     committedDemand,
	}

	balance := usable
	result.Timeline = append(result.Timeline, domain.InventoryEvent{
		Date: today, Kind: domain.EventStock, Quantity: usable, Balance: balance,
	})

	minBalance := balance
	apply := func(day time.Time, kind domain.EventKind, qty float64) {
		if qty == 0 {
			return
		}
		if kind == domain.EventProduction {
			balance += qty
		} else {
			balance -= qty
		}
		result.Timeline = append(result.Timeline, domain.InventoryEvent{
			Date: day, Kind: kind, Quantity: qty, Balance: balance,
		})
		if balance < minBalance {
			minBalance = balance
		}
		if balance < 0 && result.Feasible {
			result.Feasible = false
			shortage := day
			result.ShortageDate = &shortage
		}
	}

	for day := today; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		ev, ok := ledger[day]
		if !ok {
			continue
		}
		apply(day, domain.EventProduction, ev.production)
		apply(day, domain.EventExistingOrder, ev.existing)
		apply(day, domain.EventNewRequest, ev.newRequest)
	}

	if !result.Feasible {
		result.ShortageQty = math.Abs(minBalance)
	}

	return result
}

// usableStock sums the batches that still have at least minShelfLife days
// of life left today. Batches without an expiration date are always usable.
func usableStock(batches []domain.InventoryBatch, today time.Time, minShelfLife int) float64 {
	var total float64
	for _, b := range batches {
		if b.ExpirationDate.IsZero() {
			total += b.Quantity
			continue
		}
		life := int(truncateDay(b.ExpirationDate).Sub(today).Hours() / 24)
		if life >= minShelfLife {
			total += b.Quantity
		}
	}
	return total
}

// SortTimeline orders a timeline by date for display; within a day the
// apply order is already correct.
func SortTimeline(events []domain.InventoryEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func laterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
