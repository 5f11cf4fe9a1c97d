package rollup

import "time"

// velocity accumulates delivered quantity over trailing 30/60/90-day
// windows anchored at today, independent of the caller's reporting window.
type velocity struct {
	sum30 float64
	sum60 float64
	sum90 float64
}

// add folds one delivered quantity into every trailing window its date
// belongs to. Zero dates and future dates are ignored.
func (v *velocity) add(qty float64, date, today time.Time) {
	if date.IsZero() {
		return
	}
	daysAgo := daysBetween(date, today)
	if daysAgo < 0 || daysAgo >= 90 {
		return
	}
	v.sum90 += qty
	if daysAgo < 60 {
		v.sum60 += qty
	}
	if daysAgo < 30 {
		v.sum30 += qty
	}
}

// ads returns the average daily sales for each window. The canonical ADS
// used by the alerting engine is the 60-day figure.
func (v *velocity) ads() (ads30, ads60, ads90 float64) {
	return v.sum30 / 30, v.sum60 / 60, v.sum90 / 90
}

// daysBetween returns whole days from a to b at day granularity.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
