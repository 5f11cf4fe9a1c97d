// Package forecast fits a least-squares trend line to recent monthly demand
// and extends it forward. The fit is intentionally simple: six points in,
// six points out, with a volatility-based confidence score instead of a
// formal interval. Callers supply a dense history; months without sales
// carry an explicit zero so the month index stays calendar-true.
package forecast

import (
	"math"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
)

// Config controls the fit and projection horizon.
type Config struct {
	HistoryMonths int     // points fed to the regression
	HorizonMonths int     // points projected forward
	StableBandPct float64 // trend is STABLE inside +/- this percent
}

func DefaultConfig() Config {
	return Config{
		HistoryMonths: 6,
		HorizonMonths: 6,
		StableBandPct: 3,
	}
}

// Input is one product's monthly demand history, oldest first, plus the
// same months one year earlier for seasonal comparison.
type Input struct {
	ProductCode string
	ProductName string
	History     []domain.MonthlyPoint
	PriorYear   []domain.MonthlyPoint
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.HistoryMonths <= 0 {
		cfg.HistoryMonths = 6
	}
	if cfg.HorizonMonths <= 0 {
		cfg.HorizonMonths = 6
	}
	if cfg.StableBandPct <= 0 {
		cfg.StableBandPct = 3
	}
	return &Engine{cfg: cfg}
}

// Project fits y = slope*x + intercept over the history (x = 1..n) and
// projects the next horizon months. Forecast values are floored at zero and
// rounded to whole units. With fewer than two points there is nothing to
// fit, so the last known value (or zero) repeats flat.
func (e *Engine) Project(in Input) domain.ForecastResult {
	history := tail(in.History, e.cfg.HistoryMonths)

	result := domain.ForecastResult{
		ProductCode: in.ProductCode,
		ProductName: in.ProductName,
		History:     history,
		PriorYear:   in.PriorYear,
	}

	n := len(history)
	if n == 0 {
		// No anchor month to project from, so the flat-zero forecast
		// carries no month labels.
		result.Forecast = make([]domain.MonthlyPoint, e.cfg.HorizonMonths)
		result.Trend = domain.TrendStable
		return result
	}

	var slope, intercept float64
	if n >= 2 {
		slope, intercept = fitLine(history)
	} else {
		intercept = history[0].Value
	}

	lastMonth := parseMonth(history[n-1].Month)
	forecast := make([]domain.MonthlyPoint, 0, e.cfg.HorizonMonths)
	for i := 1; i <= e.cfg.HorizonMonths; i++ {
		value := slope*float64(n+i) + intercept
		if value < 0 {
			value = 0
		}
		forecast = append(forecast, domain.MonthlyPoint{
			Month: formatMonth(lastMonth.AddDate(0, i, 0)),
			Value: math.Round(value),
		})
	}
	result.Forecast = forecast

	histMean := mean(history)
	fcMean := mean(forecast)
	result.Trend, result.ChangePct = e.trend(histMean, fcMean)
	result.Volatility = volatility(history, histMean)
	result.Accuracy = accuracyScore(result.Volatility)

	return result
}

// fitLine is ordinary least squares with x = 1..n.
func fitLine(points []domain.MonthlyPoint) (slope, intercept float64) {
	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range points {
		x := float64(i + 1)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// trend compares the forecast mean against the history mean. Inside the
// stable band the direction is not considered meaningful.
func (e *Engine) trend(histMean, fcMean float64) (domain.TrendLabel, float64) {
	changePct := (fcMean - histMean) / nonZero(histMean) * 100
	switch {
	case changePct > e.cfg.StableBandPct:
		return domain.TrendUp, changePct
	case changePct < -e.cfg.StableBandPct:
		return domain.TrendDown, changePct
	default:
		return domain.TrendStable, changePct
	}
}

// volatility is the coefficient of variation of the history: standard
// deviation over mean.
func volatility(points []domain.MonthlyPoint, m float64) float64 {
	if len(points) < 2 {
		return 0
	}
	var sumSq float64
	for _, p := range points {
		d := p.Value - m
		sumSq += d * d
	}
	sd := math.Sqrt(sumSq / float64(len(points)))
	return sd / nonZero(m)
}

// accuracyScore maps volatility onto a 0..100 confidence figure. Perfectly
// flat history scores 100; CV of 1.0 or worse scores 0.
func accuracyScore(cv float64) int {
	score := math.Round(100 - cv*100)
	if score < 0 {
		return 0
	}
	return int(score)
}

func mean(points []domain.MonthlyPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	return sum / float64(len(points))
}

func tail(points []domain.MonthlyPoint, n int) []domain.MonthlyPoint {
	if len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func parseMonth(s string) time.Time {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatMonth(t time.Time) string {
	return t.Format("2006-01")
}
