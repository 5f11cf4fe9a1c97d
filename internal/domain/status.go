package domain

import "strings"

// HealthStatus is the shelf-life classification of an inventory batch.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusCritical HealthStatus = "critical"
	StatusImminent HealthStatus = "imminent"
	StatusDisposed HealthStatus = "disposed"
	StatusNoExpiry HealthStatus = "no_expiry"
)

var healthStatusLabels = map[HealthStatus]string{
	StatusHealthy:  "Healthy",
	StatusCritical: "Critical",
	StatusImminent: "Imminent",
	StatusDisposed: "Disposed",
	StatusNoExpiry: "No Expiry",
}

// Label returns a human-readable label for a health status.
func (s HealthStatus) Label() string {
	if label, ok := healthStatusLabels[s]; ok {
		return label
	}

	return "Unknown"
}

// ParseHealthStatus returns the status for a given label (case-insensitive).
func ParseHealthStatus(label string) (HealthStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	for status := range healthStatusLabels {
		if string(status) == normalized {
			return status, true
		}
	}

	return "", false
}
