package entities

import (
	"time"
)

// Alert types
const (
	AlertWaterContamination = "WaterContamination"
	AlertOutbreakWarning    = "OutbreakWarning"
	AlertLocalOutbreakRisk  = "LocalOutbreakRisk"
)

// Alert statuses
const (
	AlertStatusActive   = "Active"
	AlertStatusResolved = "Resolved"
)

// Risk and severity levels
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// LocationMultiple is the location sentinel for alerts that are not scoped
// to a single location, such as batch-wide outbreak warnings.
const LocationMultiple = "Multiple"

// Alert is a persisted notification of contamination or outbreak risk,
// scoped by type and location. Alerts are created Active and are resolved
// only by the TTL sweep; they are never otherwise mutated.
type Alert struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Location  string    `json:"location"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
