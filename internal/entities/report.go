// Package entities contains the core domain objects for the health-watch application
package entities

import (
	"time"
)

// Report represents a single community health report submitted by a field worker
type Report struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name,omitempty"`    // Reporter name, optional
	Age              int       `json:"age"`               // Patient age, must be positive
	Location         string    `json:"location"`          // Village or area name
	Symptoms         string    `json:"symptoms"`          // Free-text symptom description
	Contact          string    `json:"contact,omitempty"` // Reporter contact, optional
	Turbidity        *float64  `json:"turbidity,omitempty"`
	PH               *float64  `json:"ph,omitempty"`
	BacteriaCount    *float64  `json:"bacteria_count,omitempty"`
	DiseasePredicted string    `json:"disease_predicted"` // Set by the classifier at creation
	Risk             string    `json:"risk"`              // Low, Medium or High
	CreatedAt        time.Time `json:"created_at"`
}

// EffectiveWaterFigures holds the water-quality values actually used for a
// report, after falling back to the location's latest observation or to the
// defaults (turbidity 0, pH 7, bacteria 0).
type EffectiveWaterFigures struct {
	Turbidity     float64 `json:"turbidity"`
	PH            float64 `json:"ph"`
	BacteriaCount float64 `json:"bacteria_count"`
}

// DefaultWaterFigures returns the fallback figures used when neither the
// report nor its location provides any measurement.
func DefaultWaterFigures() EffectiveWaterFigures {
	return EffectiveWaterFigures{Turbidity: 0, PH: 7, BacteriaCount: 0}
}

// JoinedRecord is one report merged with its effective water figures, the
// unit submitted to the outbreak analysis service. Field names follow the
// analysis service's expected input format.
type JoinedRecord struct {
	ReportID      int64     `json:"report_id"`
	Location      string    `json:"location"`
	Symptoms      string    `json:"symptoms"`
	Turbidity     float64   `json:"turbidity"`
	PH            float64   `json:"pH"`
	BacteriaCount float64   `json:"bacteria_count"`
	ReportTime    time.Time `json:"report_time"`
}
