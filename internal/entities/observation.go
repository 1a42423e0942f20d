package entities

import (
	"time"
)

// WaterObservation represents a single water-quality measurement at a location.
// Many observations may exist per location; only the most recent one is used
// for correlation with health reports.
type WaterObservation struct {
	ID            int64     `json:"id"`
	Location      string    `json:"location"`
	Turbidity     float64   `json:"turbidity"`      // NTU
	PH            float64   `json:"ph"`             // 0-14
	BacteriaCount float64   `json:"bacteria_count"` // CFU/100ml
	ObservedAt    time.Time `json:"observed_at"`
}
