// Package usecases contains the application's business logic
package usecases

import (
	"strings"

	"github.com/abelzeko/health-watch/internal/entities"
)

// Water-quality thresholds used by the classifier and the contamination
// alert rule.
const (
	bacteriaHigh   = 150
	bacteriaMedium = 60
	bacteriaLow    = 20
	turbidityHigh  = 30
	turbidityMed   = 15
)

// Classify maps one report's symptom text and water-quality figures to a
// (disease, risk) pair. Rules are evaluated in priority order, first match
// wins. Text matching is case-insensitive substring containment; missing
// numeric inputs must be passed as 0. The pH value is accepted for contract
// parity but the current rules do not use it.
func Classify(symptoms string, turbidity, ph, bacteriaCount float64) (disease, risk string) {
	text := strings.ToLower(symptoms)
	fever := strings.Contains(text, "fever")
	diarrhea := strings.Contains(text, "diarrhea")
	jaundice := strings.Contains(text, "jaundice")

	switch {
	case bacteriaCount > bacteriaHigh || turbidity > turbidityHigh || (fever && diarrhea):
		return "Typhoid", entities.RiskHigh
	case bacteriaCount > bacteriaMedium || turbidity > turbidityMed || diarrhea:
		return "Diarrhea", entities.RiskMedium
	case bacteriaCount > bacteriaLow || jaundice:
		return "Hepatitis A", entities.RiskLow
	default:
		return "Unknown", entities.RiskLow
	}
}

// waterContaminated reports whether a water measurement crosses the
// contamination alert thresholds.
func waterContaminated(turbidity, bacteriaCount float64) bool {
	return bacteriaCount > bacteriaHigh || turbidity > turbidityHigh
}
