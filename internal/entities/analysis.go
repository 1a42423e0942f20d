package entities

// AnalysisVerdict is the aggregate outbreak-risk judgment returned by the
// external analysis service over a batch of joined records. It is consumed
// transiently and never persisted.
type AnalysisVerdict struct {
	TotalReports      int      `json:"total_reports"`
	OverallRisk       string   `json:"overall_risk"`
	HighRiskLocations []string `json:"high_risk_locations"`
}

// DefaultVerdict is the safe verdict substituted when the analysis service
// is unreachable or returns malformed data.
func DefaultVerdict() AnalysisVerdict {
	return AnalysisVerdict{OverallRisk: RiskLow, HighRiskLocations: []string{}}
}

// AnalysisOutcome wraps a verdict together with a marker telling whether it
// came from the analysis service or from the local fallback, so callers can
// distinguish "confirmed low risk" from "service unreachable".
type AnalysisOutcome struct {
	Verdict  AnalysisVerdict `json:"verdict"`
	Degraded bool            `json:"degraded"`
}
