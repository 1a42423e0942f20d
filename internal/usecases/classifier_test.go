package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abelzeko/health-watch/internal/entities"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		symptoms    string
		turbidity   float64
		ph          float64
		bacteria    float64
		wantDisease string
		wantRisk    string
	}{
		{
			name:        "high bacteria count alone",
			bacteria:    151,
			wantDisease: "Typhoid",
			wantRisk:    entities.RiskHigh,
		},
		{
			name:        "very high turbidity alone",
			turbidity:   31,
			wantDisease: "Typhoid",
			wantRisk:    entities.RiskHigh,
		},
		{
			name:        "fever and diarrhea together",
			symptoms:    "patient has fever and diarrhea since monday",
			wantDisease: "Typhoid",
			wantRisk:    entities.RiskHigh,
		},
		{
			name:        "fever and diarrhea mixed case",
			symptoms:    "High FEVER, watery DIARRHEA",
			wantDisease: "Typhoid",
			wantRisk:    entities.RiskHigh,
		},
		{
			name:        "high bacteria overrides mild symptoms",
			symptoms:    "slight headache",
			bacteria:    200,
			wantDisease: "Typhoid",
			wantRisk:    entities.RiskHigh,
		},
		{
			name:        "diarrhea alone is medium",
			symptoms:    "diarrhea",
			wantDisease: "Diarrhea",
			wantRisk:    entities.RiskMedium,
		},
		{
			name:        "moderate bacteria count",
			bacteria:    61,
			wantDisease: "Diarrhea",
			wantRisk:    entities.RiskMedium,
		},
		{
			name:        "moderate turbidity",
			turbidity:   16,
			wantDisease: "Diarrhea",
			wantRisk:    entities.RiskMedium,
		},
		{
			name:        "fever without diarrhea falls through",
			symptoms:    "fever and headache",
			wantDisease: "Unknown",
			wantRisk:    entities.RiskLow,
		},
		{
			name:        "jaundice",
			symptoms:    "yellow eyes, Jaundice",
			wantDisease: "Hepatitis A",
			wantRisk:    entities.RiskLow,
		},
		{
			name:        "low bacteria count",
			bacteria:    21,
			wantDisease: "Hepatitis A",
			wantRisk:    entities.RiskLow,
		},
		{
			name:        "no signal",
			symptoms:    "mild cough",
			ph:          6.0,
			wantDisease: "Unknown",
			wantRisk:    entities.RiskLow,
		},
		{
			name:        "thresholds are exclusive",
			turbidity:   30,
			bacteria:    150,
			wantDisease: "Diarrhea",
			wantRisk:    entities.RiskMedium,
		},
		{
			name:        "empty input",
			wantDisease: "Unknown",
			wantRisk:    entities.RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disease, risk := Classify(tt.symptoms, tt.turbidity, tt.ph, tt.bacteria)
			assert.Equal(t, tt.wantDisease, disease)
			assert.Equal(t, tt.wantRisk, risk)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	d1, r1 := Classify("fever and diarrhea", 12, 7.1, 40)
	d2, r2 := Classify("fever and diarrhea", 12, 7.1, 40)
	assert.Equal(t, d1, d2)
	assert.Equal(t, r1, r2)
}
