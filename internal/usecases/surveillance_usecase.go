package usecases

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/abelzeko/health-watch/internal/entities"
	"github.com/abelzeko/health-watch/internal/observability"
	"github.com/abelzeko/health-watch/internal/repository"
)

// ErrInvalidInput marks submission failures caused by missing or invalid
// required fields. The API layer maps it to a 400 response.
var ErrInvalidInput = errors.New("invalid input")

// AnalysisService is the external outbreak analysis collaborator. It must be
// treated as unreliable; callers substitute the default verdict on error.
type AnalysisService interface {
	Analyze(ctx context.Context, batch []entities.JoinedRecord) (entities.AnalysisVerdict, error)
}

// SubmittedReport is the result of a report submission: the stored report
// plus the water figures that were effective for it.
type SubmittedReport struct {
	Report    entities.Report                `json:"report"`
	Effective entities.EffectiveWaterFigures `json:"effective_water_figures"`
}

// SurveillanceUseCase handles business logic for report and observation
// submissions, location correlation and outbreak analysis.
type SurveillanceUseCase struct {
	repo         repository.HealthRepository
	analysis     AnalysisService
	dispatcher   *AlertDispatcher
	metrics      *observability.Metrics
	historyLimit int
}

// NewSurveillanceUseCase creates a new surveillance use case
func NewSurveillanceUseCase(repo repository.HealthRepository, analysis AnalysisService, dispatcher *AlertDispatcher, metrics *observability.Metrics, historyLimit int) *SurveillanceUseCase {
	if historyLimit <= 0 {
		historyLimit = 500
	}
	return &SurveillanceUseCase{
		repo:         repo,
		analysis:     analysis,
		dispatcher:   dispatcher,
		metrics:      metrics,
		historyLimit: historyLimit,
	}
}

// SubmitReport validates and stores a health report, classifies it, then
// runs the outbreak analysis over the joined history. Analysis problems are
// logged and never fail the submission.
func (uc *SurveillanceUseCase) SubmitReport(ctx context.Context, report *entities.Report) (*SubmittedReport, error) {
	if err := validateReport(report); err != nil {
		return nil, err
	}

	disease, risk := Classify(report.Symptoms,
		floatOrZero(report.Turbidity),
		floatOrZero(report.PH),
		floatOrZero(report.BacteriaCount))
	report.DiseasePredicted = disease
	report.Risk = risk
	report.CreatedAt = clock.Now().UTC()

	if _, err := uc.repo.InsertReport(report); err != nil {
		return nil, fmt.Errorf("failed to save report: %v", err)
	}
	log.Printf("Stored report %d for %s: disease=%s risk=%s", report.ID, report.Location, disease, risk)
	uc.metrics.ReportsSubmitted.Inc()

	effective, err := uc.EffectiveFigures(report)
	if err != nil {
		// The report is already stored; correlation is advisory input only
		log.Printf("Warning: failed to correlate water figures for %s: %v", report.Location, err)
		effective = entities.DefaultWaterFigures()
	}

	if _, err := uc.RunAnalysis(ctx); err != nil {
		log.Printf("Warning: outbreak analysis after report %d failed: %v", report.ID, err)
	}

	return &SubmittedReport{Report: *report, Effective: effective}, nil
}

// SubmitObservation validates and stores a water-quality observation, then
// triggers contamination alerting.
func (uc *SurveillanceUseCase) SubmitObservation(ctx context.Context, obs *entities.WaterObservation) (*entities.WaterObservation, error) {
	if strings.TrimSpace(obs.Location) == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	if obs.ObservedAt.IsZero() {
		obs.ObservedAt = clock.Now().UTC()
	}

	if _, err := uc.repo.InsertObservation(obs); err != nil {
		return nil, fmt.Errorf("failed to save observation: %v", err)
	}
	log.Printf("Stored observation %d for %s: turbidity=%.1f ph=%.1f bacteria=%.0f",
		obs.ID, obs.Location, obs.Turbidity, obs.PH, obs.BacteriaCount)
	uc.metrics.ObservationsSubmitted.Inc()

	if err := uc.dispatcher.HandleNewObservation(obs); err != nil {
		return nil, err
	}

	return obs, nil
}

// MostRecentObservation returns the latest water observation for a location,
// or nil when the location has none.
func (uc *SurveillanceUseCase) MostRecentObservation(location string) (*entities.WaterObservation, error) {
	observations, err := uc.repo.ObservationsByLocationDesc(location)
	if err != nil {
		return nil, err
	}
	if len(observations) == 0 {
		return nil, nil
	}
	return &observations[0], nil
}

// EffectiveFigures resolves the water figures used for a report: each field
// comes from the report itself when supplied, else from the location's most
// recent observation, else from the defaults (0, 7, 0).
func (uc *SurveillanceUseCase) EffectiveFigures(report *entities.Report) (entities.EffectiveWaterFigures, error) {
	latest, err := uc.MostRecentObservation(report.Location)
	if err != nil {
		return entities.DefaultWaterFigures(), err
	}
	return joinFigures(report, latest), nil
}

// BuildJoinedHistory assembles the most recent reports joined with the
// latest observation per location, newest report first. The batch is freshly
// computed per call and bounded by the configured history limit.
func (uc *SurveillanceUseCase) BuildJoinedHistory() ([]entities.JoinedRecord, error) {
	reports, err := uc.repo.RecentReportsDesc(uc.historyLimit)
	if err != nil {
		return nil, err
	}

	observations, err := uc.repo.AllObservationsDesc()
	if err != nil {
		return nil, err
	}

	// Observations arrive newest first, so the first occurrence per
	// location is the most recent one. Never overwrite an existing key.
	latest := make(map[string]*entities.WaterObservation, len(observations))
	for i := range observations {
		obs := &observations[i]
		if _, ok := latest[obs.Location]; !ok {
			latest[obs.Location] = obs
		}
	}

	batch := make([]entities.JoinedRecord, 0, len(reports))
	for i := range reports {
		report := &reports[i]
		figures := joinFigures(report, latest[report.Location])
		batch = append(batch, entities.JoinedRecord{
			ReportID:      report.ID,
			Location:      report.Location,
			Symptoms:      report.Symptoms,
			Turbidity:     figures.Turbidity,
			PH:            figures.PH,
			BacteriaCount: figures.BacteriaCount,
			ReportTime:    report.CreatedAt,
		})
	}

	return batch, nil
}

// RunAnalysis assembles the joined history, calls the analysis service and
// dispatches any resulting outbreak alerts. When the service is unreachable
// or returns malformed data, the outcome carries the default verdict with
// the Degraded flag set.
func (uc *SurveillanceUseCase) RunAnalysis(ctx context.Context) (entities.AnalysisOutcome, error) {
	batch, err := uc.BuildJoinedHistory()
	if err != nil {
		return entities.AnalysisOutcome{}, fmt.Errorf("failed to build analysis batch: %v", err)
	}

	outcome := entities.AnalysisOutcome{}
	verdict, err := uc.analysis.Analyze(ctx, batch)
	if err != nil || verdict.OverallRisk == "" {
		if err != nil {
			log.Printf("Warning: outbreak analysis unavailable, using default verdict: %v", err)
		} else {
			log.Printf("Warning: outbreak analysis returned malformed verdict, using default")
		}
		outcome.Verdict = entities.DefaultVerdict()
		outcome.Degraded = true
		uc.metrics.AnalysisRequests.WithLabelValues("degraded").Inc()
	} else {
		if verdict.HighRiskLocations == nil {
			verdict.HighRiskLocations = []string{}
		}
		outcome.Verdict = verdict
		uc.metrics.AnalysisRequests.WithLabelValues("success").Inc()
	}

	if err := uc.dispatcher.HandleVerdict(outcome.Verdict); err != nil {
		return outcome, err
	}

	return outcome, nil
}

// ActiveAlerts returns the most recent active alerts
func (uc *SurveillanceUseCase) ActiveAlerts(limit int) ([]entities.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	return uc.repo.ActiveAlertsDesc(limit)
}

func validateReport(report *entities.Report) error {
	if report.Age <= 0 {
		return fmt.Errorf("%w: age must be a positive integer", ErrInvalidInput)
	}
	if strings.TrimSpace(report.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	if strings.TrimSpace(report.Symptoms) == "" {
		return fmt.Errorf("%w: symptoms are required", ErrInvalidInput)
	}
	return nil
}

// joinFigures merges a report's own figures with the location's latest
// observation, falling back to the defaults field by field.
func joinFigures(report *entities.Report, latest *entities.WaterObservation) entities.EffectiveWaterFigures {
	figures := entities.DefaultWaterFigures()
	if latest != nil {
		figures.Turbidity = latest.Turbidity
		figures.PH = latest.PH
		figures.BacteriaCount = latest.BacteriaCount
	}
	if report.Turbidity != nil {
		figures.Turbidity = *report.Turbidity
	}
	if report.PH != nil {
		figures.PH = *report.PH
	}
	if report.BacteriaCount != nil {
		figures.BacteriaCount = *report.BacteriaCount
	}
	return figures
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
