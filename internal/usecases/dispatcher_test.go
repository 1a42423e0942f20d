package usecases

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelzeko/health-watch/internal/entities"
	"github.com/abelzeko/health-watch/internal/observability"
)

func setupDispatcher(t *testing.T) (*AlertDispatcher, *fakeRepo, *fakeNotifier, *clockwork.FakeClock) {
	t.Helper()
	fc := clockwork.NewFakeClockAt(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	SetClock(fc)
	t.Cleanup(func() { SetClock(nil) })

	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	d := NewAlertDispatcher(repo, notifier, observability.NewMetricsForTesting(), 24*time.Hour)
	return d, repo, notifier, fc
}

func TestHandleNewObservation_BelowThresholds(t *testing.T) {
	d, repo, notifier, _ := setupDispatcher(t)

	err := d.HandleNewObservation(&entities.WaterObservation{
		Location: "Riverside", Turbidity: 5, PH: 7.2, BacteriaCount: 40,
	})
	require.NoError(t, err)
	assert.Empty(t, repo.alerts)
	assert.Empty(t, notifier.messages)
}

func TestHandleNewObservation_Contaminated(t *testing.T) {
	d, repo, notifier, _ := setupDispatcher(t)

	err := d.HandleNewObservation(&entities.WaterObservation{
		Location: "Riverside", Turbidity: 35, PH: 6.5, BacteriaCount: 10,
	})
	require.NoError(t, err)

	require.Len(t, repo.alerts, 1)
	alert := repo.alerts[0]
	assert.Equal(t, entities.AlertWaterContamination, alert.Type)
	assert.Equal(t, "Riverside", alert.Location)
	assert.Equal(t, entities.RiskHigh, alert.Severity)
	assert.Equal(t, entities.AlertStatusActive, alert.Status)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Riverside")
}

func TestHandleNewObservation_DuplicateSuppressed(t *testing.T) {
	d, repo, _, _ := setupDispatcher(t)

	obs := &entities.WaterObservation{Location: "Riverside", Turbidity: 35, PH: 6.5, BacteriaCount: 200}
	require.NoError(t, d.HandleNewObservation(obs))
	require.NoError(t, d.HandleNewObservation(obs))

	active, err := repo.ActiveAlertsDesc(10)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestHandleNewObservation_ExpiredAlertResolvedThenReraised(t *testing.T) {
	d, repo, _, fc := setupDispatcher(t)

	obs := &entities.WaterObservation{Location: "Riverside", Turbidity: 35, PH: 6.5, BacteriaCount: 200}
	require.NoError(t, d.HandleNewObservation(obs))

	// Past the TTL the original alert is auto-resolved and a new one is allowed
	fc.Advance(25 * time.Hour)
	require.NoError(t, d.HandleNewObservation(obs))

	require.Len(t, repo.alerts, 2)
	assert.Equal(t, entities.AlertStatusResolved, repo.alerts[0].Status)
	assert.Equal(t, entities.AlertStatusActive, repo.alerts[1].Status)
}

func TestHandleVerdict_HighOverallRisk(t *testing.T) {
	d, repo, notifier, _ := setupDispatcher(t)

	err := d.HandleVerdict(entities.AnalysisVerdict{
		TotalReports:      12,
		OverallRisk:       entities.RiskHigh,
		HighRiskLocations: []string{"Hillview", "Riverside"},
	})
	require.NoError(t, err)

	require.Len(t, repo.alerts, 3)
	assert.Equal(t, entities.AlertOutbreakWarning, repo.alerts[0].Type)
	assert.Equal(t, entities.LocationMultiple, repo.alerts[0].Location)
	assert.Equal(t, entities.AlertLocalOutbreakRisk, repo.alerts[1].Type)
	assert.Equal(t, "Hillview", repo.alerts[1].Location)
	assert.Equal(t, entities.AlertLocalOutbreakRisk, repo.alerts[2].Type)
	assert.Equal(t, "Riverside", repo.alerts[2].Location)

	// Only the batch-wide warning notifies, local risk alerts do not
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Outbreak warning")
}

func TestHandleVerdict_LowRiskNoAlerts(t *testing.T) {
	d, repo, _, _ := setupDispatcher(t)

	err := d.HandleVerdict(entities.DefaultVerdict())
	require.NoError(t, err)
	assert.Empty(t, repo.alerts)
}

func TestHandleVerdict_LocalRiskWithoutOverallHigh(t *testing.T) {
	d, repo, _, _ := setupDispatcher(t)

	err := d.HandleVerdict(entities.AnalysisVerdict{
		OverallRisk:       entities.RiskMedium,
		HighRiskLocations: []string{"Hillview"},
	})
	require.NoError(t, err)

	require.Len(t, repo.alerts, 1)
	assert.Equal(t, entities.AlertLocalOutbreakRisk, repo.alerts[0].Type)
}

func TestRaise_NotificationFailureDoesNotFailAlert(t *testing.T) {
	d, repo, notifier, _ := setupDispatcher(t)
	notifier.fail = true

	err := d.HandleNewObservation(&entities.WaterObservation{
		Location: "Riverside", Turbidity: 35, PH: 6.5, BacteriaCount: 200,
	})
	require.NoError(t, err)
	assert.Len(t, repo.alerts, 1)
}

func TestRaise_NoNotifierConfigured(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	SetClock(fc)
	t.Cleanup(func() { SetClock(nil) })

	repo := newFakeRepo()
	d := NewAlertDispatcher(repo, nil, observability.NewMetricsForTesting(), 24*time.Hour)

	err := d.HandleNewObservation(&entities.WaterObservation{
		Location: "Riverside", Turbidity: 35, PH: 6.5, BacteriaCount: 200,
	})
	require.NoError(t, err)
	assert.Len(t, repo.alerts, 1)
}

func TestRaise_InsertFailureSurfaced(t *testing.T) {
	d, repo, _, _ := setupDispatcher(t)
	repo.failAlertInsert = true

	err := d.HandleNewObservation(&entities.WaterObservation{
		Location: "Riverside", Turbidity: 35, PH: 6.5, BacteriaCount: 200,
	})
	assert.Error(t, err)
}
