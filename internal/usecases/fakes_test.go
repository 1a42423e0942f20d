package usecases

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/abelzeko/health-watch/internal/entities"
)

// fakeRepo is an in-memory HealthRepository for use case tests.
type fakeRepo struct {
	reports      []entities.Report
	observations []entities.WaterObservation
	alerts       []entities.Alert
	nextID       int64

	failAlertInsert bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1}
}

func (f *fakeRepo) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeRepo) InsertReport(report *entities.Report) (int64, error) {
	report.ID = f.id()
	f.reports = append(f.reports, *report)
	return report.ID, nil
}

func (f *fakeRepo) InsertObservation(obs *entities.WaterObservation) (int64, error) {
	obs.ID = f.id()
	f.observations = append(f.observations, *obs)
	return obs.ID, nil
}

func (f *fakeRepo) InsertAlert(alert *entities.Alert) (int64, error) {
	if f.failAlertInsert {
		return 0, errors.New("insert failed")
	}
	alert.ID = f.id()
	f.alerts = append(f.alerts, *alert)
	return alert.ID, nil
}

func (f *fakeRepo) ObservationsByLocationDesc(location string) ([]entities.WaterObservation, error) {
	var result []entities.WaterObservation
	for _, obs := range f.observations {
		if obs.Location == location {
			result = append(result, obs)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ObservedAt.After(result[j].ObservedAt)
	})
	return result, nil
}

func (f *fakeRepo) AllObservationsDesc() ([]entities.WaterObservation, error) {
	result := append([]entities.WaterObservation(nil), f.observations...)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ObservedAt.After(result[j].ObservedAt)
	})
	return result, nil
}

func (f *fakeRepo) RecentReportsDesc(limit int) ([]entities.Report, error) {
	result := append([]entities.Report(nil), f.reports...)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeRepo) ActiveAlertsDesc(limit int) ([]entities.Alert, error) {
	var result []entities.Alert
	for _, a := range f.alerts {
		if a.Status == entities.AlertStatusActive {
			result = append(result, a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeRepo) ActiveAlertExists(alertType, location string) (bool, error) {
	for _, a := range f.alerts {
		if a.Type == alertType && a.Location == location && a.Status == entities.AlertStatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ResolveAlertsBefore(cutoff time.Time) (int64, error) {
	var n int64
	for i := range f.alerts {
		if f.alerts[i].Status == entities.AlertStatusActive && f.alerts[i].CreatedAt.Before(cutoff) {
			f.alerts[i].Status = entities.AlertStatusResolved
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) Close() error { return nil }

// fakeAnalysis is a canned AnalysisService.
type fakeAnalysis struct {
	verdict entities.AnalysisVerdict
	err     error

	lastBatch []entities.JoinedRecord
	calls     int
}

func (f *fakeAnalysis) Analyze(_ context.Context, batch []entities.JoinedRecord) (entities.AnalysisVerdict, error) {
	f.calls++
	f.lastBatch = batch
	return f.verdict, f.err
}

// fakeNotifier records notification messages.
type fakeNotifier struct {
	messages []string
	fail     bool
}

func (f *fakeNotifier) Notify(message string) error {
	if f.fail {
		return errors.New("notify failed")
	}
	f.messages = append(f.messages, message)
	return nil
}
