package usecases

import (
	"fmt"
	"log"
	"time"

	"github.com/abelzeko/health-watch/internal/entities"
	"github.com/abelzeko/health-watch/internal/observability"
	"github.com/abelzeko/health-watch/internal/repository"
)

// Notifier sends a best-effort outbound notification for an alert.
type Notifier interface {
	Notify(message string) error
}

// AlertDispatcher converts triggering events into persisted alerts. It
// suppresses duplicates against the active alert set per (type, location)
// and resolves alerts older than the TTL before each check.
type AlertDispatcher struct {
	repo     repository.HealthRepository
	notifier Notifier // nil when notification is not configured
	metrics  *observability.Metrics
	alertTTL time.Duration
}

// NewAlertDispatcher creates a new alert dispatcher
func NewAlertDispatcher(repo repository.HealthRepository, notifier Notifier, metrics *observability.Metrics, alertTTL time.Duration) *AlertDispatcher {
	return &AlertDispatcher{
		repo:     repo,
		notifier: notifier,
		metrics:  metrics,
		alertTTL: alertTTL,
	}
}

// SetNotifier wires the outbound notifier after construction. The Telegram
// bot itself depends on the use case, so it cannot exist yet when the
// dispatcher is built.
func (d *AlertDispatcher) SetNotifier(n Notifier) {
	d.notifier = n
}

// HandleNewObservation emits at most one WaterContamination alert for a
// freshly stored observation that crosses the contamination thresholds.
func (d *AlertDispatcher) HandleNewObservation(obs *entities.WaterObservation) error {
	if !waterContaminated(obs.Turbidity, obs.BacteriaCount) {
		return nil
	}

	message := fmt.Sprintf("Water contamination detected at %s: turbidity %.1f NTU, bacteria count %.0f CFU/100ml",
		obs.Location, obs.Turbidity, obs.BacteriaCount)
	return d.raise(entities.AlertWaterContamination, obs.Location, message, true)
}

// HandleVerdict emits outbreak alerts derived from the aggregate analysis
// verdict: one batch-wide OutbreakWarning when overall risk is High, plus
// one LocalOutbreakRisk alert per flagged location.
func (d *AlertDispatcher) HandleVerdict(verdict entities.AnalysisVerdict) error {
	if verdict.OverallRisk == entities.RiskHigh {
		message := fmt.Sprintf("Outbreak warning: analysis of %d recent reports indicates high overall risk", verdict.TotalReports)
		if err := d.raise(entities.AlertOutbreakWarning, entities.LocationMultiple, message, true); err != nil {
			return err
		}
	}

	for _, location := range verdict.HighRiskLocations {
		message := fmt.Sprintf("Elevated outbreak risk at %s based on recent report patterns", location)
		if err := d.raise(entities.AlertLocalOutbreakRisk, location, message, false); err != nil {
			return err
		}
	}

	return nil
}

// raise persists a new alert unless an active alert with the same type and
// location already exists. Notification failures never roll back the insert.
func (d *AlertDispatcher) raise(alertType, location, message string, notify bool) error {
	// Expire stale alerts first so the dedup check only sees recent ones.
	// Best effort: a failed sweep must not block alerting.
	cutoff := clock.Now().UTC().Add(-d.alertTTL)
	if n, err := d.repo.ResolveAlertsBefore(cutoff); err != nil {
		log.Printf("Warning: failed to resolve expired alerts: %v", err)
	} else if n > 0 {
		log.Printf("Auto-resolved %d alerts older than %s", n, d.alertTTL)
	}

	exists, err := d.repo.ActiveAlertExists(alertType, location)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate alert: %v", err)
	}
	if exists {
		log.Printf("Suppressing duplicate %s alert for %s", alertType, location)
		d.metrics.AlertsSuppressed.WithLabelValues(alertType).Inc()
		return nil
	}

	alert := &entities.Alert{
		Type:      alertType,
		Location:  location,
		Severity:  entities.RiskHigh,
		Message:   message,
		Status:    entities.AlertStatusActive,
		CreatedAt: clock.Now().UTC(),
	}
	if _, err := d.repo.InsertAlert(alert); err != nil {
		return fmt.Errorf("failed to persist %s alert for %s: %v", alertType, location, err)
	}
	log.Printf("Created %s alert for %s", alertType, location)
	d.metrics.AlertsCreated.WithLabelValues(alertType).Inc()

	if notify && d.notifier != nil {
		if err := d.notifier.Notify(message); err != nil {
			log.Printf("Warning: failed to send alert notification: %v", err)
			d.metrics.Notifications.WithLabelValues("failed").Inc()
		} else {
			d.metrics.Notifications.WithLabelValues("sent").Inc()
		}
	}

	return nil
}
