// Package repository provides data access implementations
package repository

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/abelzeko/health-watch/internal/entities"
	_ "github.com/mattn/go-sqlite3"
)

// HealthRepository defines the interface for surveillance data persistence operations
type HealthRepository interface {
	InsertReport(report *entities.Report) (int64, error)
	InsertObservation(obs *entities.WaterObservation) (int64, error)
	InsertAlert(alert *entities.Alert) (int64, error)
	ObservationsByLocationDesc(location string) ([]entities.WaterObservation, error)
	AllObservationsDesc() ([]entities.WaterObservation, error)
	RecentReportsDesc(limit int) ([]entities.Report, error)
	ActiveAlertsDesc(limit int) ([]entities.Alert, error)
	ActiveAlertExists(alertType, location string) (bool, error)
	ResolveAlertsBefore(cutoff time.Time) (int64, error)
	Close() error
}

// SQLiteHealthRepository implements HealthRepository using SQLite
type SQLiteHealthRepository struct {
	db     *sql.DB
	DBPath string
}

// NewSQLiteHealthRepository creates and initializes a new SQLite repository
func NewSQLiteHealthRepository(dbPath string) (*SQLiteHealthRepository, error) {
	if dbPath == "" {
		// Set default path if not specified
		dbDir := "data"
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %v", err)
		}
		dbPath = filepath.Join(dbDir, "healthwatch.db")
	}

	log.Printf("Opening database at %s", dbPath)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		age INTEGER NOT NULL,
		location TEXT NOT NULL,
		symptoms TEXT NOT NULL,
		contact TEXT,
		turbidity REAL,
		ph REAL,
		bacteria_count REAL,
		disease_predicted TEXT NOT NULL,
		risk TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at);
	CREATE TABLE IF NOT EXISTS water_observations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		location TEXT NOT NULL,
		turbidity REAL NOT NULL,
		ph REAL NOT NULL,
		bacteria_count REAL NOT NULL,
		observed_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_observations_location ON water_observations(location);
	CREATE INDEX IF NOT EXISTS idx_observations_observed ON water_observations(observed_at);
	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		location TEXT NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Active',
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
	CREATE INDEX IF NOT EXISTS idx_alerts_type_location ON alerts(type, location);`

	_, err = db.Exec(createTableSQL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	return &SQLiteHealthRepository{
		db:     db,
		DBPath: dbPath,
	}, nil
}

// Close closes the database connection
func (r *SQLiteHealthRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertReport stores a health report and returns its assigned id
func (r *SQLiteHealthRepository) InsertReport(report *entities.Report) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO reports(name, age, location, symptoms, contact, turbidity, ph, bacteria_count, disease_predicted, risk, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.Name,
		report.Age,
		report.Location,
		report.Symptoms,
		report.Contact,
		nullFloat(report.Turbidity),
		nullFloat(report.PH),
		nullFloat(report.BacteriaCount),
		report.DiseasePredicted,
		report.Risk,
		report.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert report for %s: %v", report.Location, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get report id: %v", err)
	}
	report.ID = id
	return id, nil
}

// InsertObservation stores a water-quality observation and returns its assigned id
func (r *SQLiteHealthRepository) InsertObservation(obs *entities.WaterObservation) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO water_observations(location, turbidity, ph, bacteria_count, observed_at)
		VALUES(?, ?, ?, ?, ?)`,
		obs.Location,
		obs.Turbidity,
		obs.PH,
		obs.BacteriaCount,
		obs.ObservedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert observation for %s: %v", obs.Location, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get observation id: %v", err)
	}
	obs.ID = id
	return id, nil
}

// InsertAlert stores an alert and returns its assigned id
func (r *SQLiteHealthRepository) InsertAlert(alert *entities.Alert) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO alerts(type, location, severity, message, status, created_at)
		VALUES(?, ?, ?, ?, ?, ?)`,
		alert.Type,
		alert.Location,
		alert.Severity,
		alert.Message,
		alert.Status,
		alert.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert alert %s/%s: %v", alert.Type, alert.Location, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get alert id: %v", err)
	}
	alert.ID = id
	return id, nil
}

// ObservationsByLocationDesc retrieves all observations for a location,
// most recent first
func (r *SQLiteHealthRepository) ObservationsByLocationDesc(location string) ([]entities.WaterObservation, error) {
	rows, err := r.db.Query(`
		SELECT id, location, turbidity, ph, bacteria_count, observed_at
		FROM water_observations
		WHERE location = ?
		ORDER BY observed_at DESC`, location)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations for %s: %v", location, err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// AllObservationsDesc retrieves all observations, most recent first
func (r *SQLiteHealthRepository) AllObservationsDesc() ([]entities.WaterObservation, error) {
	rows, err := r.db.Query(`
		SELECT id, location, turbidity, ph, bacteria_count, observed_at
		FROM water_observations
		ORDER BY observed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %v", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// RecentReportsDesc retrieves the most recent reports, newest first
func (r *SQLiteHealthRepository) RecentReportsDesc(limit int) ([]entities.Report, error) {
	rows, err := r.db.Query(`
		SELECT id, name, age, location, symptoms, contact, turbidity, ph, bacteria_count, disease_predicted, risk, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent reports: %v", err)
	}
	defer rows.Close()

	var result []entities.Report
	for rows.Next() {
		var rep entities.Report
		var name, contact sql.NullString
		var turbidity, ph, bacteria sql.NullFloat64
		if err := rows.Scan(
			&rep.ID,
			&name,
			&rep.Age,
			&rep.Location,
			&rep.Symptoms,
			&contact,
			&turbidity,
			&ph,
			&bacteria,
			&rep.DiseasePredicted,
			&rep.Risk,
			&rep.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %v", err)
		}
		rep.Name = name.String
		rep.Contact = contact.String
		rep.Turbidity = floatPtr(turbidity)
		rep.PH = floatPtr(ph)
		rep.BacteriaCount = floatPtr(bacteria)
		result = append(result, rep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %v", err)
	}

	return result, nil
}

// ActiveAlertsDesc retrieves active alerts, most recent first
func (r *SQLiteHealthRepository) ActiveAlertsDesc(limit int) ([]entities.Alert, error) {
	rows, err := r.db.Query(`
		SELECT id, type, location, severity, message, status, created_at
		FROM alerts
		WHERE status = ?
		ORDER BY created_at DESC
		LIMIT ?`, entities.AlertStatusActive, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query active alerts: %v", err)
	}
	defer rows.Close()

	var result []entities.Alert
	for rows.Next() {
		var a entities.Alert
		if err := rows.Scan(
			&a.ID,
			&a.Type,
			&a.Location,
			&a.Severity,
			&a.Message,
			&a.Status,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %v", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %v", err)
	}

	return result, nil
}

// ActiveAlertExists reports whether an active alert with the given type and
// location is already stored. Used for duplicate suppression before insert.
func (r *SQLiteHealthRepository) ActiveAlertExists(alertType, location string) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM alerts
		WHERE type = ? AND location = ? AND status = ?`,
		alertType, location, entities.AlertStatusActive).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check active alert %s/%s: %v", alertType, location, err)
	}
	return count > 0, nil
}

// ResolveAlertsBefore marks active alerts created before the cutoff as
// resolved and returns the number of alerts updated
func (r *SQLiteHealthRepository) ResolveAlertsBefore(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`
		UPDATE alerts SET status = ?
		WHERE status = ? AND created_at < ?`,
		entities.AlertStatusResolved, entities.AlertStatusActive, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve expired alerts: %v", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %v", err)
	}
	return n, nil
}

func scanObservations(rows *sql.Rows) ([]entities.WaterObservation, error) {
	var result []entities.WaterObservation
	for rows.Next() {
		var obs entities.WaterObservation
		if err := rows.Scan(
			&obs.ID,
			&obs.Location,
			&obs.Turbidity,
			&obs.PH,
			&obs.BacteriaCount,
			&obs.ObservedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan observation row: %v", err)
		}
		result = append(result, obs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %v", err)
	}

	return result, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
