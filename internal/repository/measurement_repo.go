package repository

import (
	"database/sql"
	"fmt"
	"time"

	"growthcheck/internal/database"
	"growthcheck/internal/growth"
	"growthcheck/internal/models"
)

// MeasurementRepository handles database operations for growth measurements
type MeasurementRepository struct {
	db database.DBTX
}

// NewMeasurementRepository creates a new measurement repository
func NewMeasurementRepository(db database.DBTX) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

const measurementColumns = "id, child_id, observed_at, age_months, weight_kg, height_cm, head_circumference_cm, created_at, updated_at"

// Save inserts a measurement or fully replaces the one with the same ID
func (r *MeasurementRepository) Save(m *models.GrowthMeasurement) error {
	m.UpdatedAt = time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = m.UpdatedAt
	}

	query := r.db.GetDialect().UpsertQuery("growth_measurements", "id", []string{
		"id", "child_id", "observed_at", "age_months",
		"weight_kg", "height_cm", "head_circumference_cm", "updated_at",
	})
	_, err := r.db.Exec(query,
		m.ID,
		m.ChildID,
		m.Date.UTC(),
		m.AgeMonths,
		nullFloat(m.Weight),
		nullFloat(m.Height),
		nullFloat(m.HeadCircumference),
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save measurement: %w", err)
	}
	return nil
}

// Get retrieves a measurement by ID
func (r *MeasurementRepository) Get(id string) (*models.GrowthMeasurement, error) {
	query := "SELECT " + measurementColumns + " FROM growth_measurements WHERE id = ?"
	m := &models.GrowthMeasurement{}
	err := scanMeasurement(r.db.QueryRow(query, id), m)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get measurement: %w", err)
	}

	return m, nil
}

// List retrieves a child's measurements in observation order, or every
// measurement when childID is empty
func (r *MeasurementRepository) List(childID string) ([]models.GrowthMeasurement, error) {
	query := "SELECT " + measurementColumns + " FROM growth_measurements"
	var args []interface{}
	if childID != "" {
		query += " WHERE child_id = ?"
		args = append(args, childID)
	}
	query += " ORDER BY observed_at ASC, id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query measurements: %w", err)
	}
	defer rows.Close()

	var measurements []models.GrowthMeasurement
	for rows.Next() {
		var m models.GrowthMeasurement
		if err := scanMeasurement(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		measurements = append(measurements, m)
	}

	return measurements, rows.Err()
}

// Delete removes a measurement by ID
func (r *MeasurementRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM growth_measurements WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete measurement: %w", err)
	}
	return nil
}

// DeleteByChild removes every measurement of a child
func (r *MeasurementRepository) DeleteByChild(childID string) error {
	_, err := r.db.Exec("DELETE FROM growth_measurements WHERE child_id = ?", childID)
	if err != nil {
		return fmt.Errorf("failed to delete measurements: %w", err)
	}
	return nil
}

func scanMeasurement(row rowScanner, m *models.GrowthMeasurement) error {
	var weight, height, head sql.NullFloat64
	if err := row.Scan(
		&m.ID,
		&m.ChildID,
		&m.Date,
		&m.AgeMonths,
		&weight,
		&height,
		&head,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return err
	}
	m.Weight = floatPtr(weight)
	m.Height = floatPtr(height)
	m.HeadCircumference = floatPtr(head)
	return nil
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

// growthSex maps a stored sex column back to the engine type
func growthSex(s string) growth.Sex {
	sex, err := growth.ParseSex(s)
	if err != nil {
		return growth.Sex(s)
	}
	return sex
}
