package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"growthcheck/internal/growth"
	"growthcheck/internal/models"
	"growthcheck/internal/validation"
)

// ErrMeasurementNotFound is returned for unknown measurements and for
// measurements belonging to another child
var ErrMeasurementNotFound = errors.New("measurement not found")

// MeasurementInput is a caregiver-entered growth check. An empty ID records a
// new measurement; a known ID replaces that measurement.
type MeasurementInput struct {
	ID                string
	ChildID           string
	Date              time.Time
	Weight            *float64
	Height            *float64
	HeadCircumference *float64
}

// Notifier delivers screening alerts. The caregiver is nil when accounts are
// not available, as with the on-device store.
type Notifier interface {
	NotifyScreening(ctx context.Context, caregiver *models.Caregiver, alert models.ScreeningAlert) error
}

// GrowthService records measurements and scores them against the reference tables
type GrowthService struct {
	children     *ChildService
	measurements MeasurementStore
	caregivers   CaregiverStore
	notifiers    []Notifier
	now          func() time.Time
}

// NewGrowthService creates a new growth service. caregivers may be nil.
func NewGrowthService(children *ChildService, measurements MeasurementStore, caregivers CaregiverStore, notifiers ...Notifier) *GrowthService {
	return &GrowthService{
		children:     children,
		measurements: measurements,
		caregivers:   caregivers,
		notifiers:    notifiers,
		now:          time.Now,
	}
}

// RecordMeasurement validates and stores a measurement, then assesses every
// present reading. Concern or severe results raise a screening alert; failed
// deliveries are logged and do not fail the save.
func (s *GrowthService) RecordMeasurement(ctx context.Context, caregiverID int64, input MeasurementInput) (*models.MeasurementWithAssessments, error) {
	child, err := s.children.Get(caregiverID, input.ChildID)
	if err != nil {
		return nil, err
	}

	m := &models.GrowthMeasurement{
		ID:                input.ID,
		ChildID:           child.ID,
		Date:              dateOnly(input.Date),
		Weight:            input.Weight,
		Height:            input.Height,
		HeadCircumference: input.HeadCircumference,
	}
	if err := validation.ValidateObservationDate(child.BirthDate, m.Date, s.now()); err != nil {
		return nil, err
	}
	if err := validation.ValidateMeasurement(*m); err != nil {
		return nil, err
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	} else {
		existing, err := s.measurements.Get(m.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get measurement: %w", err)
		}
		if existing != nil {
			if existing.ChildID != child.ID {
				return nil, ErrMeasurementNotFound
			}
			m.CreatedAt = existing.CreatedAt
		}
	}
	m.AgeMonths = child.AgeInMonthsAt(m.Date)
	m.UpdatedAt = s.now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = m.UpdatedAt
	}

	if err := s.measurements.Save(m); err != nil {
		return nil, fmt.Errorf("failed to save measurement: %w", err)
	}

	assessments, err := s.Assess(*child, *m)
	if err != nil {
		return nil, err
	}
	result := &models.MeasurementWithAssessments{Measurement: *m, Assessments: assessments}

	if flagged := result.Flagged(); len(flagged) > 0 {
		s.raiseAlert(ctx, child, m, flagged)
	}
	return result, nil
}

// Assess scores every present reading of a measurement for the child
func (s *GrowthService) Assess(child models.Child, m models.GrowthMeasurement) ([]models.Assessment, error) {
	assessments := make([]models.Assessment, 0, 3)
	for _, reading := range m.Readings() {
		result, err := growth.CalculateZScore(reading.Value, m.AgeMonths, child.Sex, reading.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", reading.Type, err)
		}
		median, err := growth.MedianForAge(m.AgeMonths, child.Sex, reading.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to look up %s median: %w", reading.Type, err)
		}

		assessments = append(assessments, models.Assessment{
			Type:   reading.Type,
			Value:  reading.Value,
			Unit:   reading.Type.Unit(),
			Median: roundTo(median, 2),
			Result: result,
		})
	}
	return assessments, nil
}

// ListMeasurements returns a child's measurements with their assessments
func (s *GrowthService) ListMeasurements(caregiverID int64, childID string) ([]models.MeasurementWithAssessments, error) {
	child, err := s.children.Get(caregiverID, childID)
	if err != nil {
		return nil, err
	}

	measurements, err := s.measurements.List(child.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}

	out := make([]models.MeasurementWithAssessments, 0, len(measurements))
	for _, m := range measurements {
		assessments, err := s.Assess(*child, m)
		if err != nil {
			return nil, err
		}
		out = append(out, models.MeasurementWithAssessments{Measurement: m, Assessments: assessments})
	}
	return out, nil
}

// DeleteMeasurement removes one of a child's measurements
func (s *GrowthService) DeleteMeasurement(caregiverID int64, childID, measurementID string) error {
	child, err := s.children.Get(caregiverID, childID)
	if err != nil {
		return err
	}

	m, err := s.measurements.Get(measurementID)
	if err != nil {
		return fmt.Errorf("failed to get measurement: %w", err)
	}
	if m == nil || m.ChildID != child.ID {
		return ErrMeasurementNotFound
	}

	if err := s.measurements.Delete(measurementID); err != nil {
		return fmt.Errorf("failed to delete measurement: %w", err)
	}
	return nil
}

// GrowthChart returns the reference curve for the child's sex alongside the
// child's own readings of the given type
func (s *GrowthService) GrowthChart(caregiverID int64, childID string, typ growth.MeasurementType, offsets ...float64) (*models.GrowthChart, error) {
	child, err := s.children.Get(caregiverID, childID)
	if err != nil {
		return nil, err
	}

	curve, err := growth.PercentileCurve(child.Sex, typ, offsets...)
	if err != nil {
		return nil, err
	}

	measurements, err := s.measurements.List(child.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}

	points := []models.ChartPoint{}
	for _, m := range measurements {
		value, ok := m.Reading(typ)
		if !ok {
			continue
		}
		result, err := growth.CalculateZScore(value, m.AgeMonths, child.Sex, typ)
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", typ, err)
		}
		points = append(points, models.ChartPoint{AgeMonths: m.AgeMonths, Value: value, Result: result})
	}

	return &models.GrowthChart{
		ChildID: child.ID,
		Sex:     child.Sex,
		Type:    typ,
		Unit:    typ.Unit(),
		Curve:   curve,
		Points:  points,
	}, nil
}

func (s *GrowthService) raiseAlert(ctx context.Context, child *models.Child, m *models.GrowthMeasurement, flagged []models.Assessment) {
	alert := models.ScreeningAlert{
		ChildID:       child.ID,
		ChildName:     child.Name,
		CaregiverID:   child.CaregiverID,
		MeasurementID: m.ID,
		ObservedAt:    m.Date,
		AgeMonths:     m.AgeMonths,
		Flagged:       flagged,
		RaisedAt:      s.now().UTC(),
	}
	log.Printf("Screening alert: child=%s measurement=%s flagged=%d", child.ID, m.ID, len(flagged))

	var caregiver *models.Caregiver
	if s.caregivers != nil {
		c, err := s.caregivers.GetCaregiverByID(child.CaregiverID)
		if err != nil {
			log.Printf("Failed to look up caregiver %d for screening alert: %v", child.CaregiverID, err)
		}
		caregiver = c
	}

	for _, n := range s.notifiers {
		if err := n.NotifyScreening(ctx, caregiver, alert); err != nil {
			log.Printf("Failed to deliver screening alert for child %s: %v", child.ID, err)
		}
	}
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
