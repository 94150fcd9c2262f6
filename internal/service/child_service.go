package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"growthcheck/internal/growth"
	"growthcheck/internal/models"
	"growthcheck/internal/validation"
)

// ErrChildNotFound is returned for unknown children and for children owned by
// another caregiver
var ErrChildNotFound = errors.New("child not found")

// ChildInput carries the editable fields of a child profile
type ChildInput struct {
	Name      string
	Sex       string
	BirthDate time.Time
}

// ChildService manages child profiles scoped to their caregiver
type ChildService struct {
	children     ChildStore
	measurements MeasurementStore
	now          func() time.Time
}

// NewChildService creates a new child service
func NewChildService(children ChildStore, measurements MeasurementStore) *ChildService {
	return &ChildService{
		children:     children,
		measurements: measurements,
		now:          time.Now,
	}
}

// Create adds a child profile for the caregiver
func (s *ChildService) Create(caregiverID int64, input ChildInput) (*models.Child, error) {
	child := &models.Child{
		ID:          uuid.NewString(),
		CaregiverID: caregiverID,
	}
	if err := s.apply(child, input); err != nil {
		return nil, err
	}

	if err := s.children.Save(child); err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}
	return child, nil
}

// Update replaces a child's profile. Ages of stored measurements are
// re-derived when the birth date changes.
func (s *ChildService) Update(caregiverID int64, id string, input ChildInput) (*models.Child, error) {
	child, err := s.Get(caregiverID, id)
	if err != nil {
		return nil, err
	}

	previousBirth := child.BirthDate
	if err := s.apply(child, input); err != nil {
		return nil, err
	}

	if err := s.children.Save(child); err != nil {
		return nil, fmt.Errorf("failed to update child: %w", err)
	}

	if !child.BirthDate.Equal(previousBirth) {
		if err := s.rederiveAges(child); err != nil {
			return nil, err
		}
	}
	return child, nil
}

// Get returns a child owned by the caregiver
func (s *ChildService) Get(caregiverID int64, id string) (*models.Child, error) {
	child, err := s.children.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	if child == nil || child.CaregiverID != caregiverID {
		return nil, ErrChildNotFound
	}
	return child, nil
}

// List returns the caregiver's children
func (s *ChildService) List(caregiverID int64) ([]models.Child, error) {
	children, err := s.children.ListByCaregiver(caregiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	if children == nil {
		children = []models.Child{}
	}
	return children, nil
}

// Delete removes a child and all of their measurements
func (s *ChildService) Delete(caregiverID int64, id string) error {
	if _, err := s.Get(caregiverID, id); err != nil {
		return err
	}

	if err := s.measurements.DeleteByChild(id); err != nil {
		return fmt.Errorf("failed to delete measurements: %w", err)
	}
	if err := s.children.Delete(id); err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	return nil
}

func (s *ChildService) apply(child *models.Child, input ChildInput) error {
	name := strings.TrimSpace(input.Name)
	if err := validation.ValidateName(name); err != nil {
		return err
	}
	sex, err := growth.ParseSex(input.Sex)
	if err != nil {
		return validation.ValidationError{Field: "sex", Message: "sex must be male or female"}
	}
	birth := dateOnly(input.BirthDate)
	if err := validation.ValidateBirthDate(birth, s.now()); err != nil {
		return err
	}

	child.Name = name
	child.Sex = sex
	child.BirthDate = birth
	child.UpdatedAt = s.now().UTC()
	if child.CreatedAt.IsZero() {
		child.CreatedAt = child.UpdatedAt
	}
	return nil
}

func (s *ChildService) rederiveAges(child *models.Child) error {
	measurements, err := s.measurements.List(child.ID)
	if err != nil {
		return fmt.Errorf("failed to list measurements: %w", err)
	}
	for i := range measurements {
		m := &measurements[i]
		m.AgeMonths = child.AgeInMonthsAt(m.Date)
		if err := s.measurements.Save(m); err != nil {
			return fmt.Errorf("failed to update measurement age: %w", err)
		}
	}
	return nil
}

// dateOnly truncates a timestamp to its UTC calendar day
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
