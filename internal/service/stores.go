package service

import (
	"growthcheck/internal/models"
)

// CaregiverStore persists caregiver accounts
type CaregiverStore interface {
	CreateCaregiver(email, passwordHash, name string) (*models.Caregiver, error)
	GetCaregiverByEmail(email string) (*models.Caregiver, error)
	GetCaregiverByID(id int64) (*models.Caregiver, error)
}

// ChildStore persists child profiles. Get returns nil, nil for unknown IDs.
// Both the SQL repository and the on-device store satisfy it.
type ChildStore interface {
	Save(child *models.Child) error
	Get(id string) (*models.Child, error)
	ListByCaregiver(caregiverID int64) ([]models.Child, error)
	ListAll() ([]models.Child, error)
	Delete(id string) error
}

// MeasurementStore persists growth measurements. List orders by observation
// date and returns everything when childID is empty.
type MeasurementStore interface {
	Save(m *models.GrowthMeasurement) error
	Get(id string) (*models.GrowthMeasurement, error)
	List(childID string) ([]models.GrowthMeasurement, error)
	Delete(id string) error
	DeleteByChild(childID string) error
}
