package storage

import (
	"sort"

	"growthcheck/internal/models"
)

// Logical store names on the device
const (
	ChildrenStore     = "children"
	MeasurementsStore = "growth_measurements"
)

// MeasurementStore keeps growth measurements on the device
type MeasurementStore struct {
	store *Store[models.GrowthMeasurement]
}

// NewMeasurementStore opens the measurement collection under dir
func NewMeasurementStore(dir string) (*MeasurementStore, error) {
	store, err := NewStore[models.GrowthMeasurement](dir, MeasurementsStore)
	if err != nil {
		return nil, err
	}
	return &MeasurementStore{store: store}, nil
}

// Save inserts or replaces a measurement
func (s *MeasurementStore) Save(m *models.GrowthMeasurement) error {
	return s.store.Save(*m)
}

// Get returns a measurement by ID, or nil when absent
func (s *MeasurementStore) Get(id string) (*models.GrowthMeasurement, error) {
	return s.store.Get(id)
}

// List returns a child's measurements ordered by observation date.
// An empty childID returns every measurement.
func (s *MeasurementStore) List(childID string) ([]models.GrowthMeasurement, error) {
	list, err := s.store.Filter(func(m models.GrowthMeasurement) bool {
		return childID == "" || m.ChildID == childID
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.Before(list[j].Date)
	})
	return list, nil
}

// Delete removes a measurement by ID
func (s *MeasurementStore) Delete(id string) error {
	return s.store.Delete(id)
}

// DeleteByChild removes every measurement of a child
func (s *MeasurementStore) DeleteByChild(childID string) error {
	return s.store.DeleteWhere(func(m models.GrowthMeasurement) bool { return m.ChildID == childID })
}

// ChildStore keeps child profiles on the device
type ChildStore struct {
	store *Store[models.Child]
}

// NewChildStore opens the child collection under dir
func NewChildStore(dir string) (*ChildStore, error) {
	store, err := NewStore[models.Child](dir, ChildrenStore)
	if err != nil {
		return nil, err
	}
	return &ChildStore{store: store}, nil
}

// Save inserts or replaces a child profile
func (s *ChildStore) Save(child *models.Child) error {
	return s.store.Save(*child)
}

// Get returns a child by ID, or nil when absent
func (s *ChildStore) Get(id string) (*models.Child, error) {
	return s.store.Get(id)
}

// ListByCaregiver returns a caregiver's children ordered by name
func (s *ChildStore) ListByCaregiver(caregiverID int64) ([]models.Child, error) {
	list, err := s.store.Filter(func(c models.Child) bool { return c.CaregiverID == caregiverID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ListAll returns every child profile
func (s *ChildStore) ListAll() ([]models.Child, error) {
	return s.store.List()
}

// Delete removes a child profile
func (s *ChildStore) Delete(id string) error {
	return s.store.Delete(id)
}
