package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"growthcheck/internal/models"
	"growthcheck/internal/storage"
)

const (
	bundleVersion  = "1.0"
	bundleManifest = "manifest.json"
)

// BackupManifest describes a device bundle
type BackupManifest struct {
	Version      string    `json:"version"`
	ExportedAt   time.Time `json:"exportedAt"`
	Children     int       `json:"children"`
	Measurements int       `json:"measurements"`
}

// BackupService moves children and measurements between the primary store
// and an on-device bundle directory
type BackupService struct {
	children     ChildStore
	measurements MeasurementStore
}

// NewBackupService creates a new backup service
func NewBackupService(children ChildStore, measurements MeasurementStore) *BackupService {
	return &BackupService{children: children, measurements: measurements}
}

// Export writes every child and measurement into a bundle under dir,
// replacing any bundle already there
func (s *BackupService) Export(dir string) (*BackupManifest, error) {
	log.Printf("Starting export to %s...", dir)

	children, err := s.children.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to export children: %w", err)
	}
	measurements, err := s.measurements.List("")
	if err != nil {
		return nil, fmt.Errorf("failed to export measurements: %w", err)
	}

	childStore, err := storage.NewStore[models.Child](dir, storage.ChildrenStore)
	if err != nil {
		return nil, err
	}
	measurementStore, err := storage.NewStore[models.GrowthMeasurement](dir, storage.MeasurementsStore)
	if err != nil {
		return nil, err
	}

	if err := childStore.Replace(children); err != nil {
		return nil, fmt.Errorf("failed to write children: %w", err)
	}
	if err := measurementStore.Replace(measurements); err != nil {
		return nil, fmt.Errorf("failed to write measurements: %w", err)
	}

	manifest := &BackupManifest{
		Version:      bundleVersion,
		ExportedAt:   time.Now().UTC(),
		Children:     len(children),
		Measurements: len(measurements),
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, bundleManifest), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	log.Printf("Exported %d children, %d measurements to %s", manifest.Children, manifest.Measurements, dir)
	return manifest, nil
}

// Import upserts every child and measurement of the bundle under dir.
// Children are written first so measurements always reference a stored child.
func (s *BackupService) Import(dir string) (*BackupManifest, error) {
	log.Printf("Starting import from %s...", dir)

	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}

	children, err := storage.NewChildStore(dir)
	if err != nil {
		return nil, err
	}
	measurements, err := storage.NewMeasurementStore(dir)
	if err != nil {
		return nil, err
	}

	bundledChildren, _ := children.ListAll()
	bundledMeasurements, _ := measurements.List("")

	known := make(map[string]bool, len(bundledChildren))
	for i := range bundledChildren {
		if err := s.children.Save(&bundledChildren[i]); err != nil {
			return nil, fmt.Errorf("failed to import child %s: %w", bundledChildren[i].ID, err)
		}
		known[bundledChildren[i].ID] = true
	}

	imported := 0
	for i := range bundledMeasurements {
		m := &bundledMeasurements[i]
		if !known[m.ChildID] {
			existing, err := s.children.Get(m.ChildID)
			if err != nil {
				return nil, fmt.Errorf("failed to check child %s: %w", m.ChildID, err)
			}
			if existing == nil {
				log.Printf("Skipping measurement %s: child %s not in bundle or store", m.ID, m.ChildID)
				continue
			}
			known[m.ChildID] = true
		}
		if err := s.measurements.Save(m); err != nil {
			return nil, fmt.Errorf("failed to import measurement %s: %w", m.ID, err)
		}
		imported++
	}

	manifest := &BackupManifest{Version: bundleVersion, Children: len(bundledChildren), Measurements: imported}
	if data, err := os.ReadFile(filepath.Join(dir, bundleManifest)); err == nil {
		var bundled BackupManifest
		if err := json.Unmarshal(data, &bundled); err == nil {
			manifest.Version = bundled.Version
			manifest.ExportedAt = bundled.ExportedAt
		}
	}

	log.Printf("Imported %d children, %d measurements from %s", manifest.Children, manifest.Measurements, dir)
	return manifest, nil
}
