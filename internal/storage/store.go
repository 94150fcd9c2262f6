// Package storage keeps records on the local device as one JSON array per
// logical store. Reads never fail on a missing or corrupt file; they see an
// empty list instead.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Record is anything keyed by an opaque string ID
type Record interface {
	RecordID() string
}

// Store persists records of one type in <dir>/<name>.json
type Store[T Record] struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store for the named logical collection, creating dir if needed
func NewStore[T Record](dir, name string) (*Store[T], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store[T]{path: filepath.Join(dir, name+".json")}, nil
}

// Path returns the backing file
func (s *Store[T]) Path() string {
	return s.path
}

// Save inserts the record or replaces the one with the same ID
func (s *Store[T]) Save(record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	id := record.RecordID()
	replaced := false
	for i := range records {
		if records[i].RecordID() == id {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}
	return s.write(records)
}

// Get returns the record with the given ID, or nil when absent
func (s *Store[T]) Get(id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.load() {
		if record.RecordID() == id {
			r := record
			return &r, nil
		}
	}
	return nil, nil
}

// List returns every record in insertion order
func (s *Store[T]) List() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

// Filter returns the records matching keep
func (s *Store[T]) Filter(keep func(T) bool) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []T
	for _, record := range s.load() {
		if keep(record) {
			out = append(out, record)
		}
	}
	return out, nil
}

// Delete removes the record with the given ID. Unknown IDs are ignored.
func (s *Store[T]) Delete(id string) error {
	return s.DeleteWhere(func(record T) bool { return record.RecordID() == id })
}

// DeleteWhere removes every record matching drop
func (s *Store[T]) DeleteWhere(drop func(T) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	kept := records[:0]
	for _, record := range records {
		if !drop(record) {
			kept = append(kept, record)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return s.write(kept)
}

// Replace overwrites the whole collection
func (s *Store[T]) Replace(records []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(records)
}

func (s *Store[T]) load() []T {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Failed to read %s, treating as empty: %v", s.path, err)
		}
		return []T{}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("Failed to decode %s, treating as empty: %v", s.path, err)
		return []T{}
	}
	if records == nil {
		records = []T{}
	}
	return records
}

// write replaces the file atomically so readers never see a partial array
func (s *Store[T]) write(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(s.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(s.path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(s.path), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(s.path), err)
	}
	return nil
}
