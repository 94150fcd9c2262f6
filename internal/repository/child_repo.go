package repository

import (
	"database/sql"
	"fmt"
	"time"

	"growthcheck/internal/database"
	"growthcheck/internal/models"
)

// ChildRepository handles database operations for child profiles
type ChildRepository struct {
	db database.DBTX
}

// NewChildRepository creates a new child repository
func NewChildRepository(db database.DBTX) *ChildRepository {
	return &ChildRepository{db: db}
}

const childColumns = "id, caregiver_id, name, sex, birth_date, created_at, updated_at"

// Save inserts a child or replaces the profile with the same ID
func (r *ChildRepository) Save(child *models.Child) error {
	child.UpdatedAt = time.Now().UTC()
	if child.CreatedAt.IsZero() {
		child.CreatedAt = child.UpdatedAt
	}

	query := r.db.GetDialect().UpsertQuery("children", "id",
		[]string{"id", "caregiver_id", "name", "sex", "birth_date", "updated_at"})
	_, err := r.db.Exec(query,
		child.ID,
		child.CaregiverID,
		child.Name,
		string(child.Sex),
		child.BirthDate.UTC(),
		child.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save child: %w", err)
	}
	return nil
}

// Get retrieves a child by ID
func (r *ChildRepository) Get(id string) (*models.Child, error) {
	query := "SELECT " + childColumns + " FROM children WHERE id = ?"
	child := &models.Child{}
	err := scanChild(r.db.QueryRow(query, id), child)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}

	return child, nil
}

// ListByCaregiver retrieves all children of a caregiver
func (r *ChildRepository) ListByCaregiver(caregiverID int64) ([]models.Child, error) {
	query := "SELECT " + childColumns + " FROM children WHERE caregiver_id = ? ORDER BY name ASC"
	return r.list(query, caregiverID)
}

// ListAll retrieves every child profile
func (r *ChildRepository) ListAll() ([]models.Child, error) {
	query := "SELECT " + childColumns + " FROM children ORDER BY created_at ASC"
	return r.list(query)
}

func (r *ChildRepository) list(query string, args ...interface{}) ([]models.Child, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	var children []models.Child
	for rows.Next() {
		var child models.Child
		if err := scanChild(rows, &child); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		children = append(children, child)
	}

	return children, rows.Err()
}

// Delete removes a child profile; its measurements are removed by cascade
func (r *ChildRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM children WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChild(row rowScanner, child *models.Child) error {
	var sex string
	if err := row.Scan(
		&child.ID,
		&child.CaregiverID,
		&child.Name,
		&sex,
		&child.BirthDate,
		&child.CreatedAt,
		&child.UpdatedAt,
	); err != nil {
		return err
	}
	child.Sex = growthSex(sex)
	return nil
}
