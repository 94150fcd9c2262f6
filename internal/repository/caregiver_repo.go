package repository

import (
	"database/sql"
	"fmt"
	"time"

	"growthcheck/internal/database"
	"growthcheck/internal/models"
)

// CaregiverRepository handles database operations for caregiver accounts
type CaregiverRepository struct {
	db database.DBTX
}

// NewCaregiverRepository creates a new caregiver repository
func NewCaregiverRepository(db database.DBTX) *CaregiverRepository {
	return &CaregiverRepository{db: db}
}

const caregiverColumns = "id, email, password_hash, name, created_at, updated_at"

// CreateCaregiver inserts a new caregiver into the database
func (r *CaregiverRepository) CreateCaregiver(email, passwordHash, name string) (*models.Caregiver, error) {
	query := "INSERT INTO caregivers (email, password_hash, name) VALUES (?, ?, ?)"
	id, err := r.db.ExecReturningID(query, email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create caregiver: %w", err)
	}

	now := time.Now()
	return &models.Caregiver{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetCaregiverByEmail retrieves a caregiver by email address
func (r *CaregiverRepository) GetCaregiverByEmail(email string) (*models.Caregiver, error) {
	query := "SELECT " + caregiverColumns + " FROM caregivers WHERE email = ?"
	return r.getOne(query, email)
}

// GetCaregiverByID retrieves a caregiver by ID
func (r *CaregiverRepository) GetCaregiverByID(id int64) (*models.Caregiver, error) {
	query := "SELECT " + caregiverColumns + " FROM caregivers WHERE id = ?"
	return r.getOne(query, id)
}

func (r *CaregiverRepository) getOne(query string, arg interface{}) (*models.Caregiver, error) {
	caregiver := &models.Caregiver{}
	err := r.db.QueryRow(query, arg).Scan(
		&caregiver.ID,
		&caregiver.Email,
		&caregiver.PasswordHash,
		&caregiver.Name,
		&caregiver.CreatedAt,
		&caregiver.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get caregiver: %w", err)
	}

	return caregiver, nil
}
