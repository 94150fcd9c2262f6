package models

import (
	"time"

	"growthcheck/internal/growth"
)

// Child represents a screened child profile
type Child struct {
	ID          string     `json:"id"`
	CaregiverID int64      `json:"caregiverId"`
	Name        string     `json:"name"`
	Sex         growth.Sex `json:"sex"`
	BirthDate   time.Time  `json:"birthDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// RecordID returns the child's storage key
func (c Child) RecordID() string {
	return c.ID
}

// AgeInMonthsAt returns the child's age in months on the given date
func (c Child) AgeInMonthsAt(date time.Time) float64 {
	return AgeInMonths(c.BirthDate, date)
}
