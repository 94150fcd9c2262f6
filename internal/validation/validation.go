package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"growthcheck/internal/growth"
	"growthcheck/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateSex checks the child's sex is one the reference tables cover
func ValidateSex(sex growth.Sex) error {
	if _, err := growth.ParseSex(string(sex)); err != nil {
		return ValidationError{Field: "sex", Message: "sex must be male or female"}
	}
	return nil
}

// ValidateBirthDate rejects missing and future birth dates
func ValidateBirthDate(birth, now time.Time) error {
	if birth.IsZero() {
		return ValidationError{Field: "birthDate", Message: "birth date is required"}
	}
	if birth.After(now) {
		return ValidationError{Field: "birthDate", Message: "birth date cannot be in the future"}
	}
	return nil
}

// ValidateReading checks a raw reading is a positive finite number
func ValidateReading(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ValidationError{Field: field, Message: "must be a number"}
	}
	if value <= 0 {
		return ValidationError{Field: field, Message: "must be greater than zero"}
	}
	return nil
}

// ValidateObservationDate checks a measurement was taken between birth and now
func ValidateObservationDate(birth, observed, now time.Time) error {
	if observed.IsZero() {
		return ValidationError{Field: "date", Message: "observation date is required"}
	}
	if observed.Before(birth) {
		return ValidationError{Field: "date", Message: "observation date is before the birth date"}
	}
	if observed.After(now) {
		return ValidationError{Field: "date", Message: "observation date cannot be in the future"}
	}
	return nil
}

// ValidateMeasurement checks a measurement carries at least one valid reading
func ValidateMeasurement(m models.GrowthMeasurement) error {
	if !m.HasReadings() {
		return ValidationError{Field: "measurement", Message: "at least one of weight, height or head circumference is required"}
	}
	for _, r := range m.Readings() {
		if err := ValidateReading(string(r.Type), r.Value); err != nil {
			return err
		}
	}
	return nil
}
