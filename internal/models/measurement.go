package models

import (
	"math"
	"time"

	"growthcheck/internal/growth"
)

// DaysPerMonth is the WHO average month length used to derive ages
const DaysPerMonth = 30.4375

// GrowthMeasurement represents one anthropometric check of a child.
// Any of the readings may be absent.
type GrowthMeasurement struct {
	ID                string    `json:"id"`
	ChildID           string    `json:"childId"`
	Date              time.Time `json:"date"`
	AgeMonths         float64   `json:"ageMonths"`
	Weight            *float64  `json:"weight,omitempty"`            // kg
	Height            *float64  `json:"height,omitempty"`            // cm
	HeadCircumference *float64  `json:"headCircumference,omitempty"` // cm
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Reading is a single present value of a measurement
type Reading struct {
	Type  growth.MeasurementType
	Value float64
}

// RecordID returns the measurement's storage key
func (m GrowthMeasurement) RecordID() string {
	return m.ID
}

// Readings returns the present readings in weight, height, head circumference order
func (m GrowthMeasurement) Readings() []Reading {
	var readings []Reading
	if m.Weight != nil {
		readings = append(readings, Reading{Type: growth.Weight, Value: *m.Weight})
	}
	if m.Height != nil {
		readings = append(readings, Reading{Type: growth.Height, Value: *m.Height})
	}
	if m.HeadCircumference != nil {
		readings = append(readings, Reading{Type: growth.HeadCircumference, Value: *m.HeadCircumference})
	}
	return readings
}

// HasReadings reports whether at least one reading is present
func (m GrowthMeasurement) HasReadings() bool {
	return m.Weight != nil || m.Height != nil || m.HeadCircumference != nil
}

// Reading returns the value recorded for a measurement type, if any
func (m GrowthMeasurement) Reading(typ growth.MeasurementType) (float64, bool) {
	var v *float64
	switch typ {
	case growth.Weight:
		v = m.Weight
	case growth.Height:
		v = m.Height
	case growth.HeadCircumference:
		v = m.HeadCircumference
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// AgeInMonths returns the elapsed months between birth and an observation date,
// rounded to two decimals. Observations before birth yield zero.
func AgeInMonths(birth, observed time.Time) float64 {
	days := observed.Sub(birth).Hours() / 24
	if days <= 0 {
		return 0
	}
	return math.Round(days/DaysPerMonth*100) / 100
}

// Float64 returns a pointer to v, for building optional readings
func Float64(v float64) *float64 {
	return &v
}
