// Package growth scores anthropometric measurements against the WHO child
// growth standards using the LMS (Box-Cox power-normal) method.
//
// Everything in this package is pure: reference tables are read-only and
// every function may be called from any number of goroutines.
package growth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownSex             = errors.New("unknown sex")
	ErrUnknownMeasurementType = errors.New("unknown measurement type")
	ErrInvalidMeasurement     = errors.New("measurement must be a positive finite number")
	ErrInvalidAge             = errors.New("age must be a non-negative finite number of months")
)

// Sex selects the male or female reference population
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ParseSex converts a caller-supplied string into a Sex
func ParseSex(s string) (Sex, error) {
	switch Sex(strings.ToLower(strings.TrimSpace(s))) {
	case Male:
		return Male, nil
	case Female:
		return Female, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSex, s)
}

// MeasurementType selects which indicator a measurement is scored against
type MeasurementType string

const (
	Weight            MeasurementType = "weight"
	Height            MeasurementType = "height"
	HeadCircumference MeasurementType = "headCircumference"
)

// MeasurementTypes lists every supported indicator in display order
var MeasurementTypes = []MeasurementType{Weight, Height, HeadCircumference}

// ParseMeasurementType converts a caller-supplied string into a MeasurementType
func ParseMeasurementType(s string) (MeasurementType, error) {
	switch strings.TrimSpace(s) {
	case string(Weight):
		return Weight, nil
	case string(Height):
		return Height, nil
	case string(HeadCircumference), "head_circumference", "headcircumference":
		return HeadCircumference, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMeasurementType, s)
}

// Unit returns the unit raw readings of this type are expressed in
func (t MeasurementType) Unit() string {
	if t == Weight {
		return "kg"
	}
	return "cm"
}

// Classification is the clinical severity bucket for a z-score
type Classification string

const (
	Normal  Classification = "normal"
	Monitor Classification = "monitor"
	Concern Classification = "concern"
	Severe  Classification = "severe"
)

// NeedsReferral reports whether the classification should be escalated to a clinician
func (c Classification) NeedsReferral() bool {
	return c == Concern || c == Severe
}

// Result is a scored measurement
type Result struct {
	ZScore         float64        `json:"zscore"`
	Percentile     float64        `json:"percentile"`
	Classification Classification `json:"classification"`
}

// CurvePoint is one age checkpoint of a percentile chart, keyed by band label
type CurvePoint struct {
	Age    float64            `json:"age"`
	Values map[string]float64 `json:"values"`
}
