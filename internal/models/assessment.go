package models

import (
	"time"

	"growthcheck/internal/growth"
)

// Assessment is the engine's verdict on one reading of a measurement
type Assessment struct {
	Type   growth.MeasurementType `json:"type"`
	Value  float64                `json:"value"`
	Unit   string                 `json:"unit"`
	Median float64                `json:"median"`
	growth.Result
}

// MeasurementWithAssessments combines a stored measurement with its scores
type MeasurementWithAssessments struct {
	Measurement GrowthMeasurement `json:"measurement"`
	Assessments []Assessment      `json:"assessments"`
}

// Flagged returns the assessments whose classification warrants a referral
func (m MeasurementWithAssessments) Flagged() []Assessment {
	var flagged []Assessment
	for _, a := range m.Assessments {
		if a.Classification.NeedsReferral() {
			flagged = append(flagged, a)
		}
	}
	return flagged
}

// ScreeningAlert is raised when a recorded measurement falls in a referral bucket
type ScreeningAlert struct {
	ChildID       string       `json:"childId"`
	ChildName     string       `json:"childName"`
	CaregiverID   int64        `json:"caregiverId"`
	MeasurementID string       `json:"measurementId"`
	ObservedAt    time.Time    `json:"observedAt"`
	AgeMonths     float64      `json:"ageMonths"`
	Flagged       []Assessment `json:"flagged"`
	RaisedAt      time.Time    `json:"raisedAt"`
}

// GrowthChart pairs a reference percentile curve with a child's own points
type GrowthChart struct {
	ChildID string                 `json:"childId"`
	Sex     growth.Sex             `json:"sex"`
	Type    growth.MeasurementType `json:"type"`
	Unit    string                 `json:"unit"`
	Curve   []growth.CurvePoint    `json:"curve"`
	Points  []ChartPoint           `json:"points"`
}

// ChartPoint is one of the child's plotted readings
type ChartPoint struct {
	AgeMonths float64 `json:"age"`
	Value     float64 `json:"value"`
	growth.Result
}
