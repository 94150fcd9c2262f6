package models

import (
	"testing"
	"time"

	"growthcheck/internal/growth"
)

func TestAgeInMonths(t *testing.T) {
	birth := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		observed time.Time
		want     float64
	}{
		{
			name:     "day of birth",
			observed: birth,
			want:     0,
		},
		{
			name:     "before birth",
			observed: birth.AddDate(0, 0, -10),
			want:     0,
		},
		{
			name:     "sixty one days",
			observed: birth.AddDate(0, 0, 61),
			want:     2.0,
		},
		{
			name:     "second birthday",
			observed: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			want:     24.02,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AgeInMonths(birth, tt.observed)
			if got != tt.want {
				t.Errorf("AgeInMonths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChildAgeInMonthsAt(t *testing.T) {
	child := Child{BirthDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
	got := child.AgeInMonthsAt(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 61))
	if got != 2.0 {
		t.Errorf("AgeInMonthsAt() = %v, want 2", got)
	}
}

func TestMeasurementReadings(t *testing.T) {
	tests := []struct {
		name        string
		measurement GrowthMeasurement
		want        []growth.MeasurementType
	}{
		{
			name:        "no readings",
			measurement: GrowthMeasurement{ID: "m1"},
			want:        nil,
		},
		{
			name:        "weight only",
			measurement: GrowthMeasurement{ID: "m2", Weight: Float64(9.5)},
			want:        []growth.MeasurementType{growth.Weight},
		},
		{
			name: "all readings",
			measurement: GrowthMeasurement{
				ID:                "m3",
				Weight:            Float64(9.5),
				Height:            Float64(74),
				HeadCircumference: Float64(45),
			},
			want: []growth.MeasurementType{growth.Weight, growth.Height, growth.HeadCircumference},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readings := tt.measurement.Readings()
			if len(readings) != len(tt.want) {
				t.Fatalf("got %d readings, want %d", len(readings), len(tt.want))
			}
			for i, r := range readings {
				if r.Type != tt.want[i] {
					t.Errorf("reading %d type = %v, want %v", i, r.Type, tt.want[i])
				}
			}
			if tt.measurement.HasReadings() != (len(tt.want) > 0) {
				t.Errorf("HasReadings() = %v, want %v", tt.measurement.HasReadings(), len(tt.want) > 0)
			}
		})
	}
}

func TestMeasurementReading(t *testing.T) {
	m := GrowthMeasurement{Height: Float64(80.5)}

	if v, ok := m.Reading(growth.Height); !ok || v != 80.5 {
		t.Errorf("Reading(height) = %v, %v, want 80.5, true", v, ok)
	}
	if _, ok := m.Reading(growth.Weight); ok {
		t.Error("Reading(weight) should be absent")
	}
}

func TestFlaggedAssessments(t *testing.T) {
	m := MeasurementWithAssessments{
		Assessments: []Assessment{
			{Type: growth.Weight, Result: growth.Result{Classification: growth.Normal}},
			{Type: growth.Height, Result: growth.Result{Classification: growth.Concern}},
			{Type: growth.HeadCircumference, Result: growth.Result{Classification: growth.Severe}},
		},
	}

	flagged := m.Flagged()
	if len(flagged) != 2 {
		t.Fatalf("got %d flagged, want 2", len(flagged))
	}
	if flagged[0].Type != growth.Height || flagged[1].Type != growth.HeadCircumference {
		t.Errorf("flagged = %+v, want height then head circumference", flagged)
	}
}
