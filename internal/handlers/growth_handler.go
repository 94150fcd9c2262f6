package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"growthcheck/internal/growth"
)

// GrowthHandler exposes the reference engine without authentication
type GrowthHandler struct{}

// NewGrowthHandler creates a new growth handler
func NewGrowthHandler() *GrowthHandler {
	return &GrowthHandler{}
}

type zscoreResponse struct {
	Measurement float64                `json:"measurement"`
	Age         float64                `json:"age"`
	Sex         growth.Sex             `json:"sex"`
	Type        growth.MeasurementType `json:"type"`
	Unit        string                 `json:"unit"`
	growth.Result
}

type medianResponse struct {
	Age    float64                `json:"age"`
	Sex    growth.Sex             `json:"sex"`
	Type   growth.MeasurementType `json:"type"`
	Unit   string                 `json:"unit"`
	Median float64                `json:"median"`
}

type curveResponse struct {
	Sex     growth.Sex             `json:"sex"`
	Type    growth.MeasurementType `json:"type"`
	Unit    string                 `json:"unit"`
	Offsets []float64              `json:"offsets"`
	Points  []growth.CurvePoint    `json:"points"`
}

// ZScore handles GET /api/growth/zscore
func (h *GrowthHandler) ZScore(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sex, typ, ok := parseSexAndType(w, q.Get("sex"), q.Get("type"))
	if !ok {
		return
	}
	measurement, ok := parseFloatParam(w, q.Get("measurement"), "measurement")
	if !ok {
		return
	}
	age, ok := parseFloatParam(w, q.Get("age"), "age")
	if !ok {
		return
	}

	result, err := growth.CalculateZScore(measurement, age, sex, typ)
	if err != nil {
		respondWithServiceError(w, "Failed to calculate z-score", err)
		return
	}

	respondJSON(w, http.StatusOK, zscoreResponse{
		Measurement: measurement,
		Age:         age,
		Sex:         sex,
		Type:        typ,
		Unit:        typ.Unit(),
		Result:      result,
	})
}

// Median handles GET /api/growth/median
func (h *GrowthHandler) Median(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sex, typ, ok := parseSexAndType(w, q.Get("sex"), q.Get("type"))
	if !ok {
		return
	}
	age, ok := parseFloatParam(w, q.Get("age"), "age")
	if !ok {
		return
	}

	median, err := growth.MedianForAge(age, sex, typ)
	if err != nil {
		respondWithServiceError(w, "Failed to look up median", err)
		return
	}

	respondJSON(w, http.StatusOK, medianResponse{Age: age, Sex: sex, Type: typ, Unit: typ.Unit(), Median: median})
}

// Curve handles GET /api/growth/curve
func (h *GrowthHandler) Curve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sex, typ, ok := parseSexAndType(w, q.Get("sex"), q.Get("type"))
	if !ok {
		return
	}
	offsets, ok := parseOffsets(w, q.Get("offsets"))
	if !ok {
		return
	}

	points, err := growth.PercentileCurve(sex, typ, offsets...)
	if err != nil {
		respondWithServiceError(w, "Failed to build curve", err)
		return
	}
	if len(offsets) == 0 {
		offsets = growth.DefaultCurveOffsets
	}

	respondJSON(w, http.StatusOK, curveResponse{Sex: sex, Type: typ, Unit: typ.Unit(), Offsets: offsets, Points: points})
}

func parseSexAndType(w http.ResponseWriter, rawSex, rawType string) (growth.Sex, growth.MeasurementType, bool) {
	sex, err := growth.ParseSex(rawSex)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "sex"})
		return "", "", false
	}
	typ, err := growth.ParseMeasurementType(rawType)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "type"})
		return "", "", false
	}
	return sex, typ, true
}

func parseFloatParam(w http.ResponseWriter, raw, field string) (float64, bool) {
	if raw == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: field + " is required", Field: field})
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: field + " must be a number", Field: field})
		return 0, false
	}
	return v, true
}

// parseOffsets reads a comma separated list of z offsets; empty means the defaults
func parseOffsets(w http.ResponseWriter, raw string) ([]float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	var offsets []float64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		z, err := strconv.ParseFloat(part, 64)
		if err != nil || !(z >= -4 && z <= 4) {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "offsets must be numbers between -4 and 4", Field: "offsets"})
			return nil, false
		}
		offsets = append(offsets, z)
	}
	return offsets, true
}
