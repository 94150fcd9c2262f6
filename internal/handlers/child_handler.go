package handlers

import (
	"net/http"
	"strings"
	"time"

	"growthcheck/internal/growth"
	"growthcheck/internal/service"
	"growthcheck/internal/validation"
)

// ChildHandler serves a caregiver's children and their growth records
type ChildHandler struct {
	childService  *service.ChildService
	growthService *service.GrowthService
}

// NewChildHandler creates a new child handler
func NewChildHandler(childService *service.ChildService, growthService *service.GrowthService) *ChildHandler {
	return &ChildHandler{
		childService:  childService,
		growthService: growthService,
	}
}

type childRequest struct {
	Name      string `json:"name"`
	Sex       string `json:"sex"`
	BirthDate string `json:"birthDate"`
}

type measurementRequest struct {
	Date              string   `json:"date"`
	Weight            *float64 `json:"weight,omitempty"`
	Height            *float64 `json:"height,omitempty"`
	HeadCircumference *float64 `json:"headCircumference,omitempty"`
}

// ListChildren handles GET /api/children
func (h *ChildHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	caregiver := GetCaregiverFromContext(r.Context())

	children, err := h.childService.List(caregiver.ID)
	if err != nil {
		respondWithServiceError(w, "Failed to list children", err)
		return
	}
	respondJSON(w, http.StatusOK, children)
}

// CreateChild handles POST /api/children
func (h *ChildHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	caregiver := GetCaregiverFromContext(r.Context())

	input, ok := decodeChild(w, r)
	if !ok {
		return
	}

	child, err := h.childService.Create(caregiver.ID, input)
	if err != nil {
		respondWithServiceError(w, "Failed to create child", err)
		return
	}
	respondJSON(w, http.StatusCreated, child)
}

// GetChild handles GET /api/children/{id}
func (h *ChildHandler) GetChild(w http.ResponseWriter, r *http.Request) {
	caregiver := GetCaregiverFromContext(r.Context())

	child, err := h.childService.Get(caregiver.ID, r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, "Failed to get child", err)
		return
	}
	respondJSON(w, http.StatusOK, child)
}

// UpdateChild handles PUT /api/children/{id}
func (h *ChildHandler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	caregiver := GetCaregiverFromContext(r.Context())

	input, ok := decodeChild(w, r)
	if !ok {
		return
	}

	child, err := h.childService.Update(caregiver.ID, r.PathValue("id"), input)
	if err != nil {
		respondWithServiceError(w, "Failed to update child", err)
		return
	}
	respondJSON(w, http.StatusOK, child)
}

// DeleteChild handles DELETE /api/children/{id}
func (h *ChildHandler) DeleteChild(w http.ResponseWriter, r *http.Request) {
	caregiver := GetCaregiverFromContext(r.Context())

	if err := h.childService.Delete(caregiver.ID, r.PathValue("id")); err != nil {
		respondWithServiceError(w, "Failed to delete child", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMeasurements handles GET /api/children/{id}/measurements
func (h *ChildHandler) ListMeasurements(w http.ResponseWriter, r *http.Request) {
	caregiver := GetCaregiverFromContext(r.Context())

	measurements, err := h.growthService.ListMeasurements(caregiver.ID, r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, "Failed to list measurements", err)
		return
	}
	respondJSON(w, http.StatusOK, measurements)
}

// CreateMeasurement handles POST /api/children/{id}/measurements
func (h *ChildHandler) CreateMeasurement(w http.ResponseWriter, r *http.Request) {
	h.saveMeasurement(w, r, "", http.StatusCreated)
}

// UpdateMeasurement handles PUT /api/children/{id}/measurements/{measurementId}
func (h *ChildHandler) UpdateMeasurement(w http.ResponseWriter, r *http.Request) {
	h.saveMeasurement(w, r, r.PathValue("measurementId"), http.StatusOK)
}

func (h *ChildHandler) saveMeasurement(w http.ResponseWriter, r *http.Request, measurementID string, status int) {
	caregiver := GetCaregiverFromContext(r.Context())

	var req measurementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		respondWithServiceError(w, "", err)
		return
	}

	result, err := h.growthService.RecordMeasurement(r.Context(), caregiver.ID, service.MeasurementInput{
		ID:                measurementID,
		ChildID:           r.PathValue("id"),
		Date:              date,
		Weight:            req.Weight,
		Height:            req.Height,
		HeadCircumference: req.HeadCircumference,
	})
	if err != nil {
		respondWithServiceError(w, "Failed to record measurement", err)
		return
	}
	respondJSON(w, status, result)
}

// DeleteMeasurement handles DELETE /api/children/{id}/measurements/{measurementId}
func (h *ChildHandler) DeleteMeasurement(w http.ResponseWriter, r *http.Request) {
	caregiver := GetCaregiverFromContext(r.Context())

	err := h.growthService.DeleteMeasurement(caregiver.ID, r.PathValue("id"), r.PathValue("measurementId"))
	if err != nil {
		respondWithServiceError(w, "Failed to delete measurement", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Chart handles GET /api/children/{id}/chart
func (h *ChildHandler) Chart(w http.ResponseWriter, r *http.Request) {
	caregiver := GetCaregiverFromContext(r.Context())
	q := r.URL.Query()

	typ, err := growth.ParseMeasurementType(q.Get("type"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "type"})
		return
	}
	offsets, ok := parseOffsets(w, q.Get("offsets"))
	if !ok {
		return
	}

	chart, err := h.growthService.GrowthChart(caregiver.ID, r.PathValue("id"), typ, offsets...)
	if err != nil {
		respondWithServiceError(w, "Failed to build growth chart", err)
		return
	}
	respondJSON(w, http.StatusOK, chart)
}

func decodeChild(w http.ResponseWriter, r *http.Request) (service.ChildInput, bool) {
	var req childRequest
	if !decodeJSON(w, r, &req) {
		return service.ChildInput{}, false
	}
	birth, err := parseDate("birthDate", req.BirthDate)
	if err != nil {
		respondWithServiceError(w, "", err)
		return service.ChildInput{}, false
	}
	return service.ChildInput{Name: req.Name, Sex: req.Sex, BirthDate: birth}, true
}

// parseDate accepts a calendar date or an RFC 3339 timestamp
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, validation.ValidationError{Field: field, Message: "date is required"}
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, validation.ValidationError{Field: field, Message: "date must be YYYY-MM-DD"}
}
