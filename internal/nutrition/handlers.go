package nutrition

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Handler handles HTTP requests for nutrition totals.
type Handler struct {
	service *Service
}

// NewHandler creates a new nutrition handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGetDay handles GET /v1/nutrition/days/{name}
func (h *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DayNutrition(r.PathValue("name"))
	if err != nil {
		if errors.Is(err, ErrDayNotFound) {
			writeError(w, http.StatusNotFound, "day_not_found", "Day not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to compute nutrition")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// HandleGetReference handles GET /v1/nutrition/reference?weight_kg=&active=&male=
func (h *Handler) HandleGetReference(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	weightStr := q.Get("weight_kg")
	if weightStr == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "weight_kg is required")
		return
	}
	weight, err := strconv.ParseFloat(weightStr, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid weight_kg format")
		return
	}

	resp, err := h.service.Reference(weight, parseBool(q.Get("active")), parseBool(q.Get("male")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
