package plan

import (
	"encoding/json"
	"log"
	"net/http"
)

// Handler serves the static plan.
type Handler struct {
	plan *Plan
}

// NewHandler creates a new plan handler.
func NewHandler(p *Plan) *Handler {
	return &Handler{plan: p}
}

// HandleGetPlan handles GET /v1/plan
func (h *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	data, err := json.Marshal(h.plan)
	if err != nil {
		log.Printf("ERROR plan: encode failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to encode plan")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(append(data, '\n'))
}

// HandleGetDay handles GET /v1/plan/days/{name}
func (h *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	day, ok := h.plan.Day(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "day_not_found", "Day not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(day)
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
