package pricing

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/fdg312/muscle-plan/internal/plan"
)

// Handler handles HTTP requests for regional pricing.
type Handler struct {
	plan          *plan.Plan
	defaultRegion plan.Region
}

// NewHandler creates a new pricing handler. Requests without ?region= use
// defaultRegion.
func NewHandler(p *plan.Plan, defaultRegion plan.Region) *Handler {
	return &Handler{plan: p, defaultRegion: defaultRegion}
}

// HandleGetWeek handles GET /v1/pricing/week?region=
func (h *Handler) HandleGetWeek(w http.ResponseWriter, r *http.Request) {
	region, ok := h.region(w, r)
	if !ok {
		return
	}

	summary, err := WeeklyCost(h.plan, region)
	if err != nil {
		log.Printf("ERROR pricing: week region=%s: %v", region, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to price week")
		return
	}

	writeJSON(w, WeekResponse{
		Summary:             summary,
		WeeklyDisplay:       FormatAmount(summary.Weekly, region),
		AverageDailyDisplay: FormatAmount(summary.AverageDaily, region),
	})
}

// HandleGetDay handles GET /v1/pricing/days/{name}?region=
func (h *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	region, ok := h.region(w, r)
	if !ok {
		return
	}

	day, found := h.plan.Day(r.PathValue("name"))
	if !found {
		writeError(w, http.StatusNotFound, "day_not_found", "Day not found")
		return
	}

	cost, err := DayCost(day, region)
	if err != nil {
		log.Printf("ERROR pricing: day=%s region=%s: %v", day.Name, region, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to price day")
		return
	}

	writeJSON(w, AmountResponse{
		Region:   region,
		Currency: region.Currency(),
		Name:     day.Name,
		Amount:   cost,
		Display:  FormatAmount(cost, region),
	})
}

// HandleGetShopping handles GET /v1/pricing/shopping?region=
func (h *Handler) HandleGetShopping(w http.ResponseWriter, r *http.Request) {
	region, ok := h.region(w, r)
	if !ok {
		return
	}

	total, err := ShoppingCost(h.plan, region)
	if err != nil {
		log.Printf("ERROR pricing: shopping region=%s: %v", region, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to price shopping list")
		return
	}

	writeJSON(w, AmountResponse{
		Region:   region,
		Currency: region.Currency(),
		Amount:   total,
		Display:  FormatAmount(total, region),
	})
}

func (h *Handler) region(w http.ResponseWriter, r *http.Request) (plan.Region, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("region"))
	if raw == "" {
		return h.defaultRegion, true
	}
	region, err := plan.ParseRegion(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_region", "region must be FR or MA")
		return "", false
	}
	return region, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
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
