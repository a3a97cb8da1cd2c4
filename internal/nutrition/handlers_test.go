package nutrition

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/muscle-plan/internal/plan"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	p, err := plan.Default()
	if err != nil {
		t.Fatalf("failed to load plan: %v", err)
	}
	h := NewHandler(NewService(p))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/nutrition/days/{name}", h.HandleGetDay)
	mux.HandleFunc("GET /v1/nutrition/reference", h.HandleGetReference)
	return mux
}

func TestHandleGetDay(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/nutrition/days/Jeudi", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp DayNutritionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Day != "Jeudi" {
		t.Errorf("expected day=Jeudi, got %s", resp.Day)
	}
	// Jeudi protein: 19+35+4+1 + 44+5+7+1 = 116g, 207% of 56g.
	if resp.Totals.Protein != 116 {
		t.Errorf("expected 116g protein, got %v", resp.Totals.Protein)
	}
	if resp.Percentages.Protein.Label != 207 || resp.Percentages.Protein.Bar != 100 {
		t.Errorf("expected protein label=207 bar=100, got %+v", resp.Percentages.Protein)
	}
}

func TestHandleGetDayNotFound(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/nutrition/days/Funday", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandleGetReference(t *testing.T) {
	mux := newTestMux(t)

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/nutrition/reference?weight_kg=80&active=1&male=true", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp ReferenceResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		want := Totals{Protein: 128, Carbs: 302, Fats: 61, Calories: 2200, Fiber: 28}
		if resp.Reference != want {
			t.Errorf("expected %+v, got %+v", want, resp.Reference)
		}
	})

	for _, q := range []string{"", "?weight_kg=abc", "?weight_kg=-5"} {
		t.Run("bad request "+q, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/nutrition/reference"+q, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}
