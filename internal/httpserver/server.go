package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fdg312/muscle-plan/internal/blob"
	"github.com/fdg312/muscle-plan/internal/config"
	"github.com/fdg312/muscle-plan/internal/exports"
	"github.com/fdg312/muscle-plan/internal/nutrition"
	"github.com/fdg312/muscle-plan/internal/plan"
	"github.com/fdg312/muscle-plan/internal/pricing"
	"github.com/fdg312/muscle-plan/internal/selection"
)

// Server is the HTTP API over one loaded plan.
type Server struct {
	config   *config.Config
	mux      *http.ServeMux
	plan     *plan.Plan
	sessions *selection.Store
	exports  *exports.Service
}

// New loads the embedded plan and registers every route. It fails when the
// plan does not validate or the requested blob store cannot be built.
func New(cfg *config.Config) (*Server, error) {
	p, err := plan.Default()
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	log.Printf("INFO plan: loaded days=%d shopping_items=%d", len(p.Days), len(p.ShoppingItems()))
	return NewWithPlan(cfg, p)
}

// NewWithPlan builds a server around an already validated plan.
func NewWithPlan(cfg *config.Config, p *plan.Plan) (*Server, error) {
	region := cfg.DefaultRegion
	if region == "" {
		region = plan.RegionFR
	} else if _, err := plan.ParseRegion(string(region)); err != nil {
		return nil, fmt.Errorf("default region: %w", err)
	}

	store, mode, err := blob.NewBlobStore(context.Background(), cfg.Blob, log.Default())
	if err != nil {
		return nil, err
	}
	log.Printf("INFO blob: exports blob mode: %s", mode)

	s := &Server{
		config:   cfg,
		mux:      http.NewServeMux(),
		plan:     p,
		sessions: selection.NewStore(p, time.Duration(cfg.SessionTTLMinutes)*time.Minute),
	}
	s.exports = exports.NewService(p, s.sessions, store, exports.Options{
		DefaultRegion:     region,
		MaxStored:         cfg.ExportsMaxStored,
		PresignTTLSeconds: cfg.Blob.S3.PresignTTLSeconds,
		PreferPublicURL:   cfg.Blob.S3.PreferPublicURL,
	})

	s.routes(region)
	return s, nil
}

func (s *Server) routes(region plan.Region) {
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Plan
	planHandler := plan.NewHandler(s.plan)
	s.mux.HandleFunc("GET /v1/plan", planHandler.HandleGetPlan)
	s.mux.HandleFunc("GET /v1/plan/days/{name}", planHandler.HandleGetDay)

	// Nutrition
	nutritionHandler := nutrition.NewHandler(nutrition.NewService(s.plan))
	s.mux.HandleFunc("GET /v1/nutrition/days/{name}", nutritionHandler.HandleGetDay)
	s.mux.HandleFunc("GET /v1/nutrition/reference", nutritionHandler.HandleGetReference)

	// Pricing
	pricingHandler := pricing.NewHandler(s.plan, region)
	s.mux.HandleFunc("GET /v1/pricing/week", pricingHandler.HandleGetWeek)
	s.mux.HandleFunc("GET /v1/pricing/days/{name}", pricingHandler.HandleGetDay)
	s.mux.HandleFunc("GET /v1/pricing/shopping", pricingHandler.HandleGetShopping)

	// Selection sessions
	selectionHandler := selection.NewHandler(s.sessions)
	s.mux.HandleFunc("POST /v1/sessions", selectionHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/sessions/{id}", selectionHandler.HandleGet)
	s.mux.HandleFunc("DELETE /v1/sessions/{id}", selectionHandler.HandleDelete)
	s.mux.HandleFunc("POST /v1/sessions/{id}/bought", selectionHandler.HandleToggleBought)
	s.mux.HandleFunc("POST /v1/sessions/{id}/days", selectionHandler.HandleToggleDay)

	// Exports
	exportsHandler := exports.NewHandlers(s.exports)
	s.mux.HandleFunc("POST /v1/exports", exportsHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/exports/{id}", exportsHandler.HandleGet)
	s.mux.HandleFunc("GET /v1/exports/{id}/download", exportsHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/exports/{id}", exportsHandler.HandleDelete)
}

// Handler returns the router wrapped in middleware (outermost first): CORS, rate limit.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ok",
		"days":     len(s.plan.Days),
		"sessions": s.sessions.Len(),
	})
}

// Start listens on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("Server listening on http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Plan API: http://localhost%s/v1/plan\n", addr)

	return http.ListenAndServe(addr, s.Handler())
}

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
