package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/muscle-plan/internal/config"
	"github.com/fdg312/muscle-plan/internal/plan"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to build server: %v", err)
	}
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &config.Config{Port: 8080})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Status string `json:"status"`
		Days   int    `json:"days"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != "ok" || resp.Days != 7 {
		t.Errorf("expected status=ok days=7, got %+v", resp)
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &config.Config{Port: 8080})

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestNewFailsWhenS3Incomplete(t *testing.T) {
	cfg := &config.Config{Blob: config.BlobConfig{Mode: config.BlobModeS3}}
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error when BLOB_MODE=s3 without S3 config")
	}
}

func TestNewRejectsUnknownDefaultRegion(t *testing.T) {
	if _, err := New(&config.Config{DefaultRegion: "US"}); !errors.Is(err, plan.ErrUnknownRegion) {
		t.Fatalf("expected ErrUnknownRegion, got %v", err)
	}
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t, &config.Config{Port: 8080, DefaultRegion: "MA"})

	cases := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"plan", http.MethodGet, "/v1/plan", http.StatusOK},
		{"plan day", http.MethodGet, "/v1/plan/days/Mardi", http.StatusOK},
		{"plan unknown day", http.MethodGet, "/v1/plan/days/Funday", http.StatusNotFound},
		{"nutrition day", http.MethodGet, "/v1/nutrition/days/Jeudi", http.StatusOK},
		{"nutrition reference", http.MethodGet, "/v1/nutrition/reference?weight_kg=80&active=true&male=true", http.StatusOK},
		{"pricing week", http.MethodGet, "/v1/pricing/week", http.StatusOK},
		{"pricing day", http.MethodGet, "/v1/pricing/days/Lundi?region=FR", http.StatusOK},
		{"pricing shopping", http.MethodGet, "/v1/pricing/shopping", http.StatusOK},
		{"pricing bad region", http.MethodGet, "/v1/pricing/week?region=US", http.StatusBadRequest},
		{"wrong method", http.MethodDelete, "/v1/plan", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			if w.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestSessionExportFlow(t *testing.T) {
	srv := newTestServer(t, &config.Config{Port: 8080})
	h := srv.Handler()

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			json.NewEncoder(&buf).Encode(body)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(method, path, &buf))
		return w
	}

	w := do(http.MethodPost, "/v1/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d", w.Code)
	}
	var session struct {
		ID string `json:"id"`
	}
	json.NewDecoder(w.Body).Decode(&session)

	if w := do(http.MethodPost, "/v1/sessions/"+session.ID+"/bought", map[string]string{"item": "Citrons"}); w.Code != http.StatusOK {
		t.Fatalf("toggle bought: expected 200, got %d", w.Code)
	}

	w = do(http.MethodPost, "/v1/exports", map[string]string{
		"kind":       "shopping",
		"format":     "csv",
		"session_id": session.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create export: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var export struct {
		ID string `json:"id"`
	}
	json.NewDecoder(w.Body).Decode(&export)

	w = do(http.MethodGet, "/v1/exports/"+export.ID+"/download", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Citrons,4 pcs,1.80,€,yes")) {
		t.Errorf("expected bought lemons in export, got:\n%s", w.Body.String())
	}
}
