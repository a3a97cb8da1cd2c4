package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/muscle-plan/internal/config"
)

func TestCORSMiddleware(t *testing.T) {
	const allowedOrigin = "https://app.example.com"

	cases := []struct {
		name          string
		method        string
		origin        string
		credentials   bool
		wantStatus    int
		wantNext      bool
		wantOrigin    string
		wantMethods   bool
		wantCreds     string
		wantExposeHdr string
	}{
		{
			name:        "preflight from allowed origin",
			method:      http.MethodOptions,
			origin:      allowedOrigin,
			wantStatus:  http.StatusNoContent,
			wantOrigin:  allowedOrigin,
			wantMethods: true,
		},
		{
			name:       "preflight from unknown origin",
			method:     http.MethodOptions,
			origin:     "https://evil.com",
			wantStatus: http.StatusNoContent,
		},
		{
			name:          "request from allowed origin with credentials",
			method:        http.MethodGet,
			origin:        allowedOrigin,
			credentials:   true,
			wantStatus:    http.StatusOK,
			wantNext:      true,
			wantOrigin:    allowedOrigin,
			wantCreds:     "true",
			wantExposeHdr: "Content-Disposition",
		},
		{
			name:       "request from unknown origin",
			method:     http.MethodGet,
			origin:     "https://evil.com",
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "same-origin request",
			method:     http.MethodPost,
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{
				CORSAllowedOrigins:   []string{" " + allowedOrigin + " "},
				CORSAllowCredentials: tc.credentials,
			}
			called := false
			handler := CORSMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tc.method, "/v1/exports", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, rr.Code)
			}
			if called != tc.wantNext {
				t.Errorf("expected next called=%t, got %t", tc.wantNext, called)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Errorf("expected Allow-Origin=%q, got %q", tc.wantOrigin, got)
			}
			if got := rr.Header().Get("Access-Control-Allow-Methods"); (got != "") != tc.wantMethods {
				t.Errorf("unexpected Allow-Methods %q", got)
			}
			if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != tc.wantCreds {
				t.Errorf("expected Allow-Credentials=%q, got %q", tc.wantCreds, got)
			}
			if got := rr.Header().Get("Access-Control-Expose-Headers"); got != tc.wantExposeHdr {
				t.Errorf("expected Expose-Headers=%q, got %q", tc.wantExposeHdr, got)
			}
		})
	}
}

func TestCORSPreflightAdvertisesMaxAge(t *testing.T) {
	cfg := &config.Config{CORSAllowedOrigins: []string{"https://app.example.com"}}
	handler := CORSMiddleware(cfg, http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodOptions, "/v1/sessions", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("expected Max-Age=600, got %q", got)
	}
	if got := rr.Header().Get("Vary"); got != "Origin" {
		t.Errorf("expected Vary=Origin, got %q", got)
	}
}
