package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/muscle-plan/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/pricing/week", nil)
	req.RemoteAddr = remote
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRateLimit_BurstExhaustedReturns429(t *testing.T) {
	handler := RateLimitMiddleware(&config.Config{RateLimitRPS: 1, RateLimitBurst: 2}, okHandler())

	for i := 0; i < 2; i++ {
		if rr := hit(handler, "192.0.2.10:4000"); rr.Code != http.StatusOK {
			t.Fatalf("request %d within burst: expected 200, got %d", i, rr.Code)
		}
	}

	rr := hit(handler, "192.0.2.10:4001")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once burst is spent, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "1" {
		t.Errorf("expected Retry-After=1, got %q", rr.Header().Get("Retry-After"))
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error.Code != "rate_limited" {
		t.Errorf("expected code=rate_limited, got %q", body.Error.Code)
	}
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	handler := RateLimitMiddleware(&config.Config{}, okHandler())

	for i := 0; i < 20; i++ {
		if rr := hit(handler, "192.0.2.10:4000"); rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rr.Code)
		}
	}
}

func TestRateLimit_BurstDefaultsToRPS(t *testing.T) {
	handler := RateLimitMiddleware(&config.Config{RateLimitRPS: 3}, okHandler())

	for i := 0; i < 3; i++ {
		if rr := hit(handler, "192.0.2.20:1"); rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rr.Code)
		}
	}
	if rr := hit(handler, "192.0.2.20:1"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after 3 requests, got %d", rr.Code)
	}
	if rr := hit(handler, "192.0.2.21:1"); rr.Code != http.StatusOK {
		t.Fatalf("other client: expected 200, got %d", rr.Code)
	}
}

func TestRateLimit_UsesFirstForwardedFor(t *testing.T) {
	cfg := &config.Config{
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	}

	handler := RateLimitMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:443"
		req.Header.Set("X-Forwarded-For", xff)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send("203.0.113.7, 10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first client: expected 200, got %d", code)
	}
	if code := send("198.51.100.2, 10.0.0.1"); code != http.StatusOK {
		t.Fatalf("second client behind same proxy: expected 200, got %d", code)
	}
	if code := send("203.0.113.7"); code != http.StatusTooManyRequests {
		t.Fatalf("first client again: expected 429, got %d", code)
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"remote addr", "192.0.2.1:5000", "", "192.0.2.1"},
		{"remote addr without port", "192.0.2.1", "", "192.0.2.1"},
		{"forwarded chain", "10.0.0.1:80", " 203.0.113.9 ,10.0.0.1", "203.0.113.9"},
		{"empty forwarded hop", "10.0.0.1:80", ", 10.0.0.2", "10.0.0.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if got := clientIP(req); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestVisitorsSweepIdleClients(t *testing.T) {
	v := newVisitors(1, 1)
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }

	v.allow("192.0.2.1")
	v.allow("192.0.2.2")
	if v.len() != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", v.len())
	}

	now = now.Add(limiterIdleTTL + time.Minute)
	if !v.allow("192.0.2.3") {
		t.Fatal("expected new client to be allowed")
	}
	if v.len() != 1 {
		t.Errorf("expected idle clients to be swept, have %d", v.len())
	}
}
