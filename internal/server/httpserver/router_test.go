package httpserver

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yndnr/respkv/internal/telemetry/metric"
)

func TestRouter_Metrics(t *testing.T) {
	reg := metric.NewRegistry()
	reg.ObserveCommand("PING", metric.StatusOK, 0)

	router := NewRouter(&RouterConfig{Metrics: reg})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `respkv_commands_total{command="PING",status="ok"} 1`) {
		t.Errorf("metrics output missing command counter:\n%s", body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header on /metrics")
	}
}

func TestRouter_NoMetrics(t *testing.T) {
	router := NewRouter(&RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 without a registry, got %d", rec.Code)
	}
}

func TestRouter_Probes(t *testing.T) {
	router := NewRouter(&RouterConfig{
		Ready: func() error { return errors.New("starting") },
	})

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/ready", http.StatusServiceUnavailable},
		{"/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
			}
		})
	}
}
