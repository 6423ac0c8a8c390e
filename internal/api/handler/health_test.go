package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/finscope/estimates-api/internal/core/ports"
)

func probe(name string, err error) ports.DependencyProbe {
	return ports.DependencyProbe{Name: name, Ping: func(context.Context) error { return err }}
}

func TestHealthHandler_Liveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()

	if err := NewHealthHandler(zerolog.Nop()).Liveness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	cases := []struct {
		name   string
		probes []ports.DependencyProbe
		code   int
		status string
	}{
		{"no dependencies", nil, http.StatusOK, "ok"},
		{"all healthy", []ports.DependencyProbe{probe("mongo", nil), probe("redis", nil)}, http.StatusOK, "ok"},
		{"one down", []ports.DependencyProbe{probe("mongo", nil), probe("redis", errors.New("refused"))}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewHealthHandler(zerolog.Nop(), tc.probes...).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tc.status || len(resp.Dependencies) != len(tc.probes) {
				t.Fatalf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestHealthHandler_Readiness_HidesCause(t *testing.T) {
	var logs bytes.Buffer
	cause := errors.New("dial tcp db.internal:5432: password authentication failed for user admin")

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

	if err := NewHealthHandler(zerolog.New(&logs), probe("postgres", cause)).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if strings.Contains(rec.Body.String(), "db.internal") || strings.Contains(rec.Body.String(), "admin") {
		t.Fatalf("dependency error leaked: %s", rec.Body.String())
	}
	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Dependencies["postgres"].Status != "unhealthy" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !strings.Contains(logs.String(), "db.internal") {
		t.Fatalf("expected cause in logs, got %q", logs.String())
	}
}
