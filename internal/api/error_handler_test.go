package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/finscope/estimates-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"duplicate", domain.ErrDuplicateUsername, http.StatusBadRequest, "username already registered"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "incorrect username or password"},
		{"unauthorized wrapped", fmt.Errorf("missing header: %w", domain.ErrUnauthorized), http.StatusUnauthorized, "could not validate credentials"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "cannot access estimates of another user"},
		{"not found", &domain.EstimateNotFoundError{Kind: domain.KindGrowth}, http.StatusNotFound, "no growth estimate found for this ticker"},
		{"invalid periods", &domain.InvalidPeriodsError{Kind: domain.KindEarnings, Missing: []string{"nextYear"}}, http.StatusInternalServerError, "invalid periods for earnings estimate: missing nextYear"},
		{"upstream", &domain.UpstreamError{Op: "quote", Err: errors.New("secret-internal-host:443 refused")}, http.StatusInternalServerError, "failed to fetch market data"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var logs bytes.Buffer
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.New(&logs))(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			want := `{"error":"` + tc.msg + `"}`
			if strings.TrimSpace(rec.Body.String()) != want {
				t.Fatalf("expected body %s, got %s", want, rec.Body.String())
			}
			if strings.Contains(rec.Body.String(), "secret-internal-host") {
				t.Fatalf("cause leaked to client")
			}
		})
	}
}

func TestHTTPErrorHandler_WWWAuthenticate(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrUnauthorized, c)

	if got := rec.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Fatalf("expected WWW-Authenticate: Bearer, got %q", got)
	}
}

func TestHTTPErrorHandler_LogsUnexpected(t *testing.T) {
	var logs bytes.Buffer
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	NewHTTPErrorHandler(zerolog.New(&logs))(errors.New("disk on fire"), c)

	if !strings.Contains(logs.String(), "disk on fire") {
		t.Fatalf("expected cause in logs, got %q", logs.String())
	}
}

func TestHTTPErrorHandler_SkipsCommitted(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Body.String() != "done" {
		t.Fatalf("committed response was modified: %q", rec.Body.String())
	}
}

func TestStatusOf(t *testing.T) {
	if got := statusOf(domain.ErrForbidden); got != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", got)
	}
	if got := statusOf(fmt.Errorf("wrapped: %w", domain.ErrUnauthorized)); got != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", got)
	}
	if got := statusOf(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got)
	}
}
