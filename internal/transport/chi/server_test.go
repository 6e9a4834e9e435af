package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kailas-cloud/researcher/internal/domain"
	healthuc "github.com/kailas-cloud/researcher/internal/usecase/health"
)

// --- Mocks ---

type mockResearcher struct {
	answer   domain.Answer
	err      error
	question string
	panic    bool
}

func (m *mockResearcher) Run(_ context.Context, q string) (domain.Answer, error) {
	if m.panic {
		panic("boom")
	}
	m.question = q
	return m.answer, m.err
}

type mockHealth struct{ report healthuc.Report }

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

func newTestRouter(r *mockResearcher, h *mockHealth, keys ...string) http.Handler {
	if h == nil {
		h = &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}}
	}
	return NewRouter(NewServer(r, h, nil), RouterConfig{
		APIKeys:     keys,
		CORSOrigins: []string{"http://localhost:5173"},
	})
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// --- Query ---

func TestQuery_OK(t *testing.T) {
	r := &mockResearcher{answer: domain.Answer{
		Status:    domain.StatusComplete,
		Answer:    "Newton [1].",
		Citations: []domain.Citation{{ID: 1, Title: "Newton", URL: "https://a"}},
	}}
	rr := doRequest(t, newTestRouter(r, nil), http.MethodPost, "/api/query", `{"question":"Who discovered gravity?"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	if r.question != "Who discovered gravity?" {
		t.Errorf("question = %q", r.question)
	}
	var got domain.Answer
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != domain.StatusComplete || len(got.Citations) != 1 || got.Citations[0].ID != 1 {
		t.Errorf("unexpected answer %+v", got)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestQuery_InvalidJSON(t *testing.T) {
	rr := doRequest(t, newTestRouter(&mockResearcher{}, nil), http.MethodPost, "/api/query", `{"question":`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestQuery_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
		code string
	}{
		{domain.ErrEmptyQuestion, http.StatusBadRequest, CodeValidationFailed},
		{fmt.Errorf("reflect: %w", domain.ErrMalformedOutput), http.StatusBadGateway, CodeMalformedOutput},
		{fmt.Errorf("generate: %w", domain.ErrModelProvider), http.StatusBadGateway, CodeModelProvider},
		{fmt.Errorf("search: %w", domain.ErrSearchProvider), http.StatusBadGateway, CodeSearchProvider},
		{errors.New("redis: connection refused"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rr := doRequest(t, newTestRouter(&mockResearcher{err: tt.err}, nil),
				http.MethodPost, "/api/query", `{"question":"q"}`)

			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if errResp.Code != tt.code {
				t.Errorf("code = %q, want %q", errResp.Code, tt.code)
			}
			if strings.Contains(errResp.Message, "redis") {
				t.Errorf("internal details leaked: %q", errResp.Message)
			}
		})
	}
}

func TestQuery_PanicRecovered(t *testing.T) {
	rr := doRequest(t, newTestRouter(&mockResearcher{panic: true}, nil), http.MethodPost, "/api/query", `{"question":"q"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestQuery_RequiresAuthWhenConfigured(t *testing.T) {
	h := newTestRouter(&mockResearcher{}, nil, "secret")

	rr := doRequest(t, h, http.MethodPost, "/api/query", `{"question":"q"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestQuery_MethodNotAllowed(t *testing.T) {
	rr := doRequest(t, newTestRouter(&mockResearcher{}, nil), http.MethodGet, "/api/query", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rr.Code)
	}
}

// --- CORS ---

func TestCORS_Preflight(t *testing.T) {
	h := newTestRouter(&mockResearcher{}, nil, "secret")

	req := httptest.NewRequest(http.MethodOptions, "/api/query", http.NoBody)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}
	if rr.Code == http.StatusUnauthorized {
		t.Error("preflight must not require auth")
	}
}

func TestCORS_UnknownOrigin(t *testing.T) {
	h := newTestRouter(&mockResearcher{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"question":"q"}`))
	req.Header.Set("Origin", "http://evil.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected allow origin %q", got)
	}
}

// --- Health ---

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		status healthuc.Status
		want   int
	}{
		{"ok", healthuc.Healthy, http.StatusOK},
		{"degraded", healthuc.Degraded, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &mockHealth{report: healthuc.Report{
				Status: tt.status,
				Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
			}}
			rr := doRequest(t, newTestRouter(&mockResearcher{}, h, "secret"), http.MethodGet, "/health", "")

			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			var body map[string]any
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["status"] != string(tt.status) {
				t.Errorf("status field = %v", body["status"])
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rr := doRequest(t, newTestRouter(&mockResearcher{}, nil, "secret"), http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
}
