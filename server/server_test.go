package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	apperrors "github.com/kbukum/lazyseq/errors"
	"github.com/kbukum/lazyseq/logger"
	"github.com/kbukum/lazyseq/observability"
	"github.com/kbukum/lazyseq/server/middleware"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	metrics, err := observability.NewStageMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewStageMetrics: %v", err)
	}
	return New(Config{}, logger.NewNop(), metrics)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

type reportBody struct {
	RunID       string `json:"run_id"`
	Mode        string `json:"mode"`
	Printed     []int  `json:"printed"`
	Result      []int  `json:"result"`
	SourcePulls int    `json:"source_pulls"`
}

func TestHealth(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %q", body["status"])
	}
	if rr.Header().Get(middleware.HeaderRequestID) == "" {
		t.Error("expected a request id header")
	}
}

func TestVersion(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodGet, "/version", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["version"] == "" || body["version"] == nil {
		t.Errorf("missing version in %v", body)
	}
}

func TestEvaluate_DefaultsToLazy(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodPost, "/v1/evaluate", "{}")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Data reportBody `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Data.Mode != "lazy" || resp.Data.SourcePulls != 3 {
		t.Errorf("unexpected report %+v", resp.Data)
	}
	if len(resp.Data.Printed) != 1 || resp.Data.Printed[0] != 4 {
		t.Errorf("printed = %v", resp.Data.Printed)
	}
}

func TestEvaluate_EmptyBody(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodPost, "/v1/evaluate", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for an empty body, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestEvaluate_Eager(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodPost, "/v1/evaluate", `{"mode":"eager"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Data reportBody `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Data.Printed) != 3 || resp.Data.SourcePulls != 5 {
		t.Errorf("unexpected eager report %+v", resp.Data)
	}
}

func TestEvaluate_Both(t *testing.T) {
	body := `{"source":[5,6,7,8],"threshold":5,"factor":10,"take":2,"mode":"both"}`
	rr := do(t, newTestServer(t), http.MethodPost, "/v1/evaluate", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Data struct {
			Lazy  reportBody `json:"lazy"`
			Eager reportBody `json:"eager"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, r := range []reportBody{resp.Data.Lazy, resp.Data.Eager} {
		if len(r.Result) != 2 || r.Result[0] != 60 || r.Result[1] != 70 {
			t.Errorf("%s result = %v, want [60 70]", r.Mode, r.Result)
		}
	}
	if resp.Data.Lazy.SourcePulls != 3 || resp.Data.Eager.SourcePulls != 4 {
		t.Errorf("pulls lazy=%d eager=%d", resp.Data.Lazy.SourcePulls, resp.Data.Eager.SourcePulls)
	}
}

func TestEvaluate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code apperrors.ErrorCode
	}{
		{"negative take", `{"take":-1}`, apperrors.ErrCodeInvalidInput},
		{"unknown mode", `{"mode":"sideways"}`, apperrors.ErrCodeInvalidInput},
		{"malformed json", `{"take":`, apperrors.ErrCodeInvalidFormat},
		{"wrong type", `{"take":"three"}`, apperrors.ErrCodeInvalidFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, newTestServer(t), http.MethodPost, "/v1/evaluate", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
			var resp apperrors.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.Error.Code != tc.code {
				t.Errorf("code = %s, want %s", resp.Error.Code, tc.code)
			}
		})
	}
}

func TestNoRoute(t *testing.T) {
	rr := do(t, newTestServer(t), http.MethodGet, "/v2/missing", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var resp apperrors.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Error.Code != apperrors.ErrCodeNotFound {
		t.Errorf("code = %s", resp.Error.Code)
	}
}

func TestEvaluate_BodyTooLarge(t *testing.T) {
	s := New(Config{MaxBodyBytes: 16}, logger.NewNop(), nil)
	rr := do(t, s, http.MethodPost, "/v1/evaluate", `{"source":[1,2,3,4,5,6,7,8,9,10]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestEvaluate_Timeout(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"lazy", `{"source":[0,1,2,3,4]}`},
		{"both", `{"mode":"both"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(Config{EvaluateTimeout: time.Nanosecond}, logger.NewNop(), nil)
			rr := do(t, s, http.MethodPost, "/v1/evaluate", tc.body)
			if rr.Code != http.StatusGatewayTimeout {
				t.Fatalf("expected 504, got %d: %s", rr.Code, rr.Body.String())
			}
			var resp apperrors.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.Error.Code != apperrors.ErrCodeTimeout {
				t.Errorf("code = %s, want %s", resp.Error.Code, apperrors.ErrCodeTimeout)
			}
		})
	}
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "lazyseq", &buf)
	s := New(Config{}, log, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", strings.NewReader("{}"))
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	if rr.Header().Get(middleware.HeaderRequestID) != "req-42" {
		t.Errorf("request id not echoed: %q", rr.Header().Get(middleware.HeaderRequestID))
	}
	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-42"`) || !strings.Contains(out, "request completed") {
		t.Errorf("expected a request log line with the id, got %q", out)
	}
}

func TestStartStop(t *testing.T) {
	s := New(Config{Host: "127.0.0.1", Port: 0}, logger.NewNop(), nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Port != 8080 || cfg.ReadTimeout != 15*time.Second || cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}

	bad := []Config{
		{Port: 70000},
		{Port: 80, ReadTimeout: -time.Second},
		{Port: 80, WriteTimeout: -time.Second},
		{Port: 80, IdleTimeout: -time.Second},
		{Port: 80, MaxBodyBytes: -1},
		{Port: 80, EvaluateTimeout: -time.Second},
	}
	for _, c := range bad {
		if err := c.Validate(); !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
			t.Errorf("expected %+v to be rejected with INVALID_INPUT, got %v", c, err)
		}
	}
}
