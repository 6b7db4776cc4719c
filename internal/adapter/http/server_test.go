package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
	"github.com/couchcryptid/climate-risk-engine/internal/engine"
	"github.com/couchcryptid/climate-risk-engine/internal/observability"
	"github.com/couchcryptid/climate-risk-engine/internal/premium"
	"github.com/couchcryptid/climate-risk-engine/internal/stress"
	"github.com/couchcryptid/climate-risk-engine/internal/synthetic"
)

type stubAnalyzer struct {
	runErr   error
	readyErr error
	report   engine.Report
}

func (s *stubAnalyzer) Run(_ context.Context, _ engine.Request) (engine.Report, error) {
	return s.report, s.runErr
}

func (s *stubAnalyzer) CheckReadiness(_ context.Context) error {
	return s.readyErr
}

func testServer(analyzer Analyzer) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(":0", analyzer, logger)
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(&stubAnalyzer{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("unavailable before the first run", func(t *testing.T) {
		srv := testServer(&stubAnalyzer{readyErr: errors.New("no runs yet")})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("ready once the analyzer reports ready", func(t *testing.T) {
		srv := testServer(&stubAnalyzer{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(&stubAnalyzer{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeEndpoint(t *testing.T) {
	t.Run("malformed body is a bad request", func(t *testing.T) {
		srv := testServer(&stubAnalyzer{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader("{not json"))
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("caller errors map to 400", func(t *testing.T) {
		srv := testServer(&stubAnalyzer{
			runErr: &domain.ConfigError{Field: "loans", Value: 0, Reason: "portfolio is empty"},
		})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader("{}"))
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "portfolio is empty")
	})

	t.Run("malformed loss tables map to 400", func(t *testing.T) {
		srv := testServer(&stubAnalyzer{runErr: domain.ErrNonMonotonicLosses})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader("{}"))
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unexpected failures map to 500", func(t *testing.T) {
		srv := testServer(&stubAnalyzer{runErr: errors.New("boom")})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader("{}"))
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("wrong method is rejected", func(t *testing.T) {
		srv := testServer(&stubAnalyzer{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analyze", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestAnalyzeEndToEnd(t *testing.T) {
	p, err := synthetic.Generate(synthetic.Config{Seed: 3, Loans: 15, BaselineYear: 2023})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := engine.New(stress.NewEngine(4), premium.NewEngine(nil), logger, observability.NewMetricsForTesting())
	srv := testServer(analyzer)

	body, err := json.Marshal(engine.Request{
		Loans:     p.Loans,
		Hazards:   p.Hazards,
		Scenarios: p.Scenarios,
		Objective: domain.BusinessObjective{MaxAmplificationFactor: 2.0},
		Pricing: premium.RiskParams{
			CorrelationFactor:      0.5,
			UncertaintyCoefficient: 0.2,
			ExpenseRatio:           0.3,
			ProfitMargin:           0.1,
		},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(body))
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var report engine.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Len(t, report.StressCells, 16)
	assert.Len(t, report.Premiums, 15)

	t.Run("server reports ready afterwards", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
