package api

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairs-analytics-go/market"
	"pairs-analytics-go/pipeline"
)

func newTestServer(t *testing.T, bars int) *Server {
	t.Helper()
	reg := market.NewRegistry(0)
	rng := rand.New(rand.NewSource(11))
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	x := 100.0
	resid := 0.0
	for i := 0; i < bars; i++ {
		ts := base.Add(time.Duration(i) * time.Second)
		x += rng.NormFloat64() * 0.1
		resid = 0.8*resid + rng.NormFloat64()*0.05
		reg.Buffer("btcusdt").Append(market.Tick{Symbol: "btcusdt", TS: ts, Price: 2*x + resid, Size: 1})
		reg.Buffer("ethusdt").Append(market.Tick{Symbol: "ethusdt", TS: ts, Price: x, Size: 1})
	}

	pipe := pipeline.New(reg, time.Second, 50, 2.0, 300, pipeline.Options{})
	return New(pipe, reg, nil)
}

func get(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return rec, body
}

func TestSpreadEndpoint(t *testing.T) {
	s := newTestServer(t, 200)
	rec, body := get(t, s, "/analytics/spread?symbol_y=btcusdt&symbol_x=ethusdt")

	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := body["data"].([]any)
	require.True(t, ok, "expected a data array, got %v", body)
	assert.NotEmpty(t, data)
	assert.Contains(t, body, "half_life")
}

func TestSpreadEndpoint_MissingSymbols(t *testing.T) {
	s := newTestServer(t, 200)
	rec, body := get(t, s, "/analytics/spread?symbol_y=btcusdt")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "required")
}

func TestSpreadEndpoint_BadWindow(t *testing.T) {
	s := newTestServer(t, 200)
	rec, _ := get(t, s, "/analytics/spread?symbol_y=btcusdt&symbol_x=ethusdt&window=1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSpreadEndpoint_InsufficientDataIs200(t *testing.T) {
	s := newTestServer(t, 5)
	rec, body := get(t, s, "/analytics/spread?symbol_y=btcusdt&symbol_x=ethusdt")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Not enough data yet", body["error"])
}

func TestADFEndpoint(t *testing.T) {
	s := newTestServer(t, 400)
	rec, body := get(t, s, "/analytics/adf?symbol_y=btcusdt&symbol_x=ethusdt")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "adf_stat")
	assert.Contains(t, body, "p_value")
}

func TestSignalQualityEndpoint(t *testing.T) {
	s := newTestServer(t, 400)
	rec, body := get(t, s, "/analytics/signal-quality?symbol_y=btcusdt&symbol_x=ethusdt")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, []any{"LOW", "MEDIUM", "HIGH"}, body["quality"])
}

func TestTradePermissionEndpoint(t *testing.T) {
	s := newTestServer(t, 400)
	rec, body := get(t, s, "/analytics/trade-permission?symbol_y=btcusdt&symbol_x=ethusdt")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, []any{"TRADEABLE", "CAUTION", "NO_TRADE"}, body["status"])
	assert.Contains(t, body, "issues")
}

func TestBacktestEndpoint(t *testing.T) {
	s := newTestServer(t, 400)
	rec, body := get(t, s, "/analytics/backtest?symbol_y=btcusdt&symbol_x=ethusdt")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "total_pnl")
	assert.Contains(t, body, "num_trades")
	assert.Contains(t, body, "win_rate")
}

func TestZScoreAlertEndpoint(t *testing.T) {
	s := newTestServer(t, 200)
	rec, body := get(t, s, "/alert/zscore?symbol_y=btcusdt&symbol_x=ethusdt&threshold=100")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["triggered"])
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, 10)
	rec, body := get(t, s, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	symbols, ok := body["symbols"].(map[string]any)
	require.True(t, ok)
	btc, ok := symbols["btcusdt"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(10), btc["ticks"])
}
