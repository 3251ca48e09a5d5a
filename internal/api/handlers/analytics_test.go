package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/internal/discipline"
	"github.com/shritish20/Volguard-4/internal/regime"
	"github.com/shritish20/Volguard-4/internal/risk"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

func newAnalyticsHandler() *AnalyticsHandler {
	log := logger.NewNop()
	return NewAnalyticsHandler(nil, discipline.NewScorer(log), regime.NewClassifier(log), risk.NewGate(log), log)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestScoreRegime(t *testing.T) {
	h := newAnalyticsHandler()

	rec := postJSON(t, h.ScoreRegime, `{"ivp": 75, "vix": 22, "pcr": 1.0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result contracts.RegimeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, 7, result.Score)
	assert.Equal(t, contracts.RegimeTrendFollowing, result.Regime)
	assert.Contains(t, result.Explanation, "Neutral PCR (1).")
}

func TestScoreRegimeBadBody(t *testing.T) {
	h := newAnalyticsHandler()

	rec := postJSON(t, h.ScoreRegime, `{"ivp": "high"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckRiskBlocks(t *testing.T) {
	h := newAnalyticsHandler()

	rec := postJSON(t, h.CheckRisk, `{
		"strategy": "iron_fly",
		"max_loss_allowed": 900,
		"estimated_loss": 1000,
		"daily_pnl": 0,
		"max_daily_limit": 5000,
		"iv_rv_ratio": 1.0
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var decision contracts.RiskDecision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))

	assert.Equal(t, contracts.RiskBlock, decision.Status)
	require.Len(t, decision.Alerts, 1)
	assert.Equal(t, "Max loss exceeded: Projected loss 1000.00 > Allowed 900.00", decision.Alerts[0])
}

func TestCheckRiskAllows(t *testing.T) {
	h := newAnalyticsHandler()

	rec := postJSON(t, h.CheckRisk, `{
		"strategy": "iron_condor",
		"max_loss_allowed": 2000,
		"estimated_loss": 1000,
		"daily_pnl": 500,
		"max_daily_limit": 5000,
		"iv_rv_ratio": 0.9
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var decision contracts.RiskDecision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))

	assert.Equal(t, contracts.RiskAllow, decision.Status)
	assert.Empty(t, decision.Alerts)
}
