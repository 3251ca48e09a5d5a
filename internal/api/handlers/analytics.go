package handlers

import (
	"net/http"

	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/internal/discipline"
	"github.com/shritish20/Volguard-4/internal/regime"
	"github.com/shritish20/Volguard-4/internal/risk"
	"github.com/shritish20/Volguard-4/internal/trades"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// AnalyticsHandler serves the trade log, performance and discipline
// analytics, and the stateless regime/risk scoring endpoints.
type AnalyticsHandler struct {
	repo       *trades.Repository
	scorer     *discipline.Scorer
	classifier *regime.Classifier
	gate       *risk.Gate
	logger     *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(
	repo *trades.Repository,
	scorer *discipline.Scorer,
	classifier *regime.Classifier,
	gate *risk.Gate,
	log *logger.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		repo:       repo,
		scorer:     scorer,
		classifier: classifier,
		gate:       gate,
		logger:     log,
	}
}

// LogTrade handles POST /api/analytics/trades
func (h *AnalyticsHandler) LogTrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var trade contracts.TradeRecord
	if !decodeBody(w, r, &trade) {
		return
	}
	if trade.Strategy == "" {
		respondError(w, http.StatusBadRequest, "strategy is required")
		return
	}

	if err := h.repo.Append(ctx, &trade); err != nil {
		h.logger.WithError(err).Error("Failed to log trade")
		respondError(w, http.StatusInternalServerError, "Failed to log trade")
		return
	}

	respondJSON(w, http.StatusCreated, trade)
}

// GetPerformance handles GET /api/analytics/performance
func (h *AnalyticsHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	history, err := h.repo.List(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read trade history")
		respondError(w, http.StatusInternalServerError, "Failed to read trade history")
		return
	}

	respondJSON(w, http.StatusOK, discipline.Performance(history))
}

// GetDiscipline handles GET /api/analytics/discipline
func (h *AnalyticsHandler) GetDiscipline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	history, err := h.repo.List(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read trade history")
		respondError(w, http.StatusInternalServerError, "Failed to read trade history")
		return
	}

	respondJSON(w, http.StatusOK, h.scorer.Score(history))
}

// ScoreRegime handles POST /api/regime/score
func (h *AnalyticsHandler) ScoreRegime(w http.ResponseWriter, r *http.Request) {
	var input contracts.RegimeInput
	if !decodeBody(w, r, &input) {
		return
	}

	respondJSON(w, http.StatusOK, h.classifier.Classify(input))
}

// CheckRisk handles POST /api/risk/check
func (h *AnalyticsHandler) CheckRisk(w http.ResponseWriter, r *http.Request) {
	var input contracts.RiskCheckInput
	if !decodeBody(w, r, &input) {
		return
	}

	respondJSON(w, http.StatusOK, h.gate.Check(input))
}
