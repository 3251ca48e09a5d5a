package handlers

import (
	"errors"
	"net/http"

	"github.com/shritish20/Volguard-4/internal/history"
	"github.com/shritish20/Volguard-4/internal/volatility"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// garchHorizon is the forecast length in business days
const garchHorizon = 7

// VolatilityHandler serves historical and forecast volatility computed over
// the index close history.
type VolatilityHandler struct {
	loader *history.Loader
	logger *logger.Logger
}

// NewVolatilityHandler creates a new volatility handler
func NewVolatilityHandler(loader *history.Loader, log *logger.Logger) *VolatilityHandler {
	return &VolatilityHandler{loader: loader, logger: log}
}

// GetHistorical handles GET /api/volatility/historical?period=7d|30d|1y|all
func (h *VolatilityHandler) GetHistorical(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "all"
	}

	series, err := h.loader.Load(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load historical data")
		respondError(w, http.StatusBadGateway, "Failed to load historical data")
		return
	}

	results, err := volatility.Historical(series.Closes(), period)
	if errors.Is(err, volatility.ErrUnknownPeriod) {
		respondError(w, http.StatusBadRequest, "Invalid period. Choose from '7d', '30d', '1y', 'all'.")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Historical volatility failed")
		respondError(w, http.StatusInternalServerError, "Historical volatility calculation failed")
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// GetGARCH handles GET /api/volatility/garch
func (h *VolatilityHandler) GetGARCH(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	series, err := h.loader.Load(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load historical data")
		respondError(w, http.StatusBadGateway, "Failed to load historical data")
		return
	}

	forecasts, err := volatility.ForecastGARCH(series.Closes(), series.LastDate(), garchHorizon)
	if errors.Is(err, volatility.ErrInsufficientData) {
		respondError(w, http.StatusBadRequest, "Not enough historical data to fit GARCH model")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("GARCH forecast failed")
		respondError(w, http.StatusInternalServerError, "GARCH prediction failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"7_day_garch_forecast": forecasts,
	})
}
