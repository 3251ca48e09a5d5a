package handlers

import (
	"errors"
	"net/http"

	"github.com/shritish20/Volguard-4/internal/backtest"
	"github.com/shritish20/Volguard-4/internal/chain"
	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/internal/external/upstox"
	"github.com/shritish20/Volguard-4/internal/history"
	"github.com/shritish20/Volguard-4/internal/strategy"
	"github.com/shritish20/Volguard-4/pkg/config"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// StrategyHandler builds strategy legs from live chains, optionally routes
// them to the broker, and runs simulated backtests.
type StrategyHandler struct {
	broker     *upstox.Client
	normalizer *chain.Normalizer
	trackers   *chain.TrackerRegistry
	builder    *strategy.Builder
	engine     *backtest.Engine
	loader     *history.Loader
	cfg        config.UpstoxConfig
	logger     *logger.Logger
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(
	broker *upstox.Client,
	normalizer *chain.Normalizer,
	trackers *chain.TrackerRegistry,
	builder *strategy.Builder,
	engine *backtest.Engine,
	loader *history.Loader,
	cfg config.UpstoxConfig,
	log *logger.Logger,
) *StrategyHandler {
	return &StrategyHandler{
		broker:     broker,
		normalizer: normalizer,
		trackers:   trackers,
		builder:    builder,
		engine:     engine,
		loader:     loader,
		cfg:        cfg,
		logger:     log,
	}
}

// LegsRequest describes the strategy to construct
type LegsRequest struct {
	Strategy    string  `json:"strategy"`
	Quantity    int     `json:"quantity"`
	OTMDistance float64 `json:"otm_distance"`
	Expiry      string  `json:"expiry,omitempty"`
}

// LegsResponse is the constructed leg set plus its premium estimate
type LegsResponse struct {
	Strategy              string                  `json:"strategy"`
	Expiry                string                  `json:"expiry"`
	SpotPrice             float64                 `json:"spot_price"`
	Legs                  []contracts.StrategyLeg `json:"legs"`
	EstimatedEntryPremium float64                 `json:"estimated_entry_premium"`
}

// ExecuteResponse extends LegsResponse with broker acknowledgements
type ExecuteResponse struct {
	LegsResponse
	OrderResults []upstox.OrderResult `json:"order_results"`
	TradePnL     float64              `json:"trade_pnl"`
}

// BacktestRequest configures a simulated run over the historical series
type BacktestRequest struct {
	Strategy string `json:"strategy"`
	Quantity int    `json:"quantity"`
	Period   int    `json:"period"`
}

// BuildLegs handles POST /api/strategy/legs
func (h *StrategyHandler) BuildLegs(w http.ResponseWriter, r *http.Request) {
	var req LegsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, status, msg := h.buildLegs(r, &req)
	if msg != "" {
		respondError(w, status, msg)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Execute handles POST /api/strategy/execute: build the legs, then place one
// market order per leg. Legs whose orders fail are reported, not rolled
// back; partial fills are resolved by the operator.
func (h *StrategyHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LegsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	legsResp, status, msg := h.buildLegs(r, &req)
	if msg != "" {
		respondError(w, status, msg)
		return
	}

	resp := ExecuteResponse{LegsResponse: *legsResp}
	for _, leg := range legsResp.Legs {
		result, err := h.broker.PlaceLeg(ctx, leg)
		if err != nil {
			h.logger.WithError(err).WithField("instrument", leg.InstrumentKey).Error("Order placement failed")
			continue
		}
		resp.OrderResults = append(resp.OrderResults, *result)

		pnl, err := h.broker.TradePnL(ctx, result.OrderID)
		if err != nil {
			h.logger.WithError(err).WithField("order_id", result.OrderID).Warn("Failed to fetch trade P&L")
			continue
		}
		resp.TradePnL += pnl
	}

	respondJSON(w, http.StatusOK, resp)
}

// Backtest handles POST /api/strategy/backtest
func (h *StrategyHandler) Backtest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BacktestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Period <= 0 {
		req.Period = 365
	}
	if req.Quantity <= 0 {
		req.Quantity = 75
	}

	series, err := h.loader.Load(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load historical data")
		respondError(w, http.StatusBadGateway, "Failed to load historical data")
		return
	}

	result, err := h.engine.Run(series, req.Strategy, req.Quantity, req.Period)
	switch {
	case errors.Is(err, strategy.ErrInvalidStrategy):
		respondError(w, http.StatusBadRequest, "Unknown strategy: "+req.Strategy)
		return
	case errors.Is(err, backtest.ErrInsufficientData):
		respondError(w, http.StatusBadRequest, "Not enough data for the specified backtesting period")
		return
	case err != nil:
		h.logger.WithError(err).Error("Backtest failed")
		respondError(w, http.StatusInternalServerError, "Backtest failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// buildLegs runs the fetch-normalize-build pipeline shared by BuildLegs and
// Execute. A non-empty message means the request failed with the returned
// status.
func (h *StrategyHandler) buildLegs(r *http.Request, req *LegsRequest) (*LegsResponse, int, string) {
	ctx := r.Context()

	if req.Expiry == "" {
		expiry, err := h.broker.NearestExpiry(ctx)
		if err != nil {
			h.logger.WithError(err).Error("Failed to resolve nearest expiry")
			return nil, http.StatusBadGateway, "Failed to retrieve nearest expiry date"
		}
		req.Expiry = expiry
	}
	if req.Quantity <= 0 {
		req.Quantity = 75
	}
	if req.OTMDistance <= 0 {
		req.OTMDistance = 100
	}

	records, err := h.broker.FetchChain(ctx, req.Expiry)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch option chain")
		return nil, http.StatusBadGateway, "Failed to retrieve option chain data"
	}

	tracker := h.trackers.For(h.cfg.InstrumentKey, req.Expiry)
	rows, spot := h.normalizer.Normalize(records, tracker)

	legs, err := h.builder.Build(rows, spot, req.Strategy, req.Quantity, req.OTMDistance)
	switch {
	case errors.Is(err, strategy.ErrInvalidStrategy):
		return nil, http.StatusBadRequest, "Unknown strategy: " + req.Strategy
	case errors.Is(err, strategy.ErrEmptyChain), errors.Is(err, strategy.ErrNoValidLegs):
		return nil, http.StatusBadRequest, "No valid legs could be built for " + req.Strategy
	case err != nil:
		h.logger.WithError(err).Error("Leg construction failed")
		return nil, http.StatusInternalServerError, "Leg construction failed"
	}

	return &LegsResponse{
		Strategy:              req.Strategy,
		Expiry:                req.Expiry,
		SpotPrice:             spot,
		Legs:                  legs,
		EstimatedEntryPremium: contracts.EntryPremium(legs),
	}, http.StatusOK, ""
}
