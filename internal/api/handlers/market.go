package handlers

import (
	"net/http"
	"time"

	"github.com/shritish20/Volguard-4/internal/chain"
	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/internal/external/upstox"
	"github.com/shritish20/Volguard-4/internal/metrics"
	"github.com/shritish20/Volguard-4/pkg/config"
	"github.com/shritish20/Volguard-4/pkg/logger"
	"github.com/shritish20/Volguard-4/pkg/redis"
)

// MarketHandler serves live option chain snapshots: fetch from the broker,
// normalize, track OI deltas and compute aggregate metrics in one pass.
type MarketHandler struct {
	broker     *upstox.Client
	normalizer *chain.Normalizer
	trackers   *chain.TrackerRegistry
	calculator *metrics.Calculator
	cache      *redis.Cache
	cfg        config.UpstoxConfig
	logger     *logger.Logger
}

// NewMarketHandler creates a new market data handler
func NewMarketHandler(
	broker *upstox.Client,
	normalizer *chain.Normalizer,
	trackers *chain.TrackerRegistry,
	calculator *metrics.Calculator,
	cache *redis.Cache,
	cfg config.UpstoxConfig,
	log *logger.Logger,
) *MarketHandler {
	return &MarketHandler{
		broker:     broker,
		normalizer: normalizer,
		trackers:   trackers,
		calculator: calculator,
		cache:      cache,
		cfg:        cfg,
		logger:     log,
	}
}

// OptionChainRequest selects the chain to snapshot. Both fields are
// optional: the configured underlying and its nearest expiry are the
// defaults.
type OptionChainRequest struct {
	InstrumentKey string `json:"instrument_key,omitempty"`
	Expiry        string `json:"expiry,omitempty"`
}

// OptionChainResponse is one processed snapshot
type OptionChainResponse struct {
	InstrumentKey string                     `json:"instrument_key"`
	Expiry        string                     `json:"expiry"`
	Metrics       contracts.AggregateMetrics `json:"metrics"`
	Rows          []contracts.StrikeRow      `json:"rows"`
	Timestamp     time.Time                  `json:"timestamp"`
}

// GetOptionChain handles POST /api/market/option-chain
func (h *MarketHandler) GetOptionChain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OptionChainRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}
	if req.InstrumentKey == "" {
		req.InstrumentKey = h.cfg.InstrumentKey
	}

	if req.Expiry == "" {
		expiry, err := h.broker.NearestExpiry(ctx)
		if err != nil {
			h.logger.WithError(err).Error("Failed to resolve nearest expiry")
			respondError(w, http.StatusBadGateway, "Failed to retrieve nearest expiry date")
			return
		}
		req.Expiry = expiry
	}

	records, err := h.broker.FetchChain(ctx, req.Expiry)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch option chain")
		respondError(w, http.StatusBadGateway, "Failed to retrieve option chain data")
		return
	}

	tracker := h.trackers.For(req.InstrumentKey, req.Expiry)
	rows, spot := h.normalizer.Normalize(records, tracker)
	if len(rows) == 0 {
		respondError(w, http.StatusBadGateway, "Option chain is empty")
		return
	}

	resp := OptionChainResponse{
		InstrumentKey: req.InstrumentKey,
		Expiry:        req.Expiry,
		Metrics:       h.calculator.Compute(rows, spot),
		Rows:          rows,
		Timestamp:     time.Now().UTC(),
	}

	if err := h.cache.Set(ctx, "metrics:"+req.InstrumentKey+":"+req.Expiry, resp.Metrics, 5*time.Minute); err != nil {
		h.logger.WithError(err).Warn("Failed to cache chain metrics")
	}

	respondJSON(w, http.StatusOK, resp)
}
