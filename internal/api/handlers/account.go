package handlers

import (
	"errors"
	"net/http"

	"github.com/shritish20/Volguard-4/internal/external/upstox"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// AccountHandler exposes the broker account surface: profile and funds
type AccountHandler struct {
	broker *upstox.Client
	logger *logger.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(broker *upstox.Client, log *logger.Logger) *AccountHandler {
	return &AccountHandler{broker: broker, logger: log}
}

// GetProfile handles GET /api/account/profile
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.broker.UserProfile(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch user profile")
		respondError(w, http.StatusBadGateway, "Failed to retrieve user profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// GetFunds handles GET /api/account/funds
func (h *AccountHandler) GetFunds(w http.ResponseWriter, r *http.Request) {
	funds, err := h.broker.FundsAndMargin(r.Context())
	if errors.Is(err, upstox.ErrFundsWindowClosed) {
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch funds")
		respondError(w, http.StatusBadGateway, "Failed to retrieve funds and margin")
		return
	}

	respondJSON(w, http.StatusOK, funds)
}
