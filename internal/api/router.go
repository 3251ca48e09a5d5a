package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/shritish20/Volguard-4/internal/api/handlers"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// RouterDeps collects the handlers wired into the HTTP surface
type RouterDeps struct {
	Market     *handlers.MarketHandler
	Strategy   *handlers.StrategyHandler
	Analytics  *handlers.AnalyticsHandler
	Volatility *handlers.VolatilityHandler
	Account    *handlers.AccountHandler
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps RouterDeps, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Market data
	api.HandleFunc("/market/option-chain", deps.Market.GetOptionChain).Methods("POST")

	// Strategy construction and execution
	api.HandleFunc("/strategy/legs", deps.Strategy.BuildLegs).Methods("POST")
	api.HandleFunc("/strategy/execute", deps.Strategy.Execute).Methods("POST")
	api.HandleFunc("/strategy/backtest", deps.Strategy.Backtest).Methods("POST")

	// Trade analytics
	api.HandleFunc("/analytics/trades", deps.Analytics.LogTrade).Methods("POST")
	api.HandleFunc("/analytics/performance", deps.Analytics.GetPerformance).Methods("GET")
	api.HandleFunc("/analytics/discipline", deps.Analytics.GetDiscipline).Methods("GET")

	// Scoring
	api.HandleFunc("/regime/score", deps.Analytics.ScoreRegime).Methods("POST")
	api.HandleFunc("/risk/check", deps.Analytics.CheckRisk).Methods("POST")

	// Volatility
	api.HandleFunc("/volatility/historical", deps.Volatility.GetHistorical).Methods("GET")
	api.HandleFunc("/volatility/garch", deps.Volatility.GetGARCH).Methods("GET")

	// Broker account
	api.HandleFunc("/account/profile", deps.Account.GetProfile).Methods("GET")
	api.HandleFunc("/account/funds", deps.Account.GetFunds).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "volguard-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
