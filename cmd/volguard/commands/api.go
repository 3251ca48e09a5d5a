package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shritish20/Volguard-4/internal/api"
	"github.com/shritish20/Volguard-4/internal/api/handlers"
	"github.com/shritish20/Volguard-4/internal/backtest"
	"github.com/shritish20/Volguard-4/internal/chain"
	"github.com/shritish20/Volguard-4/internal/discipline"
	"github.com/shritish20/Volguard-4/internal/external/upstox"
	"github.com/shritish20/Volguard-4/internal/history"
	"github.com/shritish20/Volguard-4/internal/metrics"
	"github.com/shritish20/Volguard-4/internal/regime"
	"github.com/shritish20/Volguard-4/internal/risk"
	"github.com/shritish20/Volguard-4/internal/strategy"
	"github.com/shritish20/Volguard-4/internal/trades"
	"github.com/shritish20/Volguard-4/pkg/config"
	"github.com/shritish20/Volguard-4/pkg/database"
	"github.com/shritish20/Volguard-4/pkg/httputil"
	"github.com/shritish20/Volguard-4/pkg/logger"
	"github.com/shritish20/Volguard-4/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

This command:
- Serves option chain snapshots and aggregate metrics
- Builds and executes multi-leg option strategies
- Exposes volatility, regime, risk and discipline analytics
- Streams order updates from the broker portfolio feed

Endpoints:
  GET  /health                     - Health check
  POST /api/market/option-chain    - Processed chain snapshot
  POST /api/strategy/legs          - Construct strategy legs
  POST /api/strategy/execute       - Place strategy orders
  POST /api/strategy/backtest      - Historical simulation
  POST /api/analytics/trades       - Log a trade
  GET  /api/analytics/performance  - Trade performance report
  GET  /api/analytics/discipline   - Discipline score
  POST /api/regime/score           - Volatility regime classification
  POST /api/risk/check             - Pre-trade risk gate
  GET  /api/volatility/historical  - Realized vol and HV
  GET  /api/volatility/garch       - 7-day GARCH forecast
  GET  /api/account/profile        - Broker profile
  GET  /api/account/funds          - Funds and margin

Example:
  go run ./cmd/volguard api
  go run ./cmd/volguard api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "8000", "API server port")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== VolGuard API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (optional; caching and rate limiting degrade gracefully)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewCache(redisClient, "volguard")
	limiter := redis.NewRateLimiter(redisClient, "volguard", redis.RateLimitConfig{
		Limit:  cfg.Upstox.RateLimit,
		Window: cfg.Upstox.RateWindow,
	})

	// 5. Create HTTP client and broker client
	httpClient := httputil.New(log)
	broker := upstox.NewClient(cfg.Upstox, httpClient, limiter, log)

	// 6. Create trade log repository
	tradeRepo := trades.NewRepository(db.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := tradeRepo.EnsureSchema(ctx); err != nil {
		cancel()
		return fmt.Errorf("ensure trade log schema: %w", err)
	}
	cancel()

	// 7. Create domain services
	normalizer := chain.NewNormalizer(log)
	trackers := chain.NewTrackerRegistry()
	calculator := metrics.NewCalculator(log)
	builder := strategy.NewBuilder(log)
	engine := backtest.NewEngine(builder, log)
	loader := history.NewLoader(httpClient, log, cfg.Data.HistoricalCSVURL)
	classifier := regime.NewClassifier(log)
	gate := risk.NewGate(log)
	scorer := discipline.NewScorer(log)

	// 8. Create handlers
	deps := api.RouterDeps{
		Market:     handlers.NewMarketHandler(broker, normalizer, trackers, calculator, cache, cfg.Upstox, log),
		Strategy:   handlers.NewStrategyHandler(broker, normalizer, trackers, builder, engine, loader, cfg.Upstox, log),
		Analytics:  handlers.NewAnalyticsHandler(tradeRepo, scorer, classifier, gate, log),
		Volatility: handlers.NewVolatilityHandler(loader, log),
		Account:    handlers.NewAccountHandler(broker, log),
	}

	// 9. Create router and server
	router := api.NewRouter(deps, log)
	server := api.New(cfg, log, router)

	// 10. Start the portfolio order stream
	streamCtx, stopStream := context.WithCancel(context.Background())
	defer stopStream()

	if cfg.Upstox.StreamURL != "" && cfg.Upstox.AccessToken != "" {
		stream := upstox.NewStreamClient(cfg.Upstox, log)
		stream.OnUpdate(func(update *upstox.OrderUpdate) {
			log.WithFields(map[string]interface{}{
				"order_id":   update.OrderID,
				"instrument": update.InstrumentKey,
				"status":     update.Status,
				"avg_price":  update.AveragePrice,
			}).Info("Order update received")
		})
		stream.OnError(func(err error) {
			log.WithField("error", err.Error()).Warn("Portfolio stream error")
		})

		if err := stream.Start(streamCtx); err != nil {
			log.WithField("error", err.Error()).Warn("Portfolio stream unavailable, continuing without it")
		} else {
			defer stream.Stop()
		}
	}

	// 11. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
