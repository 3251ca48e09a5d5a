package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shritish20/Volguard-4/internal/backtest"
	"github.com/shritish20/Volguard-4/internal/history"
	"github.com/shritish20/Volguard-4/internal/strategy"
	"github.com/shritish20/Volguard-4/pkg/config"
	"github.com/shritish20/Volguard-4/pkg/httputil"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Strategy backtesting",
	Long: `Simulates a strategy against historical index closes.

The backtest replays each trading day in the window: it synthesizes an
option chain around that day's close, builds the strategy legs with the
live leg builder, and settles them against the next day's close.

Example:
  go run ./cmd/volguard backtest run --strategy iron_fly
  go run ./cmd/volguard backtest run --strategy bull_put_spread --period 90`,
}

var (
	backtestRunCmd = &cobra.Command{
		Use:   "run",
		Short: "Run a backtest",
		Long: `Runs a backtest over the trailing window of historical closes.

Flags:
  --strategy  Strategy name (iron_fly, iron_condor, bull_put_spread, bear_call_spread)
  --quantity  Contracts per leg (default: 75)
  --period    Window length in days (default: 365)

Example:
  go run ./cmd/volguard backtest run --strategy iron_fly
  go run ./cmd/volguard backtest run --strategy iron_condor --period 180 --quantity 150`,
		RunE: runBacktest,
	}

	// Flags
	backtestStrategy string
	backtestQuantity int
	backtestPeriod   int
)

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.AddCommand(backtestRunCmd)

	// Flags
	backtestRunCmd.Flags().StringVar(&backtestStrategy, "strategy", "", "strategy name (required)")
	backtestRunCmd.Flags().IntVar(&backtestQuantity, "quantity", 75, "contracts per leg")
	backtestRunCmd.Flags().IntVar(&backtestPeriod, "period", 365, "window length in days")

	backtestRunCmd.MarkFlagRequired("strategy")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	fmt.Println("=== VolGuard Backtest Engine ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	fmt.Printf("\n📊 Strategy: %s\n", backtestStrategy)
	fmt.Printf("📦 Quantity: %d\n", backtestQuantity)
	fmt.Printf("📅 Period:   %d days\n\n", backtestPeriod)

	// 2. Load historical closes
	httpClient := httputil.New(log)
	loader := history.NewLoader(httpClient, log, cfg.Data.HistoricalCSVURL)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Println("⏳ Loading historical data...")
	series, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load historical data: %w", err)
	}
	fmt.Printf("   %d daily bars loaded\n\n", len(series.Bars))

	// 3. Run the simulation
	builder := strategy.NewBuilder(log)
	engine := backtest.NewEngine(builder, log)

	fmt.Println("🚀 Starting backtest...")
	start := time.Now()

	result, err := engine.Run(series, backtestStrategy, backtestQuantity, backtestPeriod)
	if err != nil {
		return fmt.Errorf("run backtest: %w", err)
	}

	// 4. Print results
	fmt.Printf("\n=== Results (%s) ===\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Total P&L:       %.2f\n", result.TotalPnL)
	fmt.Printf("  Win Rate:        %.2f%%\n", result.WinRate)
	fmt.Printf("  Avg P&L/Trade:   %.2f\n", result.AvgPnLPerTrade)
	fmt.Printf("  Max Drawdown:    %.2f\n", result.MaxDrawdown)
	fmt.Printf("  Trading Days:    %d\n", len(result.PnLHistory))

	return nil
}
