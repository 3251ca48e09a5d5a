package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "volguard",
	Short: "VolGuard - options analytics and strategy engine",
	Long: `VolGuard Unified CLI

Option chain analytics, strategy construction and execution for
NSE index options over the Upstox broker API.

Usage:
  go run ./cmd/volguard [command]

Examples:
  go run ./cmd/volguard api
  go run ./cmd/volguard backtest run --strategy iron_fly --period 365
  go run ./cmd/volguard scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
