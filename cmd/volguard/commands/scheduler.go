package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shritish20/Volguard-4/internal/chain"
	"github.com/shritish20/Volguard-4/internal/external/upstox"
	"github.com/shritish20/Volguard-4/internal/metrics"
	"github.com/shritish20/Volguard-4/internal/scheduler"
	"github.com/shritish20/Volguard-4/internal/scheduler/jobs"
	"github.com/shritish20/Volguard-4/pkg/config"
	"github.com/shritish20/Volguard-4/pkg/httputil"
	"github.com/shritish20/Volguard-4/pkg/logger"
	"github.com/shritish20/Volguard-4/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Scheduler management",
	Long: `Starts the scheduler daemon or manages its jobs.

This command:
- Starts the scheduler daemon
- Lists registered jobs
- Runs a job immediately
- Shows job execution statistics

Registered jobs:
- chain_snapshot: every 5 minutes (refresh cached chain metrics)

Example:
  go run ./cmd/volguard scheduler start
  go run ./cmd/volguard scheduler list
  go run ./cmd/volguard scheduler run chain_snapshot`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Starts the scheduler and schedules all registered jobs.

The scheduler can be stopped with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job execution statistics",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== VolGuard Scheduler ===")

	// Initialize dependencies
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	// Start scheduler
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Println("Job started (running in background)")
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	stats := sched.GetJobStats()

	fmt.Println("Job Statistics:")
	fmt.Println()

	for jobName, stat := range stats {
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)

		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}

		if stat.LastSuccess != nil {
			fmt.Printf("   Last Success: %s\n", stat.LastSuccess.Format("2006-01-02 15:04:05"))
		}

		if stat.LastFailure != nil {
			fmt.Printf("   Last Failure: %s\n", stat.LastFailure.Format("2006-01-02 15:04:05"))
		}

		fmt.Println()
	}

	return nil
}

func initScheduler() (*scheduler.Scheduler, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to Redis
	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	cache := redis.NewCache(redisClient, "volguard")
	limiter := redis.NewRateLimiter(redisClient, "volguard", redis.RateLimitConfig{
		Limit:  cfg.Upstox.RateLimit,
		Window: cfg.Upstox.RateWindow,
	})

	// 4. Create broker client
	httpClient := httputil.New(log)
	broker := upstox.NewClient(cfg.Upstox, httpClient, limiter, log)

	// 5. Create chain services
	normalizer := chain.NewNormalizer(log)
	trackers := chain.NewTrackerRegistry()
	calculator := metrics.NewCalculator(log)

	// 6. Create scheduler and register jobs
	sched := scheduler.New(log)

	snapshotJob := jobs.NewChainSnapshotJob(broker, normalizer, trackers, calculator, cache, cfg.Upstox, log)
	if err := sched.AddJob(snapshotJob); err != nil {
		return nil, fmt.Errorf("add chain snapshot job: %w", err)
	}

	return sched, nil
}
