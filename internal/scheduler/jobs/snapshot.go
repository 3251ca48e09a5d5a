package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/shritish20/Volguard-4/internal/chain"
	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/internal/metrics"
	"github.com/shritish20/Volguard-4/pkg/config"
	"github.com/shritish20/Volguard-4/pkg/logger"
	"github.com/shritish20/Volguard-4/pkg/redis"
)

const snapshotCacheTTL = 5 * time.Minute

// ChainSource fetches option chain snapshots from the broker.
type ChainSource interface {
	NearestExpiry(ctx context.Context) (string, error)
	FetchChain(ctx context.Context, expiry string) ([]contracts.RawStrikeRecord, error)
}

// ChainSnapshotJob periodically pulls the nearest-expiry option chain,
// recomputes aggregate metrics and caches them. Keeping the job on a
// short cadence also keeps the OI change ledger warm between API calls.
type ChainSnapshotJob struct {
	source     ChainSource
	normalizer *chain.Normalizer
	trackers   *chain.TrackerRegistry
	calculator *metrics.Calculator
	cache      *redis.Cache
	cfg        config.UpstoxConfig
	logger     *logger.Logger
}

// NewChainSnapshotJob creates a new chain snapshot job
func NewChainSnapshotJob(
	source ChainSource,
	normalizer *chain.Normalizer,
	trackers *chain.TrackerRegistry,
	calculator *metrics.Calculator,
	cache *redis.Cache,
	cfg config.UpstoxConfig,
	log *logger.Logger,
) *ChainSnapshotJob {
	return &ChainSnapshotJob{
		source:     source,
		normalizer: normalizer,
		trackers:   trackers,
		calculator: calculator,
		cache:      cache,
		cfg:        cfg,
		logger:     log,
	}
}

// Name returns the job name
func (j *ChainSnapshotJob) Name() string {
	return "chain_snapshot"
}

// Schedule returns the cron schedule (every 5 minutes)
func (j *ChainSnapshotJob) Schedule() string {
	return "0 */5 * * * *"
}

// Run fetches the chain and refreshes the cached metrics
func (j *ChainSnapshotJob) Run(ctx context.Context) error {
	expiry, err := j.source.NearestExpiry(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve nearest expiry: %w", err)
	}

	records, err := j.source.FetchChain(ctx, expiry)
	if err != nil {
		return fmt.Errorf("failed to fetch option chain: %w", err)
	}

	tracker := j.trackers.For(j.cfg.InstrumentKey, expiry)
	rows, spot := j.normalizer.Normalize(records, tracker)
	if len(rows) == 0 {
		return fmt.Errorf("option chain for %s is empty", expiry)
	}

	m := j.calculator.Compute(rows, spot)

	if j.cache != nil {
		key := fmt.Sprintf("metrics:%s:%s", j.cfg.InstrumentKey, expiry)
		if err := j.cache.Set(ctx, key, m, snapshotCacheTTL); err != nil {
			j.logger.WithField("error", err.Error()).Warn("Failed to cache chain metrics")
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"expiry":   expiry,
		"strikes":  len(rows),
		"spot":     spot,
		"pcr":      m.PCR,
		"max_pain": m.MaxPain,
	}).Info("Chain snapshot refreshed")

	return nil
}
