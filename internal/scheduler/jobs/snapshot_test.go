package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shritish20/Volguard-4/internal/chain"
	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/internal/metrics"
	"github.com/shritish20/Volguard-4/pkg/config"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

type fakeSource struct {
	expiry     string
	expiryErr  error
	records    []contracts.RawStrikeRecord
	fetchErr   error
	fetchCalls int
}

func (f *fakeSource) NearestExpiry(_ context.Context) (string, error) {
	return f.expiry, f.expiryErr
}

func (f *fakeSource) FetchChain(_ context.Context, _ string) ([]contracts.RawStrikeRecord, error) {
	f.fetchCalls++
	return f.records, f.fetchErr
}

func rawRecord(strike, spot float64, callOI, putOI int64) contracts.RawStrikeRecord {
	return contracts.RawStrikeRecord{
		Expiry:              "2026-09-03",
		StrikePrice:         strike,
		UnderlyingKey:       "NSE_INDEX|Nifty 50",
		UnderlyingSpotPrice: spot,
		CallOptions: &contracts.OptionSide{
			InstrumentKey: "NSE_FO|CE",
			MarketData:    contracts.MarketData{LTP: 100, OI: callOI},
			OptionGreeks:  contracts.OptionGreeks{IV: 12},
		},
		PutOptions: &contracts.OptionSide{
			InstrumentKey: "NSE_FO|PE",
			MarketData:    contracts.MarketData{LTP: 90, OI: putOI},
			OptionGreeks:  contracts.OptionGreeks{IV: 14},
		},
	}
}

func newSnapshotJob(source ChainSource) *ChainSnapshotJob {
	log := logger.NewNop()
	cfg := config.UpstoxConfig{InstrumentKey: "NSE_INDEX|Nifty 50"}
	return NewChainSnapshotJob(
		source,
		chain.NewNormalizer(log),
		chain.NewTrackerRegistry(),
		metrics.NewCalculator(log),
		nil,
		cfg,
		log,
	)
}

func TestChainSnapshotJobRun(t *testing.T) {
	source := &fakeSource{
		expiry: "2026-09-03",
		records: []contracts.RawStrikeRecord{
			rawRecord(22450, 22500, 1000, 2000),
			rawRecord(22500, 22500, 1500, 1500),
		},
	}
	job := newSnapshotJob(source)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, source.fetchCalls)
}

func TestChainSnapshotJobExpiryFailure(t *testing.T) {
	source := &fakeSource{expiryErr: errors.New("broker down")}
	job := newSnapshotJob(source)

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nearest expiry")
	assert.Equal(t, 0, source.fetchCalls)
}

func TestChainSnapshotJobFetchFailure(t *testing.T) {
	source := &fakeSource{expiry: "2026-09-03", fetchErr: errors.New("timeout")}
	job := newSnapshotJob(source)

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch option chain")
}

func TestChainSnapshotJobEmptyChain(t *testing.T) {
	source := &fakeSource{expiry: "2026-09-03"}
	job := newSnapshotJob(source)

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestChainSnapshotJobSchedule(t *testing.T) {
	job := newSnapshotJob(&fakeSource{})
	assert.Equal(t, "chain_snapshot", job.Name())
	assert.Equal(t, "0 */5 * * * *", job.Schedule())
}
