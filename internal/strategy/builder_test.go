package strategy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// chainRows builds a dense chain with both sides quoted at every strike
func chainRows(strikes ...float64) []contracts.StrikeRow {
	rows := make([]contracts.StrikeRow, len(strikes))
	for i, k := range strikes {
		rows[i] = contracts.StrikeRow{
			Strike: k,
			Call: contracts.SideQuote{
				InstrumentKey: fmt.Sprintf("NSE_FO|CE%.0f", k),
				LTP:           100,
			},
			Put: contracts.SideQuote{
				InstrumentKey: fmt.Sprintf("NSE_FO|PE%.0f", k),
				LTP:           80,
			},
		}
	}
	return rows
}

func legKey(leg contracts.StrategyLeg) string {
	return fmt.Sprintf("%s %.0f %s", leg.Action, leg.Strike, leg.InstrumentKey)
}

func TestBuildIronFly(t *testing.T) {
	b := NewBuilder(logger.NewNop())
	rows := chainRows(22300, 22400, 22500, 22600, 22700)

	legs, err := b.Build(rows, 22510, "iron_fly", 75, 100)

	require.NoError(t, err)
	require.Len(t, legs, 4)
	assert.Equal(t, "SELL 22500 NSE_FO|CE22500", legKey(legs[0]))
	assert.Equal(t, "SELL 22500 NSE_FO|PE22500", legKey(legs[1]))
	assert.Equal(t, "BUY 22600 NSE_FO|CE22600", legKey(legs[2]))
	assert.Equal(t, "BUY 22400 NSE_FO|PE22400", legKey(legs[3]))

	for _, leg := range legs {
		assert.Equal(t, 75, leg.Quantity)
		assert.Equal(t, contracts.OrderTypeMarket, leg.OrderType)
	}
}

func TestBuildIronCondor(t *testing.T) {
	b := NewBuilder(logger.NewNop())
	rows := chainRows(22300, 22400, 22500, 22600, 22700)

	legs, err := b.Build(rows, 22510, "iron_condor", 75, 100)

	require.NoError(t, err)
	require.Len(t, legs, 4)
	assert.Equal(t, "SELL 22600 NSE_FO|CE22600", legKey(legs[0]))
	assert.Equal(t, "BUY 22700 NSE_FO|CE22700", legKey(legs[1]))
	assert.Equal(t, "SELL 22400 NSE_FO|PE22400", legKey(legs[2]))
	assert.Equal(t, "BUY 22300 NSE_FO|PE22300", legKey(legs[3]))
}

func TestBuildBullPutSpreadSnapsToListedStrikes(t *testing.T) {
	b := NewBuilder(logger.NewNop())
	rows := chainRows(22300, 22400, 22500, 22600)

	// spot 22510, offset 130: targets 22380 and 22250 snap to 22400 and 22300
	legs, err := b.Build(rows, 22510, "bull_put_spread", 75, 130)

	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, "SELL 22400 NSE_FO|PE22400", legKey(legs[0]))
	assert.Equal(t, "BUY 22300 NSE_FO|PE22300", legKey(legs[1]))
}

func TestBuildBearCallSpread(t *testing.T) {
	b := NewBuilder(logger.NewNop())
	rows := chainRows(22300, 22400, 22500, 22600, 22700)

	legs, err := b.Build(rows, 22510, "bear_call_spread", 75, 100)

	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, "SELL 22600 NSE_FO|CE22600", legKey(legs[0]))
	assert.Equal(t, "BUY 22700 NSE_FO|CE22700", legKey(legs[1]))
}

func TestBuildCaseInsensitive(t *testing.T) {
	b := NewBuilder(logger.NewNop())
	rows := chainRows(22400, 22500, 22600)

	legs, err := b.Build(rows, 22500, "IRON_FLY", 75, 100)

	require.NoError(t, err)
	assert.Len(t, legs, 4)
}

func TestBuildUnknownStrategy(t *testing.T) {
	b := NewBuilder(logger.NewNop())
	rows := chainRows(22400, 22500, 22600)

	_, err := b.Build(rows, 22500, "butterfly_deluxe", 75, 100)

	assert.ErrorIs(t, err, ErrInvalidStrategy)
}

func TestBuildEmptyChain(t *testing.T) {
	b := NewBuilder(logger.NewNop())

	_, err := b.Build(nil, 22500, "iron_fly", 75, 100)

	assert.ErrorIs(t, err, ErrEmptyChain)
}

func TestBuildDropsUnquotedLegs(t *testing.T) {
	b := NewBuilder(logger.NewNop())

	// wings at 22600/22400 exist but only the ATM strike is quoted
	rows := chainRows(22500)

	legs, err := b.Build(rows, 22500, "iron_fly", 75, 100)

	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, "SELL 22500 NSE_FO|CE22500", legKey(legs[0]))
	assert.Equal(t, "SELL 22500 NSE_FO|PE22500", legKey(legs[1]))
}

func TestBuildNoValidLegs(t *testing.T) {
	b := NewBuilder(logger.NewNop())

	// strikes exist but carry no instrument keys at the templated strikes
	rows := []contracts.StrikeRow{
		{Strike: 22500},
		{Strike: 22600},
	}

	_, err := b.Build(rows, 22500, "bear_call_spread", 75, 100)

	assert.ErrorIs(t, err, ErrNoValidLegs)
}

func TestNearestStrikeTieLower(t *testing.T) {
	strikes := []float64{22400, 22500}

	assert.Equal(t, 22400.0, nearestStrike(strikes, 22450))
}

func TestEntryPremium(t *testing.T) {
	legs := []contracts.StrategyLeg{
		{Action: contracts.ActionSell, LTP: 100, Quantity: 75},
		{Action: contracts.ActionSell, LTP: 80, Quantity: 75},
		{Action: contracts.ActionBuy, LTP: 40, Quantity: 75},
		{Action: contracts.ActionBuy, LTP: 30, Quantity: 75},
	}

	assert.InDelta(t, 75.0*(100+80-40-30), contracts.EntryPremium(legs), 1e-9)
}
