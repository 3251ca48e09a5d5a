package strategy

import (
	"math"

	"github.com/shritish20/Volguard-4/internal/contracts"
)

// Strategy identifiers form a closed set; anything else is rejected.
const (
	IronFly        = "iron_fly"
	IronCondor     = "iron_condor"
	BullPutSpread  = "bull_put_spread"
	BearCallSpread = "bear_call_spread"
)

// legDef is one templated leg before chain resolution
type legDef struct {
	Strike float64
	Side   contracts.OptionType
	Action contracts.OrderAction
}

// templateFor expands a strategy identifier into its leg definitions.
// The iron strategies anchor on the ATM strike and offset arithmetically;
// the spreads snap each target to the nearest listed strike so the legs
// always land on tradable strikes.
func templateFor(name string, atm, spot, offset float64, strikes []float64) ([]legDef, error) {
	switch name {
	case IronFly:
		return []legDef{
			{atm, contracts.OptionCall, contracts.ActionSell},
			{atm, contracts.OptionPut, contracts.ActionSell},
			{atm + offset, contracts.OptionCall, contracts.ActionBuy},
			{atm - offset, contracts.OptionPut, contracts.ActionBuy},
		}, nil
	case IronCondor:
		return []legDef{
			{atm + offset, contracts.OptionCall, contracts.ActionSell},
			{atm + 2*offset, contracts.OptionCall, contracts.ActionBuy},
			{atm - offset, contracts.OptionPut, contracts.ActionSell},
			{atm - 2*offset, contracts.OptionPut, contracts.ActionBuy},
		}, nil
	case BullPutSpread:
		return []legDef{
			{nearestStrike(strikes, spot-offset), contracts.OptionPut, contracts.ActionSell},
			{nearestStrike(strikes, spot-2*offset), contracts.OptionPut, contracts.ActionBuy},
		}, nil
	case BearCallSpread:
		return []legDef{
			{nearestStrike(strikes, spot+offset), contracts.OptionCall, contracts.ActionSell},
			{nearestStrike(strikes, spot+2*offset), contracts.OptionCall, contracts.ActionBuy},
		}, nil
	}
	return nil, ErrInvalidStrategy
}

// nearestStrike returns the listed strike closest to target. Strikes arrive
// sorted ascending, so a tie resolves to the lower strike.
func nearestStrike(strikes []float64, target float64) float64 {
	best := strikes[0]
	bestDist := math.Abs(strikes[0] - target)
	for _, s := range strikes[1:] {
		if d := math.Abs(s - target); d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best
}
