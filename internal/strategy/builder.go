package strategy

import (
	"errors"
	"math"
	"strings"

	"github.com/shritish20/Volguard-4/internal/contracts"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

var (
	// ErrInvalidStrategy means the strategy identifier is outside the known set
	ErrInvalidStrategy = errors.New("unknown strategy")

	// ErrNoValidLegs means no templated leg resolved to a tradable instrument
	ErrNoValidLegs = errors.New("no valid legs could be built")

	// ErrEmptyChain means the chain carried no strikes to build against
	ErrEmptyChain = errors.New("no strikes found in option chain")
)

// Builder turns a strategy identifier plus a normalized chain into a concrete
// leg set. The same builder serves live chains and the synthetic chains the
// backtest engine generates; template and strike selection logic exist only
// here.
type Builder struct {
	logger *logger.Logger
}

// NewBuilder creates a new strategy leg builder
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{logger: log}
}

// Build resolves the legs of the named strategy against the chain. The
// identifier is case-insensitive. A templated leg whose strike/side is not
// quoted in the chain is dropped with a warning; zero resolved legs is an
// error.
func (b *Builder) Build(rows []contracts.StrikeRow, spot float64, name string, quantity int, offset float64) ([]contracts.StrategyLeg, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyChain
	}

	strikes := make([]float64, len(rows))
	for i := range rows {
		strikes[i] = rows[i].Strike
	}
	atm := nearestStrike(strikes, spot)

	defs, err := templateFor(strings.ToLower(name), atm, spot, offset, strikes)
	if err != nil {
		return nil, err
	}

	legs := make([]contracts.StrategyLeg, 0, len(defs))
	for _, def := range defs {
		quote, ok := resolveQuote(rows, def.Strike, def.Side)
		if !ok {
			b.logger.WithFields(map[string]interface{}{
				"strategy": name,
				"strike":   def.Strike,
				"side":     string(def.Side),
			}).Warn("Dropping leg, strike/side not quoted in chain")
			continue
		}

		legs = append(legs, contracts.StrategyLeg{
			InstrumentKey: quote.InstrumentKey,
			Strike:        def.Strike,
			Action:        def.Action,
			Quantity:      quantity,
			OrderType:     contracts.OrderTypeMarket,
			LTP:           quote.LTP,
		})
	}

	if len(legs) == 0 {
		return nil, ErrNoValidLegs
	}

	return legs, nil
}

// resolveQuote finds the side quote for an exact strike. A missing row or a
// side without an instrument key means the leg is not tradable.
func resolveQuote(rows []contracts.StrikeRow, strike float64, side contracts.OptionType) (*contracts.SideQuote, bool) {
	for i := range rows {
		if math.Abs(rows[i].Strike-strike) > 1e-9 {
			continue
		}
		q := rows[i].Quote(side)
		if q.InstrumentKey == "" {
			return nil, false
		}
		return q, true
	}
	return nil, false
}
