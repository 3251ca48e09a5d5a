package contracts

// OrderAction is the direction of a strategy leg
type OrderAction string

const (
	ActionBuy  OrderAction = "BUY"
	ActionSell OrderAction = "SELL"
)

// OrderType of a leg order
type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

// StrategyLeg is one buy/sell instruction of a multi-leg options strategy.
// LTP is the quote used to estimate premium at construction time.
type StrategyLeg struct {
	InstrumentKey string      `json:"instrument_key"`
	Strike        float64     `json:"strike"`
	Action        OrderAction `json:"action"`
	Quantity      int         `json:"quantity"`
	OrderType     OrderType   `json:"order_type"`
	LTP           float64     `json:"ltp"`
}

// EntryPremium returns the net premium of a leg set: credit for sells,
// debit for buys.
func EntryPremium(legs []StrategyLeg) float64 {
	var premium float64
	for _, leg := range legs {
		if leg.Action == ActionSell {
			premium += leg.LTP * float64(leg.Quantity)
		} else {
			premium -= leg.LTP * float64(leg.Quantity)
		}
	}
	return premium
}
