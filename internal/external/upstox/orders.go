package upstox

import (
	"context"
	"fmt"

	"github.com/shritish20/Volguard-4/internal/contracts"
)

// orderRequest is the Upstox place-order payload. Orders are intraday
// ("D" product), DAY validity, tagged so broker statements can be
// reconciled against the trade log.
type orderRequest struct {
	InstrumentKey     string  `json:"instrument_key"`
	Quantity          int     `json:"quantity"`
	Product           string  `json:"product"`
	OrderType         string  `json:"order_type"`
	TransactionType   string  `json:"transaction_type"`
	Price             float64 `json:"price"`
	TriggerPrice      float64 `json:"trigger_price"`
	DisclosedQuantity int     `json:"disclosed_quantity"`
	Validity          string  `json:"validity"`
	Tag               string  `json:"tag"`
}

// OrderResult is the broker acknowledgement of a placed order
type OrderResult struct {
	OrderID string `json:"order_id"`
}

// orderTrade is one fill reported for an order
type orderTrade struct {
	TransactionType string  `json:"transaction_type"`
	Quantity        int     `json:"quantity"`
	AveragePrice    float64 `json:"average_price"`
}

// PlaceLeg submits one strategy leg as a market order. The available margin
// is checked first so an obviously unfundable leg never reaches the
// exchange.
func (c *Client) PlaceLeg(ctx context.Context, leg contracts.StrategyLeg) (*OrderResult, error) {
	funds, err := c.FundsAndMargin(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking funds before order: %w", err)
	}
	required := leg.LTP * float64(leg.Quantity)
	if funds.Equity.AvailableMargin < required {
		return nil, fmt.Errorf("insufficient funds: available %.2f < required %.2f",
			funds.Equity.AvailableMargin, required)
	}

	payload := orderRequest{
		InstrumentKey:   leg.InstrumentKey,
		Quantity:        leg.Quantity,
		Product:         "D",
		OrderType:       string(leg.OrderType),
		TransactionType: string(leg.Action),
		Validity:        "DAY",
		Tag:             "volguard",
	}

	var result OrderResult
	if err := c.postJSON(ctx, c.cfg.BaseURL+"/v2/order/place", payload, &result); err != nil {
		return nil, fmt.Errorf("placing order: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"order_id":   result.OrderID,
		"instrument": leg.InstrumentKey,
		"action":     string(leg.Action),
		"quantity":   leg.Quantity,
	}).Info("Order placed")

	return &result, nil
}

// TradePnL returns the signed premium flow of an order's fills: credit for
// sells, debit for buys. With no exit leg this is the realized cash impact
// of entering the position, which is what the execution report surfaces.
func (c *Client) TradePnL(ctx context.Context, orderID string) (float64, error) {
	u := fmt.Sprintf("%s/v2/order/trades?order_id=%s", c.cfg.BaseURL, orderID)

	var fills []orderTrade
	if err := c.getJSON(ctx, u, &fills); err != nil {
		return 0, fmt.Errorf("fetching order trades: %w", err)
	}

	var pnl float64
	for _, fill := range fills {
		value := fill.AveragePrice * float64(fill.Quantity)
		if fill.TransactionType == string(contracts.ActionSell) {
			pnl += value
		} else {
			pnl -= value
		}
	}
	return pnl, nil
}
