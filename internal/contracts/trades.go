package contracts

import "time"

// TradeRecord is a persisted closed trade. Created once per logged trade,
// never mutated, read in bulk for analytics and discipline scoring.
type TradeRecord struct {
	ID          int64     `json:"id"`
	Strategy    string    `json:"strategy"`
	EntryPrice  float64   `json:"entry_price"`
	ExitPrice   float64   `json:"exit_price"`
	PnL         float64   `json:"pnl"`
	RegimeScore float64   `json:"regime_score"`
	Timestamp   time.Time `json:"timestamp"`
}

// PerformanceReport aggregates the full trade history
type PerformanceReport struct {
	TotalTrades    int     `json:"total_trades"`
	TotalPnL       float64 `json:"total_pnl"`
	AvgRegimeScore float64 `json:"avg_regime_score"`
	WinningTrades  int     `json:"winning_trades"`
	LosingTrades   int     `json:"losing_trades"`
}

// DisciplineReport is the result of a discipline audit over the trade
// history: 100 minus deductions, floored at 0, with one note per violation.
type DisciplineReport struct {
	Score      int      `json:"score"`
	Violations []string `json:"violations"`
}
