package trades

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shritish20/Volguard-4/internal/contracts"
)

// Repository handles trade log persistence. Trade records are append-only:
// written once when a trade closes, read in bulk for analytics and
// discipline scoring.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new trade log repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Append logs one closed trade and returns it with the generated id
func (r *Repository) Append(ctx context.Context, trade *contracts.TradeRecord) error {
	if trade.Timestamp.IsZero() {
		trade.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO trade_log (
			strategy, entry_price, exit_price, pnl, regime_score, executed_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		trade.Strategy, trade.EntryPrice, trade.ExitPrice, trade.PnL, trade.RegimeScore, trade.Timestamp,
	).Scan(&trade.ID)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	return nil
}

// List returns the full trade history, oldest first
func (r *Repository) List(ctx context.Context) ([]contracts.TradeRecord, error) {
	query := `
		SELECT id, strategy, entry_price, exit_price, pnl, regime_score, executed_at
		FROM trade_log
		ORDER BY executed_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []contracts.TradeRecord
	for rows.Next() {
		var t contracts.TradeRecord
		if err := rows.Scan(&t.ID, &t.Strategy, &t.EntryPrice, &t.ExitPrice, &t.PnL, &t.RegimeScore, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trades: %w", err)
	}

	return trades, nil
}

// EnsureSchema creates the trade log table if it does not exist yet
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS trade_log (
			id BIGSERIAL PRIMARY KEY,
			strategy TEXT NOT NULL,
			entry_price DOUBLE PRECISION NOT NULL,
			exit_price DOUBLE PRECISION NOT NULL,
			pnl DOUBLE PRECISION NOT NULL,
			regime_score DOUBLE PRECISION NOT NULL,
			executed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure trade_log schema: %w", err)
	}
	return nil
}
