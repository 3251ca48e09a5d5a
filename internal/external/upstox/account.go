package upstox

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrFundsWindowClosed mirrors broker error UDAPI100072: the funds API is
// offline during the exchange maintenance window.
var ErrFundsWindowClosed = errors.New("funds API unavailable between 12:00 AM and 5:30 AM IST (UDAPI100072)")

// ist is the exchange timezone. The maintenance window is defined in local
// exchange time regardless of where the service runs.
var ist = time.FixedZone("IST", 5*3600+1800)

// Funds is the funds-and-margin segment breakdown
type Funds struct {
	Equity SegmentFunds `json:"equity"`
}

// SegmentFunds holds one segment's margin availability
type SegmentFunds struct {
	AvailableMargin float64 `json:"available_margin"`
	UsedMargin      float64 `json:"used_margin"`
}

// Profile is the broker account profile
type Profile struct {
	UserID   string   `json:"user_id"`
	UserName string   `json:"user_name"`
	Email    string   `json:"email"`
	Broker   string   `json:"broker"`
	Products []string `json:"products"`
	IsActive bool     `json:"is_active"`
}

// FundsAndMargin fetches the account's available margin. Calls inside the
// broker maintenance window fail fast instead of timing out against a dead
// endpoint.
func (c *Client) FundsAndMargin(ctx context.Context) (*Funds, error) {
	now := c.now().In(ist)
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, ist)
	windowEnd := time.Date(now.Year(), now.Month(), now.Day(), 5, 30, 0, 0, ist)
	if !now.Before(windowStart) && !now.After(windowEnd) {
		return nil, ErrFundsWindowClosed
	}

	var funds Funds
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/v2/user/get-funds-and-margin", &funds); err != nil {
		return nil, fmt.Errorf("fetching funds: %w", err)
	}
	return &funds, nil
}

// UserProfile fetches the authenticated account's profile
func (c *Client) UserProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/v2/user/profile", &profile); err != nil {
		return nil, fmt.Errorf("fetching user profile: %w", err)
	}
	return &profile, nil
}
