package upstox

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"

	"github.com/shritish20/Volguard-4/internal/contracts"
)

// ErrNoContracts means the instrument has no listed option contracts
var ErrNoContracts = errors.New("no option contracts returned")

// optionContract is one listed contract from the contract directory
type optionContract struct {
	Expiry        string `json:"expiry"`
	InstrumentKey string `json:"instrument_key"`
}

// NearestExpiry returns the earliest expiry date listed for the configured
// underlying, in YYYY-MM-DD form.
func (c *Client) NearestExpiry(ctx context.Context) (string, error) {
	u := fmt.Sprintf("%s/v2/option/contract?instrument_key=%s",
		c.cfg.BaseURL, url.QueryEscape(c.cfg.InstrumentKey))

	var listed []optionContract
	if err := c.getJSON(ctx, u, &listed); err != nil {
		return "", fmt.Errorf("fetching option contracts: %w", err)
	}
	if len(listed) == 0 {
		return "", ErrNoContracts
	}

	expiries := make([]string, 0, len(listed))
	seen := make(map[string]bool, len(listed))
	for _, contract := range listed {
		if contract.Expiry == "" || seen[contract.Expiry] {
			continue
		}
		seen[contract.Expiry] = true
		expiries = append(expiries, contract.Expiry)
	}
	if len(expiries) == 0 {
		return "", ErrNoContracts
	}

	// ISO dates sort lexically
	sort.Strings(expiries)
	return expiries[0], nil
}

// FetchChain returns the raw per-strike chain snapshot for the configured
// underlying at the given expiry.
func (c *Client) FetchChain(ctx context.Context, expiry string) ([]contracts.RawStrikeRecord, error) {
	u := fmt.Sprintf("%s/v2/option/chain?instrument_key=%s&expiry_date=%s",
		c.cfg.BaseURL, url.QueryEscape(c.cfg.InstrumentKey), url.QueryEscape(expiry))

	var records []contracts.RawStrikeRecord
	if err := c.getJSON(ctx, u, &records); err != nil {
		return nil, fmt.Errorf("fetching option chain: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"instrument": c.cfg.InstrumentKey,
		"expiry":     expiry,
		"strikes":    len(records),
	}).Debug("Option chain fetched")

	return records, nil
}
