package upstox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shritish20/Volguard-4/pkg/config"
	"github.com/shritish20/Volguard-4/pkg/httputil"
	"github.com/shritish20/Volguard-4/pkg/logger"
	"github.com/shritish20/Volguard-4/pkg/redis"
)

// ErrEmptyResponse means the API returned a success envelope without data
var ErrEmptyResponse = errors.New("upstox returned empty data")

// Client handles communication with the Upstox REST API. All broker calls
// go through this client; the pipeline itself never talks to the network.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.UpstoxConfig
	now        func() time.Time
}

// NewClient creates a new Upstox API client. The rate limiter guards the
// exchange-imposed request quota across all endpoints.
func NewClient(cfg config.UpstoxConfig, httpClient *httputil.Client, limiter *redis.RateLimiter, log *logger.Logger) *Client {
	if limiter != nil {
		httpClient = httpClient.WithRateLimiter(limiter, redis.RateLimitConfig{
			Limit:  cfg.RateLimit,
			Window: cfg.RateWindow,
		})
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
		now:        time.Now,
	}
}

// envelope is the standard Upstox response wrapper
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Errors []apiError      `json:"errors,omitempty"`
}

type apiError struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// getJSON performs an authenticated GET and unwraps the data envelope into out
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req)

	return c.send(req, out)
}

// postJSON performs an authenticated POST with a JSON body and unwraps the
// data envelope into out
func (c *Client) postJSON(ctx context.Context, url string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req)

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || env.Status == "error" {
		if len(env.Errors) > 0 {
			return fmt.Errorf("upstox error %s: %s", env.Errors[0].ErrorCode, env.Errors[0].Message)
		}
		return fmt.Errorf("upstox returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
