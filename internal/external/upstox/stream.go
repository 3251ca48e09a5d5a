package upstox

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shritish20/Volguard-4/pkg/config"
	"github.com/shritish20/Volguard-4/pkg/logger"
)

// Stream reconnect timing
const (
	reconnectInitialDelay = 1 * time.Second
	reconnectMaxDelay     = 30 * time.Second
	readTimeout           = 90 * time.Second
)

// OrderUpdate is one order lifecycle event from the portfolio stream
type OrderUpdate struct {
	OrderID         string  `json:"order_id"`
	InstrumentKey   string  `json:"instrument_key"`
	Status          string  `json:"status"`
	TransactionType string  `json:"transaction_type"`
	Quantity        int     `json:"quantity"`
	AveragePrice    float64 `json:"average_price"`
	UpdateType      string  `json:"update_type"`
}

// StreamClient maintains the portfolio-stream WebSocket feed and delivers
// order updates to a callback. The connection reconnects with backoff until
// the context is cancelled.
type StreamClient struct {
	cfg    config.UpstoxConfig
	logger *logger.Logger

	conn   *websocket.Conn
	connMu sync.Mutex

	onUpdate func(*OrderUpdate)
	onError  func(error)

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewStreamClient creates a portfolio stream client
func NewStreamClient(cfg config.UpstoxConfig, log *logger.Logger) *StreamClient {
	return &StreamClient{
		cfg:    cfg,
		logger: log,
		stopCh: make(chan struct{}),
	}
}

// OnUpdate sets the order update callback
func (s *StreamClient) OnUpdate(fn func(*OrderUpdate)) { s.onUpdate = fn }

// OnError sets the error callback
func (s *StreamClient) OnError(fn func(error)) { s.onError = fn }

// Start connects the feed and begins the read loop. It returns after the
// initial connection attempt; later disconnects reconnect in the background.
func (s *StreamClient) Start(ctx context.Context) error {
	if err := s.connect(ctx); err != nil {
		return err
	}

	s.wg.Add(1)
	go s.readLoop(ctx)
	return nil
}

// Stop closes the connection and waits for the read loop to exit
func (s *StreamClient) Stop() {
	close(s.stopCh)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
}

func (s *StreamClient) connect(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.cfg.AccessToken)
	header.Set("Accept", "application/json")

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, s.cfg.StreamURL, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return err
	}
	if resp != nil {
		resp.Body.Close()
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()

	s.logger.WithField("url", s.cfg.StreamURL).Info("Portfolio stream connected")
	return nil
}

func (s *StreamClient) readLoop(ctx context.Context) {
	defer s.wg.Done()

	delay := reconnectInitialDelay
	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			default:
			}

			s.logger.WithError(err).Warn("Portfolio stream read failed, reconnecting")
			if s.onError != nil {
				s.onError(err)
			}

			time.Sleep(delay)
			if delay *= 2; delay > reconnectMaxDelay {
				delay = reconnectMaxDelay
			}

			if err := s.connect(ctx); err != nil {
				s.logger.WithError(err).Warn("Portfolio stream reconnect failed")
			}
			continue
		}
		delay = reconnectInitialDelay

		var update OrderUpdate
		if err := json.Unmarshal(message, &update); err != nil {
			s.logger.WithError(err).Debug("Skipping unparseable stream message")
			continue
		}
		if s.onUpdate != nil {
			s.onUpdate(&update)
		}
	}
}
