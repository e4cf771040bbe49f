// Package gateway connects to the exchange trade streams and normalizes
// messages into ticks. It owns reconnection; the core only sees appends.
package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pairs-analytics-go/market"
	"pairs-analytics-go/metrics"
)

// BinanceFuturesWSEndpoint is the default futures websocket host.
const BinanceFuturesWSEndpoint = "wss://fstream.binance.com"

// TickHandler receives each normalized tick.
type TickHandler func(market.Tick)

// TradeStream subscribes to one symbol's trade stream. Each monitored symbol
// runs its own stream in its own goroutine; that goroutine is the only
// writer into the symbol's buffer.
type TradeStream struct {
	BaseEndpoint string
	Symbol       string
	Dialer       *websocket.Dialer

	// Backoff bounds between reconnect attempts.
	MinBackoff time.Duration
	MaxBackoff time.Duration

	log *zap.Logger
}

// NewTradeStream creates a stream for symbol against the given endpoint
// (BinanceFuturesWSEndpoint when empty).
func NewTradeStream(endpoint, symbol string, log *zap.Logger) *TradeStream {
	if endpoint == "" {
		endpoint = BinanceFuturesWSEndpoint
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TradeStream{
		BaseEndpoint: endpoint,
		Symbol:       strings.ToLower(symbol),
		Dialer:       websocket.DefaultDialer,
		MinBackoff:   time.Second,
		MaxBackoff:   30 * time.Second,
		log:          log,
	}
}

// URL returns the stream endpoint for the symbol.
func (s *TradeStream) URL() string {
	return fmt.Sprintf("%s/ws/%s@trade", strings.TrimSuffix(s.BaseEndpoint, "/"), s.Symbol)
}

// Run reads the stream until ctx is done, reconnecting with backoff on any
// error. Parse failures on individual messages are logged and skipped.
func (s *TradeStream) Run(ctx context.Context, handler TickHandler) error {
	backoff := s.MinBackoff
	for {
		err := s.readLoop(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn("trade stream disconnected",
			zap.String("symbol", s.Symbol),
			zap.Error(err),
			zap.Duration("backoff", backoff),
		)
		metrics.WSReconnects.Inc()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > s.MaxBackoff {
			backoff = s.MaxBackoff
		}
	}
}

func (s *TradeStream) readLoop(ctx context.Context, handler TickHandler) error {
	conn, _, err := s.Dialer.DialContext(ctx, s.URL(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.URL(), err)
	}
	defer conn.Close()
	s.log.Info("trade stream connected", zap.String("symbol", s.Symbol))

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		tick, ok, err := ParseTrade(raw)
		if err != nil {
			s.log.Debug("skipping unparsable message", zap.Error(err))
			continue
		}
		if !ok {
			continue // not a trade event
		}
		handler(tick)
	}
}
