package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pairs-analytics-go/market"
)

// tradeEvent mirrors the fields of a binance <symbol>@trade message.
type tradeEvent struct {
	EventType string      `json:"e"`
	EventTime int64       `json:"E"` // milliseconds
	Symbol    string      `json:"s"`
	TradeID   int64       `json:"t"`
	TradeTime int64       `json:"T"` // milliseconds
	Price     json.Number `json:"p"`
	Quantity  json.Number `json:"q"`
}

// ParseTrade normalizes a raw trade message into a Tick. ok is false for
// valid JSON that is not a trade event (subscription acks, other streams).
func ParseTrade(raw []byte) (market.Tick, bool, error) {
	var ev tradeEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return market.Tick{}, false, fmt.Errorf("decode trade: %w", err)
	}
	if ev.EventType != "trade" {
		return market.Tick{}, false, nil
	}
	price, err := ev.Price.Float64()
	if err != nil {
		return market.Tick{}, false, fmt.Errorf("parse price %q: %w", ev.Price, err)
	}
	qty, err := ev.Quantity.Float64()
	if err != nil {
		return market.Tick{}, false, fmt.Errorf("parse qty %q: %w", ev.Quantity, err)
	}
	return market.Tick{
		Symbol: strings.ToLower(ev.Symbol),
		TS:     time.UnixMilli(ev.TradeTime).UTC(),
		Price:  price,
		Size:   qty,
	}, true, nil
}
