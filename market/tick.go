package market

import "time"

// Tick represents a normalized trade tick. Immutable once created.
type Tick struct {
	Symbol string
	TS     time.Time
	Price  float64
	Size   float64
}
