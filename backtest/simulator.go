// Package backtest replays the naive pairs strategy over historical
// spread/z-score pairs.
package backtest

import (
	"math"

	"pairs-analytics-go/market"
)

// Result aggregates the realized trades of one simulation.
type Result struct {
	TotalPnL  float64 `json:"total_pnl"`
	NumTrades int     `json:"num_trades"`
	WinRate   float64 `json:"win_rate"`
}

type position int

const (
	flat position = iota
	long
	short
)

const (
	entryThreshold = 2.0
	exitThreshold  = 0.0
)

// Simulate runs the position state machine over time-aligned (spread, zscore)
// pairs. One open position at a time; entries are evaluated only while flat,
// so a bar that exits never re-enters on the same bar. Entry when |z| > 2
// (short above, long below), exit when z crosses back through 0; realized
// pnl is the signed spread move between entry and exit.
func Simulate(spread, zscore market.Series) Result {
	sp, z := market.Align(spread, zscore)

	pos := flat
	entryPrice := 0.0
	var pnls []float64

	for i := 1; i < len(sp); i++ {
		zv := z[i].Value
		sv := sp[i].Value

		switch pos {
		case flat:
			if zv > entryThreshold {
				pos = short
				entryPrice = sv
			} else if zv < -entryThreshold {
				pos = long
				entryPrice = sv
			}
		case long:
			if zv >= exitThreshold {
				pnls = append(pnls, sv-entryPrice)
				pos = flat
			}
		case short:
			if zv <= exitThreshold {
				pnls = append(pnls, entryPrice-sv)
				pos = flat
			}
		}
	}

	total := 0.0
	wins := 0
	for _, p := range pnls {
		total += p
		if p > 0 {
			wins++
		}
	}
	winRate := 0.0
	if len(pnls) > 0 {
		winRate = round(float64(wins)/float64(len(pnls)), 2)
	}
	return Result{
		TotalPnL:  round(total, 4),
		NumTrades: len(pnls),
		WinRate:   winRate,
	}
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
