// Package pipeline wires the analytics components into one request path:
// snapshot, resample, align once, then derive every artifact from the same
// aligned series. All computations are synchronous, read-only and pure; the
// only shared mutable state is the tick buffer registry snapshotted at call
// time.
package pipeline

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"pairs-analytics-go/analytics"
	"pairs-analytics-go/backtest"
	"pairs-analytics-go/cache"
	"pairs-analytics-go/infrastructure/alert"
	"pairs-analytics-go/market"
	"pairs-analytics-go/metrics"
	"pairs-analytics-go/signal"
)

// Params identifies one analytics request. Not persisted; recomputed per
// call.
type Params struct {
	SymbolY   string
	SymbolX   string
	Window    int
	Threshold float64
}

func (p Params) pairKey() string {
	return p.SymbolY + ":" + p.SymbolX
}

// Options configures optional collaborators. The pipeline is correct with
// all of them absent.
type Options struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Alerts   *alert.Manager
	Log      *zap.Logger
}

// Pipeline computes pair analytics against a buffer registry.
type Pipeline struct {
	buffers *market.Registry

	mu        sync.RWMutex
	interval  time.Duration
	window    int
	threshold float64
	maxPoints int

	cache    cache.Cache
	cacheTTL time.Duration
	alerts   *alert.Manager
	log      *zap.Logger
}

// New creates a pipeline over the registry with the given bar interval,
// default rolling window, default alert threshold and per-response series
// cap.
func New(buffers *market.Registry, interval time.Duration, window int, threshold float64, maxPoints int, opts Options) *Pipeline {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = interval
	}
	return &Pipeline{
		buffers:   buffers,
		interval:  interval,
		window:    window,
		threshold: threshold,
		maxPoints: maxPoints,
		cache:     opts.Cache,
		cacheTTL:  ttl,
		alerts:    opts.Alerts,
		log:       log,
	}
}

// UpdateThresholds applies hot-reloaded analytic parameters.
func (p *Pipeline) UpdateThresholds(window int, threshold float64) {
	p.mu.Lock()
	if window >= 2 {
		p.window = window
	}
	if threshold > 0 {
		p.threshold = threshold
	}
	p.mu.Unlock()
}

func (p *Pipeline) defaults() (int, float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.window, p.threshold
}

func (p *Pipeline) normalize(params Params) (Params, error) {
	params.SymbolY = strings.ToLower(strings.TrimSpace(params.SymbolY))
	params.SymbolX = strings.ToLower(strings.TrimSpace(params.SymbolX))
	if params.SymbolY == "" || params.SymbolX == "" {
		return params, fmt.Errorf("symbol_y and symbol_x are required")
	}
	window, threshold := p.defaults()
	if params.Window <= 0 {
		params.Window = window
	}
	if params.Threshold <= 0 {
		params.Threshold = threshold
	}
	return params, nil
}

// alignedPair snapshots both buffers, resamples and aligns by timestamp
// intersection. Raw snapshots are returned for volume fallbacks.
func (p *Pipeline) alignedPair(params Params) (y, x market.Series, yTicks, xTicks []market.Tick, err error) {
	yTicks = p.buffers.Snapshot(params.SymbolY)
	xTicks = p.buffers.Snapshot(params.SymbolX)
	if len(yTicks) == 0 || len(xTicks) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("no ticks for pair %s: %w", params.pairKey(), analytics.ErrInsufficientData)
	}
	y = market.Resample(yTicks, p.interval)
	x = market.Resample(xTicks, p.interval)
	y, x = market.Align(y, x)
	return y, x, yTicks, xTicks, nil
}

// requireWindow gates the aligned length the way every endpoint of the
// original surface does.
func requireWindow(y market.Series, window int, pair string) error {
	if len(y) < window {
		return fmt.Errorf("pair %s has %d aligned bars, window %d: %w", pair, len(y), window, analytics.ErrInsufficientData)
	}
	return nil
}

// SpreadPoint is one aligned (spread, zscore) observation.
type SpreadPoint struct {
	TS     time.Time `json:"ts"`
	Spread float64   `json:"spread"`
	ZScore float64   `json:"zscore"`
}

// SpreadAnalytics is the spread endpoint payload.
type SpreadAnalytics struct {
	Data     []SpreadPoint `json:"data"`
	HalfLife *float64      `json:"half_life"`
}

// SpreadZScore computes the aligned spread and z-score series plus the
// spread half-life. Results are cached per (pair, window) for one TTL.
func (p *Pipeline) SpreadZScore(params Params) (SpreadAnalytics, error) {
	params, err := p.normalize(params)
	if err != nil {
		return SpreadAnalytics{}, err
	}

	cacheKey := fmt.Sprintf("spread:%s:%d", params.pairKey(), params.Window)
	if p.cache != nil {
		if v, ok := p.cache.Get(cacheKey); ok {
			metrics.CacheHits.Inc()
			return v.(SpreadAnalytics), nil
		}
		metrics.CacheMisses.Inc()
	}

	y, x, _, _, err := p.alignedPair(params)
	if err != nil {
		return SpreadAnalytics{}, err
	}
	if err := requireWindow(y, params.Window, params.pairKey()); err != nil {
		return SpreadAnalytics{}, err
	}

	beta := analytics.HedgeRatio(x, y)
	spread := analytics.Spread(y, x, beta)
	z := analytics.ZScore(spread, params.Window)

	spreadAligned, zAligned := market.Align(spread, z)
	data := make([]SpreadPoint, 0, len(spreadAligned))
	for i := range spreadAligned {
		data = append(data, SpreadPoint{
			TS:     spreadAligned[i].TS,
			Spread: spreadAligned[i].Value,
			ZScore: zAligned[i].Value,
		})
	}
	if len(data) > p.maxPoints {
		data = data[len(data)-p.maxPoints:]
	}

	result := SpreadAnalytics{Data: data}
	if hl, ok := analytics.HalfLife(spread); ok {
		result.HalfLife = &hl
	}
	if last, ok := zAligned.Last(); ok {
		metrics.LatestZScore.WithLabelValues(params.pairKey()).Set(last.Value)
	}

	if p.cache != nil {
		p.cache.Set(cacheKey, result, p.cacheTTL)
	}
	return result, nil
}

// HedgeRatioPoint is one rolling hedge-ratio observation.
type HedgeRatioPoint struct {
	TS         time.Time `json:"ts"`
	HedgeRatio float64   `json:"hedge_ratio"`
}

// HedgeRatioSeries computes the rolling hedge ratio over the aligned pair.
func (p *Pipeline) HedgeRatioSeries(params Params) ([]HedgeRatioPoint, error) {
	params, err := p.normalize(params)
	if err != nil {
		return nil, err
	}
	y, x, _, _, err := p.alignedPair(params)
	if err != nil {
		return nil, err
	}

	hr := analytics.RollingHedgeRatio(x, y, params.Window)
	hr = hr.Tail(p.maxPoints)
	out := make([]HedgeRatioPoint, 0, len(hr))
	for _, pt := range hr {
		out = append(out, HedgeRatioPoint{TS: pt.TS, HedgeRatio: pt.Value})
	}
	return out, nil
}

// ADF runs the stationarity test on the pair's spread.
func (p *Pipeline) ADF(params Params) (analytics.ADFResult, error) {
	params, err := p.normalize(params)
	if err != nil {
		return analytics.ADFResult{}, err
	}
	y, x, _, _, err := p.alignedPair(params)
	if err != nil {
		return analytics.ADFResult{}, err
	}
	if err := requireWindow(y, params.Window, params.pairKey()); err != nil {
		return analytics.ADFResult{}, err
	}

	beta := analytics.HedgeRatio(x, y)
	spread := analytics.Spread(y, x, beta)
	return analytics.ADF(spread)
}

// SignalQuality grades the pair relationship. Insufficient data is part of
// the result (LOW with a reason), not an error; only an empty pair is.
func (p *Pipeline) SignalQuality(params Params) (signal.Quality, error) {
	params, err := p.normalize(params)
	if err != nil {
		return signal.Quality{}, err
	}
	y, x, yTicks, _, err := p.alignedPair(params)
	if err != nil {
		return signal.Quality{}, err
	}

	beta := analytics.HedgeRatio(x, y)
	spread := analytics.Spread(y, x, beta)
	hedgeRatio := analytics.RollingHedgeRatio(x, y, params.Window)
	volume := p.volumeSeries(yTicks, y)

	q := signal.Score(spread, y, x, volume, hedgeRatio)
	metrics.SignalQualityScore.WithLabelValues(params.pairKey()).Set(float64(q.CheckScore()))
	return q, nil
}

// volumeSeries resamples traded size per bar on the aligned index, falling
// back to the raw tick sizes when the bar series is too short to carry a
// rolling mean.
func (p *Pipeline) volumeSeries(ticks []market.Tick, aligned market.Series) market.Series {
	vol := market.ResampleVolume(ticks, p.interval)
	vol, _ = market.Align(vol, aligned)
	if len(vol) >= signal.MinPoints {
		return vol
	}
	raw := make(market.Series, len(ticks))
	for i, t := range ticks {
		raw[i] = market.Point{TS: t.TS, Value: t.Size}
	}
	return raw
}

// SignalConfidence derives the 0-100 confidence companion score.
func (p *Pipeline) SignalConfidence(params Params) (signal.Confidence, error) {
	q, err := p.SignalQuality(params)
	if err != nil {
		return signal.Confidence{}, err
	}
	return signal.ConfidenceFor(q), nil
}

// TradePermission converts the pair's signal quality into a trade decision.
func (p *Pipeline) TradePermission(params Params) (signal.Decision, error) {
	q, err := p.SignalQuality(params)
	if err != nil {
		return signal.Decision{}, err
	}
	return signal.Evaluate(q), nil
}

// ZScoreAlert checks the latest z-score against the threshold and, when
// triggered, pushes a throttled alert to the configured channels.
func (p *Pipeline) ZScoreAlert(params Params) (signal.ZScoreAlert, error) {
	params, err := p.normalize(params)
	if err != nil {
		return signal.ZScoreAlert{}, err
	}
	y, x, _, _, err := p.alignedPair(params)
	if err != nil {
		return signal.ZScoreAlert{}, err
	}
	if err := requireWindow(y, params.Window, params.pairKey()); err != nil {
		return signal.ZScoreAlert{}, err
	}

	beta := analytics.HedgeRatio(x, y)
	spread := analytics.Spread(y, x, beta)
	z := analytics.ZScore(spread, params.Window)

	a, ok := signal.EvaluateZScore(z, params.Threshold)
	if !ok {
		return signal.ZScoreAlert{}, nil
	}
	if a.Triggered {
		metrics.AlertsFired.Inc()
		if p.alerts.Notify("zscore:"+params.pairKey(), alert.Alert{
			Level:   "WARNING",
			Message: "zscore threshold breached",
			Fields: map[string]interface{}{
				"pair":      params.pairKey(),
				"value":     a.Value,
				"threshold": a.Threshold,
			},
		}) {
			p.log.Warn("zscore alert dispatched",
				zap.String("pair", params.pairKey()),
				zap.Float64("value", a.Value),
			)
		}
	}
	return a, nil
}

// Backtest replays the pairs strategy over the pair's history.
func (p *Pipeline) Backtest(params Params) (backtest.Result, error) {
	params, err := p.normalize(params)
	if err != nil {
		return backtest.Result{}, err
	}
	y, x, _, _, err := p.alignedPair(params)
	if err != nil {
		return backtest.Result{}, err
	}
	if err := requireWindow(y, params.Window, params.pairKey()); err != nil {
		return backtest.Result{}, err
	}

	beta := analytics.HedgeRatio(x, y)
	spread := analytics.Spread(y, x, beta)
	z := analytics.ZScore(spread, params.Window)
	return backtest.Simulate(spread, z), nil
}
