package storage

import (
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"pairs-analytics-go/market"
	"pairs-analytics-go/metrics"
)

// Sink accepts tick batches for archival.
type Sink interface {
	InsertBatch(ticks []market.Tick) error
}

// Archiver buffers ticks off the ingestion hot path and flushes them to the
// sink on a schedule. Losing a flush loses archive rows only; the hot buffer
// and the analytics pipeline are unaffected.
type Archiver struct {
	sink Sink
	log  *zap.Logger

	mu      sync.Mutex
	pending []market.Tick

	cron *cron.Cron
	spec string
}

// NewArchiver creates an archiver flushing on the given cron spec
// (e.g. "@every 5s").
func NewArchiver(sink Sink, spec string, log *zap.Logger) *Archiver {
	if spec == "" {
		spec = "@every 5s"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Archiver{
		sink: sink,
		log:  log,
		cron: cron.New(cron.WithSeconds()),
		spec: spec,
	}
}

// Enqueue buffers one tick. Safe for concurrent producers.
func (a *Archiver) Enqueue(t market.Tick) {
	a.mu.Lock()
	a.pending = append(a.pending, t)
	a.mu.Unlock()
}

// Start schedules periodic flushes.
func (a *Archiver) Start() error {
	if _, err := a.cron.AddFunc(a.spec, func() {
		if err := a.Flush(); err != nil {
			a.log.Warn("archive flush failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	a.cron.Start()
	return nil
}

// Flush writes all pending ticks to the sink.
func (a *Archiver) Flush() error {
	a.mu.Lock()
	batch := a.pending
	a.pending = nil
	a.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	if err := a.sink.InsertBatch(batch); err != nil {
		// Put the batch back so the next flush retries it.
		a.mu.Lock()
		a.pending = append(batch, a.pending...)
		a.mu.Unlock()
		return err
	}
	metrics.ArchivedTicks.Add(float64(len(batch)))
	a.log.Debug("archived ticks", zap.Int("count", len(batch)))
	return nil
}

// Stop halts the schedule and flushes what is left.
func (a *Archiver) Stop() error {
	ctx := a.cron.Stop()
	<-ctx.Done()
	return a.Flush()
}
