package storage

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairs-analytics-go/market"
)

type fakeSink struct {
	mu      sync.Mutex
	batches [][]market.Tick
	fail    bool
}

func (f *fakeSink) InsertBatch(ticks []market.Tick) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("sink down")
	}
	f.batches = append(f.batches, ticks)
	return nil
}

func sampleTick(sec int64) market.Tick {
	return market.Tick{Symbol: "btcusdt", TS: time.Unix(sec, 0).UTC(), Price: 100, Size: 1}
}

func TestArchiver_FlushWritesPending(t *testing.T) {
	sink := &fakeSink{}
	a := NewArchiver(sink, "@every 5s", nil)

	a.Enqueue(sampleTick(1))
	a.Enqueue(sampleTick(2))
	require.NoError(t, a.Flush())

	require.Len(t, sink.batches, 1)
	assert.Len(t, sink.batches[0], 2)
}

func TestArchiver_EmptyFlushIsNoop(t *testing.T) {
	sink := &fakeSink{}
	a := NewArchiver(sink, "", nil)
	require.NoError(t, a.Flush())
	assert.Empty(t, sink.batches)
}

func TestArchiver_FailedFlushRetainsBatch(t *testing.T) {
	sink := &fakeSink{fail: true}
	a := NewArchiver(sink, "", nil)

	a.Enqueue(sampleTick(1))
	require.Error(t, a.Flush())

	sink.mu.Lock()
	sink.fail = false
	sink.mu.Unlock()

	require.NoError(t, a.Flush())
	require.Len(t, sink.batches, 1)
	assert.Len(t, sink.batches[0], 1, "failed batch is retried on the next flush")
}

func TestTickStore_RoundTrip(t *testing.T) {
	store, err := OpenTickStore(t.TempDir() + "/ticks.db")
	require.NoError(t, err)
	defer store.Close()

	ticks := []market.Tick{sampleTick(1), sampleTick(2), sampleTick(3)}
	require.NoError(t, store.InsertBatch(ticks))
	require.NoError(t, store.InsertBatch(nil))

	n, err := store.Count("btcusdt")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = store.Count("ethusdt")
	require.NoError(t, err)
	assert.Zero(t, n)
}
