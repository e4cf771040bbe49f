package market

import (
	"sync"
	"testing"
	"time"
)

func tick(sym string, sec int64, price float64) Tick {
	return Tick{Symbol: sym, TS: time.Unix(sec, 0).UTC(), Price: price, Size: 1}
}

func TestTickBuffer_AppendOrder(t *testing.T) {
	b := NewTickBuffer(5)
	for i := 0; i < 3; i++ {
		b.Append(tick("btcusdt", int64(i), 100+float64(i)))
	}

	snap := b.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 ticks, got %d", len(snap))
	}
	for i, tk := range snap {
		if tk.Price != 100+float64(i) {
			t.Errorf("position %d: expected price %f, got %f", i, 100+float64(i), tk.Price)
		}
	}
}

func TestTickBuffer_EvictsOldest(t *testing.T) {
	b := NewTickBuffer(3)
	for i := 0; i < 5; i++ {
		b.Append(tick("btcusdt", int64(i), float64(i)))
	}

	snap := b.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected capacity-bound snapshot of 3, got %d", len(snap))
	}
	if snap[0].Price != 2 || snap[2].Price != 4 {
		t.Errorf("expected prices [2 3 4], got [%v %v %v]", snap[0].Price, snap[1].Price, snap[2].Price)
	}
}

func TestTickBuffer_EmptySnapshot(t *testing.T) {
	b := NewTickBuffer(10)
	if snap := b.Snapshot(); len(snap) != 0 {
		t.Errorf("expected empty snapshot, got %d ticks", len(snap))
	}
	if _, ok := b.LastTime(); ok {
		t.Error("expected no last time on empty buffer")
	}
}

func TestTickBuffer_ConcurrentAppendSnapshot(t *testing.T) {
	b := NewTickBuffer(100)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			b.Append(tick("ethusdt", int64(i), float64(i)))
		}
	}()

	for i := 0; i < 100; i++ {
		snap := b.Snapshot()
		if len(snap) > 100 {
			t.Errorf("snapshot exceeds capacity: %d", len(snap))
		}
		for j := 1; j < len(snap); j++ {
			if snap[j].Price < snap[j-1].Price {
				t.Fatalf("snapshot out of arrival order at %d", j)
			}
		}
	}
	wg.Wait()
}

func TestRegistry_CreatesOnDemand(t *testing.T) {
	r := NewRegistry(10)
	if snap := r.Snapshot("unknown"); len(snap) != 0 {
		t.Errorf("unknown symbol should yield empty snapshot, got %d", len(snap))
	}

	r.Buffer("btcusdt").Append(tick("btcusdt", 1, 50000))
	if got := len(r.Snapshot("btcusdt")); got != 1 {
		t.Errorf("expected 1 tick, got %d", got)
	}
	if b1, b2 := r.Buffer("btcusdt"), r.Buffer("btcusdt"); b1 != b2 {
		t.Error("Buffer should return the same instance per symbol")
	}
	if got := len(r.Symbols()); got != 1 {
		t.Errorf("expected 1 symbol, got %d", got)
	}
}
