package market

import (
	"sync"
	"time"
)

// DefaultBufferCapacity bounds the per-symbol hot buffer.
const DefaultBufferCapacity = 10000

// TickBuffer is a fixed-capacity FIFO of ticks for one symbol. The oldest
// entry is evicted on overflow. There is exactly one writer (the ingestion
// goroutine for the symbol); readers take point-in-time snapshots.
type TickBuffer struct {
	mu    sync.RWMutex
	buf   []Tick
	head  int // index of oldest entry
	size  int
	cap   int
}

// NewTickBuffer creates a buffer with the given capacity (DefaultBufferCapacity
// when non-positive).
func NewTickBuffer(capacity int) *TickBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &TickBuffer{
		buf: make([]Tick, capacity),
		cap: capacity,
	}
}

// Append adds a tick in arrival order, evicting the oldest on overflow. O(1).
func (b *TickBuffer) Append(t Tick) {
	b.mu.Lock()
	if b.size < b.cap {
		b.buf[(b.head+b.size)%b.cap] = t
		b.size++
	} else {
		b.buf[b.head] = t
		b.head = (b.head + 1) % b.cap
	}
	b.mu.Unlock()
}

// Snapshot returns an ordered copy of the current contents. The copy is
// immutable from the buffer's point of view; the writer may keep appending
// while the caller iterates. An empty buffer yields an empty snapshot.
func (b *TickBuffer) Snapshot() []Tick {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Tick, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.buf[(b.head+i)%b.cap]
	}
	return out
}

// Len returns the current number of buffered ticks.
func (b *TickBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// LastTime returns the timestamp of the most recent tick.
func (b *TickBuffer) LastTime() (time.Time, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.size == 0 {
		return time.Time{}, false
	}
	return b.buf[(b.head+b.size-1)%b.cap].TS, true
}

// Registry owns the per-symbol buffers. It is injected into every pipeline
// entry point rather than living as a process-wide singleton.
type Registry struct {
	mu       sync.RWMutex
	buffers  map[string]*TickBuffer
	capacity int
}

// NewRegistry creates an empty registry; buffers are created on demand with
// the given capacity.
func NewRegistry(capacity int) *Registry {
	return &Registry{
		buffers:  make(map[string]*TickBuffer),
		capacity: capacity,
	}
}

// Buffer returns the buffer for symbol, creating it if needed.
func (r *Registry) Buffer(symbol string) *TickBuffer {
	r.mu.RLock()
	b, ok := r.buffers[symbol]
	r.mu.RUnlock()
	if ok {
		return b
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.buffers[symbol]; ok {
		return b
	}
	b = NewTickBuffer(r.capacity)
	r.buffers[symbol] = b
	return b
}

// Snapshot returns a point-in-time copy of the symbol's ticks; an unknown
// symbol yields an empty snapshot, not an error.
func (r *Registry) Snapshot(symbol string) []Tick {
	r.mu.RLock()
	b, ok := r.buffers[symbol]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return b.Snapshot()
}

// Symbols lists the symbols with a buffer.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.buffers))
	for sym := range r.buffers {
		out = append(out, sym)
	}
	return out
}
