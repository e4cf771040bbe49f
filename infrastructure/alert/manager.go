package alert

import (
	"sync"
	"time"
)

// Alert carries one notification for operators.
type Alert struct {
	Level     string // "INFO", "WARNING", "CRITICAL"
	Message   string
	Timestamp time.Time
	Fields    map[string]interface{}
}

// Channel delivers alerts somewhere.
type Channel interface {
	Send(alert Alert) error
	Name() string
}

// Throttler rate-limits alerts per key so a breached threshold does not
// flood the channels on every request.
type Throttler struct {
	lastSent map[string]time.Time
	interval time.Duration
	mu       sync.Mutex
}

// NewThrottler creates a throttler with the given minimum interval per key.
func NewThrottler(interval time.Duration) *Throttler {
	return &Throttler{
		lastSent: make(map[string]time.Time),
		interval: interval,
	}
}

// Allow reports whether an alert for key may be sent now.
func (t *Throttler) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	last, exists := t.lastSent[key]
	if !exists || now.Sub(last) >= t.interval {
		t.lastSent[key] = now
		return true
	}
	return false
}

// Manager fans alerts out to the registered channels, throttled per key.
type Manager struct {
	channels []Channel
	throttle *Throttler
	mu       sync.RWMutex
}

// NewManager creates a manager with the given per-key throttle interval.
func NewManager(throttleInterval time.Duration) *Manager {
	return &Manager{throttle: NewThrottler(throttleInterval)}
}

// AddChannel registers a delivery channel.
func (m *Manager) AddChannel(c Channel) {
	m.mu.Lock()
	m.channels = append(m.channels, c)
	m.mu.Unlock()
}

// Notify sends the alert through every channel unless key is throttled.
// Returns true when the alert was dispatched.
func (m *Manager) Notify(key string, a Alert) bool {
	if m == nil {
		return false
	}
	if !m.throttle.Allow(key) {
		return false
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	m.mu.RLock()
	channels := append([]Channel(nil), m.channels...)
	m.mu.RUnlock()
	for _, c := range channels {
		_ = c.Send(a) // a broken channel must not block the others
	}
	return true
}
