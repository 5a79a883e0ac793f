package fetcher

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ThrottleSettings configures token-bucket throttling per target host.
// The zero value disables throttling entirely, which keeps concurrent
// search requests independent of each other.
type ThrottleSettings struct {
	Requests int
	Window   time.Duration
}

// Enabled reports whether the settings describe an active throttle.
func (t ThrottleSettings) Enabled() bool {
	return t.Requests > 0 && t.Window > 0
}

// Throttle limits outbound request pacing per host.
type Throttle struct {
	settings ThrottleSettings

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewThrottle creates a throttle; returns nil when the settings disable it.
func NewThrottle(settings ThrottleSettings) *Throttle {
	if !settings.Enabled() {
		return nil
	}
	return &Throttle{
		settings: settings,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the host's bucket allows another request.
func (t *Throttle) Wait(ctx context.Context, host string) error {
	if t == nil || host == "" {
		return nil
	}
	host = strings.ToLower(host)

	t.mu.Lock()
	limiter, ok := t.limiters[host]
	if !ok {
		interval := t.settings.Window / time.Duration(t.settings.Requests)
		if interval <= 0 {
			interval = time.Millisecond
		}
		limiter = rate.NewLimiter(rate.Every(interval), t.settings.Requests)
		t.limiters[host] = limiter
	}
	t.mu.Unlock()

	return limiter.Wait(ctx)
}
