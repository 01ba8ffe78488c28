package policy

import (
	"sync"
	"time"

	"github.com/josephlewis42/gatesh/core/shellerr"
)

const (
	// RateLimitWindow is the trailing window uses are counted over.
	RateLimitWindow = 60 * time.Second
	// RateLimitMax is the number of uses allowed per key in the window.
	RateLimitMax = 10
)

// slidingWindow remembers the times of recent uses per key.
type slidingWindow struct {
	mu     sync.Mutex
	uses   map[string][]time.Time
	window time.Duration
	max    int
	now    func() time.Time
}

func newSlidingWindow(window time.Duration, max int, now func() time.Time) *slidingWindow {
	return &slidingWindow{
		uses:   make(map[string][]time.Time),
		window: window,
		max:    max,
		now:    now,
	}
}

// allow prunes expired uses for key and records a new one if there's room.
// It returns the number of uses in the window when the use was rejected.
func (w *slidingWindow) allow(key string) (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	uses := w.uses[key]

	kept := uses[:0]
	for _, t := range uses {
		if now.Sub(t) < w.window {
			kept = append(kept, t)
		}
	}

	if len(kept) >= w.max {
		w.uses[key] = kept
		return len(kept), false
	}

	w.uses[key] = append(kept, now)
	return 0, true
}

// CheckRateLimit records a use of key, failing if key was already used
// RateLimitMax times in the trailing RateLimitWindow. Rejected uses aren't
// recorded.
func (e *Engine) CheckRateLimit(key string) error {
	if count, ok := e.limiter.allow(key); !ok {
		return e.reject(shellerr.Newf(shellerr.KindResourceLimit, shellerr.RateLimit, key,
			"%d uses in the last %s", count, e.limiter.window))
	}
	return nil
}
