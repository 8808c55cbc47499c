package display

import (
	"sync"
	"time"
)

// DefaultFlashInterval is the minimum gap between word flash
// notifications.
const DefaultFlashInterval = 2 * time.Second

// Pacer enforces a minimum interval between word flash notifications.
// One shared timestamp covers both the word pipeline's automatic
// notifications and manual re-display, so the two paths share a single
// display budget.
type Pacer struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewPacer creates a pacer with the given minimum interval. A zero or
// negative interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until at least the configured interval has passed since
// the previous Wait returned, then stamps the shared timestamp.
// Concurrent callers serialize, each consuming a full interval.
func (p *Pacer) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.interval > 0 && !p.last.IsZero() {
		if elapsed := time.Since(p.last); elapsed < p.interval {
			time.Sleep(p.interval - elapsed)
		}
	}
	p.last = time.Now()
}
