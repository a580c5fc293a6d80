package game

import (
	"sync"
	"time"
)

// countdown is one live phase timer. Every room holds at most one; ticks
// re-check under the room lock that their handle is still current, so a
// cancelled countdown can never drive a phase transition.
type countdown struct {
	stop chan struct{}
	once sync.Once
}

func newCountdown() *countdown {
	return &countdown{stop: make(chan struct{})}
}

func (c *countdown) cancel() {
	c.once.Do(func() {
		close(c.stop)
	})
}

// run invokes tick once per second until tick reports the countdown is no
// longer current or cancel is called.
func (c *countdown) run(tick func(*countdown) bool) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if !tick(c) {
				return
			}
		}
	}
}
