package firetrack

import (
	"sync"

	"github.com/zenfield/firetrack/internal/clock"
	"github.com/zenfield/firetrack/store"
)

// Client is the SDK entry point. Obtain one through Builder.Build.
type Client struct {
	config  Config
	api     API
	store   store.Store
	clock   clock.Clock
	metrics *Metrics

	mu      sync.Mutex
	session *Session
	timer   clock.Timer
}

// MetricsSnapshot copies the client's internal counters.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// DeviceID returns the identifier sent as X-Device-ID on every request.
func (c *Client) DeviceID() string {
	return c.config.API.DeviceID
}

// Close drops the in-memory session and disarms the expiry timer. The
// durable record is left intact so a later RestoreSession can pick the
// session back up.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.session = nil
}

// bearerToken is the TokenSource handed to the transport. It reports no
// token once the session window has lapsed, even if the expiry timer has
// not fired yet.
func (c *Client) bearerToken() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.session.Valid(c.clock.Now()) {
		return "", false
	}
	return c.session.Token, true
}
