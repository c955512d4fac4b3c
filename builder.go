package firetrack

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/zenfield/firetrack/api"
	"github.com/zenfield/firetrack/internal/clock"
	"github.com/zenfield/firetrack/store"
)

// Builder assembles a Client. Chain the With methods and finish with
// Build; a builder is single-use and not safe for concurrent use.
type Builder struct {
	config     Config
	store      store.Store
	clock      clock.Clock
	httpClient *http.Client
	api        API
	built      bool
}

// New starts a builder seeded with the default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets the backend root without touching the rest of the
// configuration.
func (b *Builder) WithBaseURL(u string) *Builder {
	b.config.API.BaseURL = u
	return b
}

// WithTimeout bounds every request end to end.
func (b *Builder) WithTimeout(d time.Duration) *Builder {
	b.config.API.Timeout = d
	return b
}

// WithStore sets the durable session store. Required.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.store = s
	return b
}

// WithClock overrides the time source, mainly for tests.
func (b *Builder) WithClock(c clock.Clock) *Builder {
	b.clock = c
	return b
}

// WithHTTPClient overrides the underlying HTTP client.
func (b *Builder) WithHTTPClient(hc *http.Client) *Builder {
	b.httpClient = hc
	return b
}

// WithAPI replaces the whole transport. When set, the API section of the
// configuration is ignored. Mainly for tests.
func (b *Builder) WithAPI(a API) *Builder {
	b.api = a
	return b
}

// WithMetricsEnabled toggles counter collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the assembly and returns a ready Client.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, errors.New("session store required")
	}
	cfg := cloneConfig(b.config)
	if b.api == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if cfg.API.DeviceID == "" {
			cfg.API.DeviceID = uuid.NewString()
		}
	}

	clk := b.clock
	if clk == nil {
		clk = clock.System()
	}

	c := &Client{
		config:  cfg,
		store:   b.store,
		clock:   clk,
		metrics: NewMetrics(cfg.Metrics),
	}
	c.api = b.api
	if c.api == nil {
		transport, err := api.NewClient(api.Config{
			BaseURL:    cfg.API.BaseURL,
			Timeout:    cfg.API.Timeout,
			DeviceID:   cfg.API.DeviceID,
			HTTPClient: b.httpClient,
		}, c.bearerToken)
		if err != nil {
			return nil, err
		}
		c.api = transport
	}

	b.built = true
	return c, nil
}
