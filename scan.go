package firetrack

import (
	"context"
	"fmt"
	"sync"

	"github.com/zenfield/firetrack/api"
	"github.com/zenfield/firetrack/qr"
)

// ScanState is the phase of one scan cycle.
type ScanState uint8

const (
	// ScanIdle means no capture is in progress.
	ScanIdle ScanState = iota
	// ScanCapturing means the camera is live and a barcode is awaited.
	ScanCapturing
	// ScanResolving means a payload was accepted and its resolution
	// request is in flight. Further barcodes are ignored.
	ScanResolving
	// ScanResolved means the cycle produced an asset.
	ScanResolved
)

func (s ScanState) String() string {
	switch s {
	case ScanIdle:
		return "idle"
	case ScanCapturing:
		return "capturing"
	case ScanResolving:
		return "resolving"
	case ScanResolved:
		return "resolved"
	default:
		return fmt.Sprintf("ScanState(%d)", uint8(s))
	}
}

// ScanFlow drives one scan cycle: capture a barcode, classify it, resolve
// it to an asset. Camera hardware keeps firing detection callbacks after
// the first hit, so the flow accepts exactly one barcode per cycle and
// drops the rest. Safe for concurrent use.
type ScanFlow struct {
	client *Client

	mu         sync.Mutex
	state      ScanState
	scanned    bool
	generation uint64
	asset      *api.Asset
}

// NewScanFlow returns an idle flow bound to the client's transport and
// session.
func (c *Client) NewScanFlow() *ScanFlow {
	return &ScanFlow{client: c}
}

// State returns the current phase.
func (f *ScanFlow) State() ScanState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Asset returns the resolved record. It reports false in every phase but
// ScanResolved.
func (f *ScanFlow) Asset() (Asset, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != ScanResolved || f.asset == nil {
		return Asset{}, false
	}
	return *f.asset, true
}

// MapLink returns a maps URL for the resolved asset's coordinates.
func (f *ScanFlow) MapLink() (string, bool) {
	a, ok := f.Asset()
	if !ok {
		return "", false
	}
	return a.MapLink()
}

// StartCapture opens a scan cycle. It requires an active session and is a
// no-op while a cycle is already underway.
func (f *ScanFlow) StartCapture() error {
	if _, ok := f.client.CurrentUser(); !ok {
		return ErrNoSession
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == ScanCapturing || f.state == ScanResolving {
		return nil
	}
	f.state = ScanCapturing
	f.scanned = false
	f.asset = nil
	f.client.metrics.Inc(MetricScanStarted)
	return nil
}

// HandleBarcode feeds one detection callback into the cycle. The first
// barcode of a capture is classified and resolved; every later callback,
// and any callback outside the capturing phase, is silently dropped. A
// response arriving after Reset is discarded without touching state.
func (f *ScanFlow) HandleBarcode(ctx context.Context, raw string) error {
	f.mu.Lock()
	if f.state != ScanCapturing || f.scanned {
		f.mu.Unlock()
		return nil
	}
	f.scanned = true
	f.state = ScanResolving
	gen := f.generation
	f.mu.Unlock()

	payload, err := qr.Parse(raw)
	if err != nil {
		f.fail(gen, MetricScanInvalidPayload)
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var asset *api.Asset
	var rerr error
	switch payload.Kind {
	case qr.KindAssetID:
		asset, rerr = f.client.api.Asset(ctx, payload.AssetID)
	default:
		asset, rerr = f.client.api.Decrypt(ctx, payload.Opaque)
	}

	f.mu.Lock()
	if f.generation != gen || f.state != ScanResolving {
		f.mu.Unlock()
		f.client.metrics.Inc(MetricScanStaleDropped)
		return nil
	}
	if rerr != nil {
		f.state = ScanIdle
		f.scanned = false
		f.mu.Unlock()
		f.client.metrics.Inc(MetricScanResolutionFailed)
		return fmt.Errorf("%w: %v", ErrResolutionFailed, rerr)
	}
	if asset == nil || asset.ID <= 0 {
		f.state = ScanIdle
		f.scanned = false
		f.mu.Unlock()
		f.client.metrics.Inc(MetricScanResolutionFailed)
		return fmt.Errorf("%w: resolved record missing id", ErrResolutionFailed)
	}
	f.asset = asset
	f.state = ScanResolved
	f.mu.Unlock()
	f.client.metrics.Inc(MetricScanResolved)
	return nil
}

// Reset abandons the cycle and returns to idle. A resolution still in
// flight is orphaned; its response will be dropped on arrival.
func (f *ScanFlow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	f.state = ScanIdle
	f.scanned = false
	f.asset = nil
}

// fail rolls a cycle that produced no resolution request back to idle.
func (f *ScanFlow) fail(gen uint64, metric MetricID) {
	f.mu.Lock()
	if f.generation == gen && f.state == ScanResolving {
		f.state = ScanIdle
		f.scanned = false
	}
	f.mu.Unlock()
	f.client.metrics.Inc(metric)
}
