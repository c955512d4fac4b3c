package firetrack

import (
	"context"
	"strings"
	"sync"

	"github.com/zenfield/firetrack/api"
)

// ReplacementStep is the phase of a replacement workflow.
type ReplacementStep uint8

const (
	// StepScanOriginal awaits the unit being taken out of service.
	StepScanOriginal ReplacementStep = iota
	// StepScanReplacement awaits the unit going in.
	StepScanReplacement
	// StepFillForm means both units are known and the condition form is
	// open.
	StepFillForm
)

func (s ReplacementStep) String() string {
	switch s {
	case StepScanOriginal:
		return "scan original"
	case StepScanReplacement:
		return "scan replacement"
	case StepFillForm:
		return "fill form"
	default:
		return "unknown"
	}
}

// ReplacementFlow chains two scan cycles and a condition form into one
// replacement event. The replacement unit must differ from the original;
// scanning the same code twice rejects the second scan and reopens
// capture. Safe for concurrent use.
type ReplacementFlow struct {
	client *Client
	scan   *ScanFlow

	mu          sync.Mutex
	step        ReplacementStep
	original    *api.Asset
	replacement *api.Asset
}

// NewReplacementFlow returns a flow at the scan-original step.
func (c *Client) NewReplacementFlow() *ReplacementFlow {
	return &ReplacementFlow{client: c, scan: c.NewScanFlow()}
}

// Step returns the current phase.
func (r *ReplacementFlow) Step() ReplacementStep {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step
}

// Original returns the unit being replaced, once scanned.
func (r *ReplacementFlow) Original() (Asset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.original == nil {
		return Asset{}, false
	}
	return *r.original, true
}

// Replacement returns the incoming unit, once scanned.
func (r *ReplacementFlow) Replacement() (Asset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replacement == nil {
		return Asset{}, false
	}
	return *r.replacement, true
}

// StartCapture opens the camera for the current scan step. At the form
// step it is a no-op.
func (r *ReplacementFlow) StartCapture() error {
	r.mu.Lock()
	if r.step == StepFillForm {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()
	return r.scan.StartCapture()
}

// HandleBarcode feeds a detection callback into the current scan step.
// The first resolved asset becomes the original; the second becomes the
// replacement unless it is the same unit, in which case the scan is
// rejected with ErrDuplicateSubject and capture reopens.
func (r *ReplacementFlow) HandleBarcode(ctx context.Context, raw string) error {
	if err := r.scan.HandleBarcode(ctx, raw); err != nil {
		return err
	}
	asset, ok := r.scan.Asset()
	if !ok {
		// Dropped duplicate callback or orphaned response.
		return nil
	}

	r.mu.Lock()
	switch r.step {
	case StepScanOriginal:
		a := asset
		r.original = &a
		r.step = StepScanReplacement
		r.mu.Unlock()
		r.scan.Reset()
		return nil

	case StepScanReplacement:
		if r.original != nil && asset.ID == r.original.ID {
			r.replacement = nil
			r.mu.Unlock()
			r.scan.Reset()
			r.client.metrics.Inc(MetricReplacementDuplicate)
			if err := r.scan.StartCapture(); err != nil {
				return err
			}
			return ErrDuplicateSubject
		}
		a := asset
		r.replacement = &a
		r.step = StepFillForm
		r.mu.Unlock()
		r.scan.Reset()
		return nil
	}
	r.mu.Unlock()
	return nil
}

// Submit validates the condition form and records the replacement event.
// The flow stays at the form step on failure so the operator can retry.
func (r *ReplacementFlow) Submit(ctx context.Context, original, replacement Condition, notes string) error {
	r.mu.Lock()
	if r.step != StepFillForm || r.original == nil || r.replacement == nil {
		r.mu.Unlock()
		return ErrReplacementIncomplete
	}
	origID := r.original.ID
	replID := r.replacement.ID
	r.mu.Unlock()

	if !original.Complete() || !replacement.Complete() || strings.TrimSpace(notes) == "" {
		return ErrIncompleteForm
	}

	in := ReplacementInput{
		OriginalExtinguisherID:    origID,
		ReplacementExtinguisherID: replID,
		OriginalCondition:         original,
		ReplacementCondition:      replacement,
		Notes:                     notes,
	}
	if err := r.client.RecordReplacement(ctx, in); err != nil {
		return err
	}
	r.client.metrics.Inc(MetricReplacementRecorded)
	return nil
}

// Reset abandons the workflow and returns to the scan-original step.
func (r *ReplacementFlow) Reset() {
	r.mu.Lock()
	r.step = StepScanOriginal
	r.original = nil
	r.replacement = nil
	r.mu.Unlock()
	r.scan.Reset()
}
