package firetrack

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/zenfield/firetrack/api"
)

// Asset fetches an extinguisher record by id.
func (c *Client) Asset(ctx context.Context, id int64) (*Asset, error) {
	out, err := c.api.Asset(ctx, id)
	if err != nil {
		return nil, c.mapErr(err)
	}
	return out, nil
}

// AddAsset registers a new extinguisher on the anonymous endpoint. A
// conflicting location maps to ErrDuplicateAsset.
func (c *Client) AddAsset(ctx context.Context, in CreateAssetInput) (*Asset, error) {
	out, err := c.api.AddAsset(ctx, in)
	if err != nil {
		return nil, c.mapErr(err)
	}
	return out, nil
}

// RegisterAsset registers a new extinguisher on the authenticated
// endpoint. Requires an active session.
func (c *Client) RegisterAsset(ctx context.Context, in CreateAssetInput) (*Asset, error) {
	if _, ok := c.CurrentUser(); !ok {
		return nil, ErrNoSession
	}
	out, err := c.api.RegisterAsset(ctx, in)
	if err != nil {
		return nil, c.mapErr(err)
	}
	return out, nil
}

// UpdateAsset mutates the service fields of an asset. On approval-gated
// deployments the change is queued instead of applied; that outcome is
// reported as ErrApprovalPending with the server message attached.
func (c *Client) UpdateAsset(ctx context.Context, id int64, in UpdateAssetInput) (*Asset, error) {
	out, err := c.api.UpdateAsset(ctx, id, in)
	if err != nil {
		return nil, c.mapErr(err)
	}
	return out, nil
}

// AddInspection appends an inspection record. The inspection date
// defaults to today when left empty. Requires an active session.
func (c *Client) AddInspection(ctx context.Context, in InspectionInput) error {
	if _, ok := c.CurrentUser(); !ok {
		return ErrNoSession
	}
	if in.InspectionDate == "" {
		in.InspectionDate = c.clock.Now().Format("2006-01-02")
	}
	return c.mapErr(c.api.AddInspection(ctx, in))
}

// Inspections lists an asset's inspection history.
func (c *Client) Inspections(ctx context.Context, assetID int64) ([]Inspection, error) {
	out, err := c.api.Inspections(ctx, assetID)
	if err != nil {
		return nil, c.mapErr(err)
	}
	return out, nil
}

// RecordReplacement logs a replacement event linking two units. Requires
// an active session. Most callers go through ReplacementFlow, which
// enforces the scan ordering and the distinct-unit rule first.
func (c *Client) RecordReplacement(ctx context.Context, in ReplacementInput) error {
	if _, ok := c.CurrentUser(); !ok {
		return ErrNoSession
	}
	return c.mapErr(c.api.RecordReplacement(ctx, in))
}

// AttachInspectionPhoto uploads a photo for an inspection record.
// Requires an active session.
func (c *Client) AttachInspectionPhoto(ctx context.Context, inspectionID int64, filename string, photo io.Reader) error {
	if _, ok := c.CurrentUser(); !ok {
		return ErrNoSession
	}
	return c.mapErr(c.api.AttachInspectionPhoto(ctx, inspectionID, filename, photo))
}

// mapErr lifts transport verdicts into the package sentinels. Status
// errors without a dedicated sentinel pass through unchanged so callers
// can still inspect the code with api.AsStatus.
func (c *Client) mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, api.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrDuplicateAsset, err)
	case errors.Is(err, api.ErrApprovalPending):
		return fmt.Errorf("%w: %v", ErrApprovalPending, err)
	case errors.Is(err, api.ErrTimeout):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, api.ErrTransport):
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	default:
		return err
	}
}
