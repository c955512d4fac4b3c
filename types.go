package firetrack

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/zenfield/firetrack/api"
)

// Wire-level records are defined once in the api package and re-exported
// here so SDK users rarely need to import the transport directly.
type (
	User             = api.User
	Asset            = api.Asset
	Condition        = api.Condition
	Inspection       = api.Inspection
	CreateAssetInput = api.CreateAssetInput
	UpdateAssetInput = api.UpdateAssetInput
	InspectionInput  = api.InspectionInput
	ReplacementInput = api.ReplacementInput
)

// Session is the cached record of an authenticated identity plus its
// validity window. It is a value snapshot; mutating a returned Session
// has no effect on the client.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the session window covers the given instant.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.Token != "" && s.ExpiresAt.After(now)
}

// ExpiresIn returns the remaining lifetime at the given instant. Expired
// sessions report zero, never a negative duration.
func (s *Session) ExpiresIn(now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	d := s.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// HasPermission reports whether the session's identity carries the named
// permission. Matching is case-insensitive.
func (s *Session) HasPermission(perm string) bool {
	if s == nil {
		return false
	}
	for _, p := range s.User.Permissions {
		if strings.EqualFold(p, perm) {
			return true
		}
	}
	return false
}

// API is the transport surface the client consumes. *api.Client satisfies
// it; tests substitute fakes.
type API interface {
	Login(ctx context.Context, username, password string) (*api.LoginResponse, error)
	Decrypt(ctx context.Context, encrypted string) (*api.Asset, error)
	Asset(ctx context.Context, id int64) (*api.Asset, error)
	AddAsset(ctx context.Context, in api.CreateAssetInput) (*api.Asset, error)
	RegisterAsset(ctx context.Context, in api.CreateAssetInput) (*api.Asset, error)
	UpdateAsset(ctx context.Context, id int64, in api.UpdateAssetInput) (*api.Asset, error)
	AddInspection(ctx context.Context, in api.InspectionInput) error
	Inspections(ctx context.Context, assetID int64) ([]api.Inspection, error)
	RecordReplacement(ctx context.Context, in api.ReplacementInput) error
	AttachInspectionPhoto(ctx context.Context, inspectionID int64, filename string, photo io.Reader) error
}
