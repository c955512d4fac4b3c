package firetrack

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zenfield/firetrack/api"
	"github.com/zenfield/firetrack/internal/clock"
	"github.com/zenfield/firetrack/store"
)

var errUnexpectedCall = errors.New("unexpected transport call")

// fakeAPI satisfies API with per-method hooks; unset hooks fail the call.
type fakeAPI struct {
	loginFn       func(ctx context.Context, username, password string) (*api.LoginResponse, error)
	decryptFn     func(ctx context.Context, encrypted string) (*api.Asset, error)
	assetFn       func(ctx context.Context, id int64) (*api.Asset, error)
	addAssetFn    func(ctx context.Context, in api.CreateAssetInput) (*api.Asset, error)
	updateAssetFn func(ctx context.Context, id int64, in api.UpdateAssetInput) (*api.Asset, error)
	replaceFn       func(ctx context.Context, in api.ReplacementInput) error
	inspectionsFn   func(ctx context.Context, assetID int64) ([]api.Inspection, error)
	addInspectionFn func(ctx context.Context, in api.InspectionInput) error
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	if f.loginFn == nil {
		return nil, errUnexpectedCall
	}
	return f.loginFn(ctx, username, password)
}

func (f *fakeAPI) Decrypt(ctx context.Context, encrypted string) (*api.Asset, error) {
	if f.decryptFn == nil {
		return nil, errUnexpectedCall
	}
	return f.decryptFn(ctx, encrypted)
}

func (f *fakeAPI) Asset(ctx context.Context, id int64) (*api.Asset, error) {
	if f.assetFn == nil {
		return nil, errUnexpectedCall
	}
	return f.assetFn(ctx, id)
}

func (f *fakeAPI) AddAsset(ctx context.Context, in api.CreateAssetInput) (*api.Asset, error) {
	if f.addAssetFn == nil {
		return nil, errUnexpectedCall
	}
	return f.addAssetFn(ctx, in)
}

func (f *fakeAPI) RegisterAsset(ctx context.Context, in api.CreateAssetInput) (*api.Asset, error) {
	if f.addAssetFn == nil {
		return nil, errUnexpectedCall
	}
	return f.addAssetFn(ctx, in)
}

func (f *fakeAPI) UpdateAsset(ctx context.Context, id int64, in api.UpdateAssetInput) (*api.Asset, error) {
	if f.updateAssetFn == nil {
		return nil, errUnexpectedCall
	}
	return f.updateAssetFn(ctx, id, in)
}

func (f *fakeAPI) AddInspection(ctx context.Context, in api.InspectionInput) error {
	if f.addInspectionFn == nil {
		return errUnexpectedCall
	}
	return f.addInspectionFn(ctx, in)
}

func (f *fakeAPI) Inspections(ctx context.Context, assetID int64) ([]api.Inspection, error) {
	if f.inspectionsFn == nil {
		return nil, errUnexpectedCall
	}
	return f.inspectionsFn(ctx, assetID)
}

func (f *fakeAPI) RecordReplacement(ctx context.Context, in api.ReplacementInput) error {
	if f.replaceFn == nil {
		return errUnexpectedCall
	}
	return f.replaceFn(ctx, in)
}

func (f *fakeAPI) AttachInspectionPhoto(ctx context.Context, inspectionID int64, filename string, photo io.Reader) error {
	return errUnexpectedCall
}

// failingStore wraps a Store and fails the selected operations.
type failingStore struct {
	store.Store
	failSave   bool
	failLoad   bool
	failDelete bool
}

var errStoreBroken = errors.New("store broken")

func (s *failingStore) Save(ctx context.Context, data []byte, ttl time.Duration) error {
	if s.failSave {
		return errStoreBroken
	}
	return s.Store.Save(ctx, data, ttl)
}

func (s *failingStore) Load(ctx context.Context) ([]byte, error) {
	if s.failLoad {
		return nil, errStoreBroken
	}
	return s.Store.Load(ctx)
}

func (s *failingStore) Delete(ctx context.Context) error {
	if s.failDelete {
		return errStoreBroken
	}
	return s.Store.Delete(ctx)
}

var testEpoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	client *Client
	api    *fakeAPI
	store  store.Store
	clock  *clock.Fake
}

func newTestEnv(t *testing.T, transport *fakeAPI, st store.Store) *testEnv {
	t.Helper()
	if transport == nil {
		transport = &fakeAPI{}
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	clk := clock.NewFake(testEpoch)
	client, err := New().
		WithAPI(transport).
		WithStore(st).
		WithClock(clk).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)
	return &testEnv{client: client, api: transport, store: st, clock: clk}
}

func loginResponse(token string, ttl time.Duration) *api.LoginResponse {
	return &api.LoginResponse{
		Token: token,
		User: &api.User{
			Username:    "inspector1",
			Email:       "inspector1@example.com",
			Role:        "Admin",
			Permissions: []string{"inspect", "replace"},
			ProjectID:   "p1",
		},
		Session: &api.SessionWindow{
			IssuedAt:  testEpoch,
			ExpiresAt: testEpoch.Add(ttl),
		},
	}
}

// signedToken mints a real HS256 token whose exp claim is readable by
// the unverified restore cross-check.
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "inspector1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func mustLogin(t *testing.T, env *testEnv, ttl time.Duration) *Session {
	t.Helper()
	env.api.loginFn = func(ctx context.Context, username, password string) (*api.LoginResponse, error) {
		return loginResponse("tok-"+username, ttl), nil
	}
	sess, err := env.client.Login(context.Background(), "inspector1", "pass123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return sess
}
