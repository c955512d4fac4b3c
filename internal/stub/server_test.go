package stub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zenfield/firetrack/api"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	s := New(Config{
		JWTSecret:  []byte("test-secret"),
		SessionTTL: time.Hour,
		Accounts: []Account{{
			Username:     "inspector1",
			PasswordHash: HashPassword("pass123"),
			Email:        "inspector1@example.com",
			Role:         "Inspector",
			Permissions:  []string{"inspect"},
			ProjectID:    "p1",
		}},
		Assets: []api.Asset{
			{ID: 1, Location: "Lobby", Block: "A", Floor: "1"},
		},
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestLoginIssuesSessionPayload(t *testing.T) {
	ts := newTestServer(t)

	body := bytes.NewBufferString(`{"username":"inspector1","password":"pass123"}`)
	resp, err := http.Post(ts.URL+"/auth/login", "application/json", body)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}

	var out struct {
		Token   string          `json:"token"`
		User    json.RawMessage `json:"user"`
		Session json.RawMessage `json:"session"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.Token == "" || out.User == nil || out.Session == nil {
		t.Fatalf("incomplete login payload: %+v", out)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	ts := newTestServer(t)

	body := bytes.NewBufferString(`{"username":"inspector1","password":"wrong"}`)
	resp, err := http.Post(ts.URL+"/auth/login", "application/json", body)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("login status = %d, want 401", resp.StatusCode)
	}
}

func TestAuthenticatedRoutesRejectMissingBearer(t *testing.T) {
	ts := newTestServer(t)

	body := bytes.NewBufferString(`{"extinguisher_id":1}`)
	resp, err := http.Post(ts.URL+"/inspection/add", "application/json", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
