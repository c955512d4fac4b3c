package firetrack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/zenfield/firetrack/api"
	"github.com/zenfield/firetrack/store"
)

// storedSession is the durable record layout. It mirrors the login
// payload so a stored record and a fresh login decode the same way.
type storedSession struct {
	Token   string             `json:"token"`
	User    *api.User          `json:"user"`
	Session *api.SessionWindow `json:"session"`
}

// Login exchanges credentials for an active session. On success the
// session is persisted, installed in memory, and armed with an expiry
// timer; the returned value is a snapshot.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingCredentials
	}

	resp, err := c.api.Login(ctx, username, password)
	if err != nil {
		return nil, c.mapLoginError(err)
	}
	if resp == nil || resp.Token == "" || resp.User == nil || resp.Session == nil ||
		resp.Session.IssuedAt.IsZero() || resp.Session.ExpiresAt.IsZero() {
		c.metrics.Inc(MetricLoginMalformed)
		return nil, fmt.Errorf("%w: incomplete login payload", ErrMalformedResponse)
	}
	if !resp.Session.ExpiresAt.After(c.clock.Now()) {
		c.metrics.Inc(MetricLoginMalformed)
		return nil, fmt.Errorf("%w: session expired on arrival", ErrMalformedResponse)
	}

	sess := &Session{
		Token:     resp.Token,
		User:      *resp.User,
		IssuedAt:  resp.Session.IssuedAt,
		ExpiresAt: resp.Session.ExpiresAt,
	}
	sess.User.Role = strings.ToLower(sess.User.Role)

	c.persist(ctx, sess)
	c.install(sess)
	c.metrics.Inc(MetricLoginSuccess)

	out := *sess
	return &out, nil
}

func (c *Client) mapLoginError(err error) error {
	if se, ok := api.AsStatus(err); ok {
		c.metrics.Inc(MetricLoginRejected)
		msg := se.Message
		if msg == "" {
			msg = "server refused the credentials"
		}
		return fmt.Errorf("%w: %s", ErrLoginRejected, msg)
	}
	switch {
	case errors.Is(err, api.ErrTimeout):
		c.metrics.Inc(MetricLoginNetworkError)
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, api.ErrDecode):
		c.metrics.Inc(MetricLoginMalformed)
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	default:
		c.metrics.Inc(MetricLoginNetworkError)
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
}

// RestoreSession rehydrates a previously persisted session. A missing,
// unreadable, incomplete, or expired record all land in the anonymous
// state with (nil, nil); restore never fails the caller over storage.
func (c *Client) RestoreSession(ctx context.Context) (*Session, error) {
	raw, err := c.store.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		c.storageFailure("load", err)
		return nil, nil
	}

	var rec storedSession
	if err := json.Unmarshal(raw, &rec); err != nil ||
		rec.Token == "" || rec.User == nil || rec.Session == nil ||
		rec.Session.ExpiresAt.IsZero() {
		c.discard(ctx)
		return nil, nil
	}

	sess := &Session{
		Token:     rec.Token,
		User:      *rec.User,
		IssuedAt:  rec.Session.IssuedAt,
		ExpiresAt: rec.Session.ExpiresAt,
	}
	sess.User.Role = strings.ToLower(sess.User.Role)

	if c.config.Session.TrustTokenExpiry {
		if exp, ok := tokenExpiry(sess.Token); ok && exp.Before(sess.ExpiresAt) {
			sess.ExpiresAt = exp
		}
	}
	if !sess.ExpiresAt.After(c.clock.Now()) {
		c.metrics.Inc(MetricSessionRestoreExpired)
		c.discard(ctx)
		return nil, nil
	}

	c.install(sess)
	c.metrics.Inc(MetricSessionRestored)

	out := *sess
	return &out, nil
}

// Logout ends the session and removes the durable record. Calling it in
// the anonymous state is a no-op.
func (c *Client) Logout(ctx context.Context) {
	c.mu.Lock()
	had := c.session != nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.session = nil
	c.mu.Unlock()

	if err := c.store.Delete(ctx); err != nil {
		c.storageFailure("delete", err)
	}
	if had {
		c.metrics.Inc(MetricLogout)
	}
}

// CurrentSession returns a snapshot of the active session.
func (c *Client) CurrentSession() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.session.Valid(c.clock.Now()) {
		return Session{}, false
	}
	return *c.session, true
}

// CurrentUser returns the authenticated identity.
func (c *Client) CurrentUser() (User, bool) {
	sess, ok := c.CurrentSession()
	if !ok {
		return User{}, false
	}
	return sess.User, true
}

// Authorized reports whether an active session exists and carries the
// named permission.
func (c *Client) Authorized(perm string) bool {
	sess, ok := c.CurrentSession()
	return ok && sess.HasPermission(perm)
}

// install replaces the in-memory session and re-arms the single expiry
// timer. At most one timer is live at any time.
func (c *Client) install(sess *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.session = sess
	c.timer = c.clock.AfterFunc(sess.ExpiresIn(c.clock.Now()), c.expire)
}

// expire runs on the timer goroutine when the window lapses.
func (c *Client) expire() {
	c.mu.Lock()
	if c.session == nil || c.session.ExpiresAt.After(c.clock.Now()) {
		// Stale fire from a timer replaced by a newer login.
		c.mu.Unlock()
		return
	}
	c.session = nil
	c.timer = nil
	c.mu.Unlock()

	c.metrics.Inc(MetricSessionExpired)
	if err := c.store.Delete(context.Background()); err != nil {
		c.storageFailure("delete", err)
	}
}

// persist writes the durable record. Storage failures are logged and
// counted but never block the login; the session still works for this
// process lifetime.
func (c *Client) persist(ctx context.Context, sess *Session) {
	rec := storedSession{
		Token: sess.Token,
		User:  &sess.User,
		Session: &api.SessionWindow{
			IssuedAt:  sess.IssuedAt,
			ExpiresAt: sess.ExpiresAt,
		},
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		c.storageFailure("encode", err)
		return
	}
	if err := c.store.Save(ctx, raw, sess.ExpiresIn(c.clock.Now())); err != nil {
		c.storageFailure("save", err)
	}
}

// discard removes a record that can no longer produce a session.
func (c *Client) discard(ctx context.Context) {
	if err := c.store.Delete(ctx); err != nil {
		c.storageFailure("delete", err)
	}
}

func (c *Client) storageFailure(op string, err error) {
	c.metrics.Inc(MetricStorageError)
	log.Printf("firetrack: session storage %s failed: %v", op, err)
}
