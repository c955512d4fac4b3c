package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// TokenSource supplies the current bearer token, or reports that no
// authenticated session exists.
type TokenSource func() (string, bool)

// Config carries the static transport settings. BaseURL is the only
// required field.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	DeviceID string
	// HTTPClient overrides the underlying client, mainly for tests.
	HTTPClient *http.Client
}

// Client is the HTTP transport. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	device  string
	token   TokenSource
}

// NewClient validates cfg and builds a transport. token may be nil for
// anonymous-only use.
func NewClient(cfg Config, token TokenSource) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("api base URL required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New("api base URL must be http or https")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		base:    base,
		http:    hc,
		timeout: timeout,
		device:  cfg.DeviceID,
		token:   token,
	}, nil
}

// Login exchanges credentials for a session payload.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Decrypt submits an opaque scanned payload for server-side resolution.
func (c *Client) Decrypt(ctx context.Context, encrypted string) (*Asset, error) {
	body := map[string]string{"encryptedData": encrypted}
	var out struct {
		Data *Asset `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/mobile/extinguisher/decrypt", body, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, fmt.Errorf("%w: decrypt response missing data", ErrDecode)
	}
	return out.Data, nil
}

// Asset fetches a full extinguisher record by id.
func (c *Client) Asset(ctx context.Context, id int64) (*Asset, error) {
	var out Asset
	if err := c.do(ctx, http.MethodGet, "/extinguisher/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddAsset registers a new extinguisher. A conflicting location maps to
// ErrDuplicate.
func (c *Client) AddAsset(ctx context.Context, in CreateAssetInput) (*Asset, error) {
	var out Asset
	if err := c.do(ctx, http.MethodPost, "/extinguisher/add", in, &out); err != nil {
		return nil, mapDuplicate(err)
	}
	return &out, nil
}

// RegisterAsset is the mobile add variant; it requires a bearer token.
func (c *Client) RegisterAsset(ctx context.Context, in CreateAssetInput) (*Asset, error) {
	var out Asset
	if err := c.do(ctx, http.MethodPost, "/mobile/extinguisher/add", in, &out); err != nil {
		return nil, mapDuplicate(err)
	}
	return &out, nil
}

// UpdateAsset mutates the service fields of an asset. An approval-gated
// deployment answers with a pending status instead of the record; that
// outcome maps to ErrApprovalPending carrying the server message.
func (c *Client) UpdateAsset(ctx context.Context, id int64, in UpdateAssetInput) (*Asset, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/extinguisher/"+strconv.FormatInt(id, 10), in, &raw); err != nil {
		return nil, err
	}
	var envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Status == "Approve Pending" {
		return nil, fmt.Errorf("%w: %s", ErrApprovalPending, envelope.Message)
	}
	var out Asset
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &out, nil
}

// AddInspection appends an inspection record; requires a bearer token.
func (c *Client) AddInspection(ctx context.Context, in InspectionInput) error {
	return c.do(ctx, http.MethodPost, "/inspection/add", in, nil)
}

// Inspections lists an asset's inspection history.
func (c *Client) Inspections(ctx context.Context, assetID int64) ([]Inspection, error) {
	var out struct {
		Inspections []Inspection `json:"inspections"`
	}
	path := "/mobile/inspection/" + strconv.FormatInt(assetID, 10) + "/inspections"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Inspections, nil
}

// RecordReplacement logs a replacement event; requires a bearer token.
func (c *Client) RecordReplacement(ctx context.Context, in ReplacementInput) error {
	return c.do(ctx, http.MethodPost, "/mobile/extinguisher/replace", in, nil)
}

// AttachInspectionPhoto uploads a photo for an inspection as multipart
// form data.
func (c *Client) AttachInspectionPhoto(ctx context.Context, inspectionID int64, filename string, photo io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("photo", filename)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	path := "/inspection/" + strconv.FormatInt(inspectionID, 10) + "/photo"
	return c.doRaw(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.doRaw(ctx, method, path, reader, contentType, out)
}

func (c *Client) doRaw(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.device != "" {
		req.Header.Set("X-Device-ID", c.device)
	}
	if c.token != nil {
		if tok, ok := c.token(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Message: serverMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// serverMessage extracts a human-readable explanation from an error body.
// Backends here answer with either {"message": ...} or {"error": ...}.
func serverMessage(body io.Reader) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 1<<16)).Decode(&envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

func mapDuplicate(err error) error {
	if se, ok := AsStatus(err); ok && strings.Contains(se.Message, "Duplicate extinguisher entry") {
		return fmt.Errorf("%w: %s", ErrDuplicate, se.Message)
	}
	return err
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
