// Package gateway is the single HTTP entry point to the coordination
// API. Every other component sends through it; it alone decides which
// stored credential a request carries, based on the request path.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aarogyalekha/hospital-portal/internal/session"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Client talks to the coordination API. Callers never pass a
// credential; the client resolves one per request from the session
// store by path prefix.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sessions   session.Store
}

// NewClient creates a gateway client against baseURL. No client-side
// timeout is set; requests resolve or fail at the transport's pace.
func NewClient(baseURL string, sessions session.Store) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		sessions:   sessions,
	}
}

// Sessions exposes the store the client resolves credentials from.
func (c *Client) Sessions() session.Store {
	return c.sessions
}

// Send issues one request. body (if non-nil) is JSON-encoded; a 2xx
// response is decoded into out (if non-nil). A non-2xx response returns
// *APIError; the gateway never retries and never clears a session — an
// authorization failure is surfaced for the caller to handle.
func (c *Client) Send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if err := c.addAuth(ctx, req, path); err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeRequest(method, path, 0, time.Since(start).Seconds())
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	observeRequest(method, path, resp.StatusCode, time.Since(start).Seconds())
	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("Gateway request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return newAPIError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// addAuth attaches the bearer credential resolved for path, if any.
// An unresolved credential sends the request unauthenticated and lets
// the server reject it.
func (c *Client) addAuth(ctx context.Context, req *http.Request, path string) error {
	snap, err := c.sessions.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session store: %w", err)
	}
	if cred, ok := SelectCredential(path, snap); ok {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}
	return nil
}
