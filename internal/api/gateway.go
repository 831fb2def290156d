// Package api is the client for the FilterNet REST backend: a bearer-token
// gateway plus one facade per resource.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Session is the token storage the gateway reads and clears
type Session interface {
	GetToken(ctx context.Context) string
	Clear(ctx context.Context) error
}

// Gateway sends authenticated JSON requests to the backend. Each call is
// attempted once; there are no retries.
type Gateway struct {
	baseURL        string
	client         *http.Client
	session        Session
	onUnauthorized func(ctx context.Context)
	debug          bool

	mu sync.Mutex
}

// Option configures a Gateway
type Option func(*Gateway)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

// WithUnauthorizedHook registers fn to run once per session when the backend
// answers 401, after the session has been cleared.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(g *Gateway) { g.onUnauthorized = fn }
}

// WithDebug enables request logging
func WithDebug(debug bool) Option {
	return func(g *Gateway) { g.debug = debug }
}

// NewGateway creates a gateway for baseURL
func NewGateway(baseURL string, session Session, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		session: session,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Session returns the session the gateway authenticates with
func (g *Gateway) Session() Session {
	return g.session
}

// Do sends a request to endpoint (a path relative to the base URL, with any
// query string) and decodes a JSON reply into out when out is non-nil.
func (g *Gateway) Do(ctx context.Context, method, endpoint string, body, out any) error {
	token := g.session.GetToken(ctx)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, reader)
	if err != nil {
		return &TransportError{Method: method, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("API request failed: %s %s: %v", method, endpoint, err)
		return &TransportError{Method: method, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if g.debug {
		log.Printf("[DEBUG] API %s %s %d %s", method, endpoint, resp.StatusCode, time.Since(start))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		g.deauthenticate(ctx, token)
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{
			Status:     resp.StatusCode,
			StatusText: statusText(resp),
			Body:       string(snippet),
		}
		log.Printf("API request failed: %s %s: %v", method, endpoint, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Endpoint: endpoint, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Method: method, Endpoint: endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// Get is Do with GET
func (g *Gateway) Get(ctx context.Context, endpoint string, out any) error {
	return g.Do(ctx, http.MethodGet, endpoint, nil, out)
}

// Post is Do with POST
func (g *Gateway) Post(ctx context.Context, endpoint string, body, out any) error {
	return g.Do(ctx, http.MethodPost, endpoint, body, out)
}

// Put is Do with PUT
func (g *Gateway) Put(ctx context.Context, endpoint string, body, out any) error {
	return g.Do(ctx, http.MethodPut, endpoint, body, out)
}

// Delete is Do with DELETE
func (g *Gateway) Delete(ctx context.Context, endpoint string) error {
	return g.Do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// deauthenticate clears the session the rejected token belonged to. The
// check and the clear happen under one lock, so several calls failing with
// the same token clear it once, and a token that has already been replaced
// by a newer sign-in is left alone.
func (g *Gateway) deauthenticate(ctx context.Context, token string) {
	if token == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)

	g.mu.Lock()
	if g.session.GetToken(ctx) != token {
		g.mu.Unlock()
		return
	}
	if err := g.session.Clear(ctx); err != nil {
		log.Printf("Failed to clear session after 401: %v", err)
	}
	g.mu.Unlock()

	log.Println("Session rejected by backend, signed out")
	if g.onUnauthorized != nil {
		g.onUnauthorized(ctx)
	}
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
