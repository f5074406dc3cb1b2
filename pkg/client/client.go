// Package client is the official Go SDK for the CraftBiz marketplace API.
// It layers offline-resilient local state on top of the HTTP API: cart and
// wishlist mutations made while offline are queued durably and replayed,
// and browse state (recently viewed, comparison, last search) persists
// across restarts.
//
// Stores are plain handles built once per application and passed by
// reference; the package keeps no global state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/amirtishiva/craftbiz-backend/pkg/client/localstore"
)

// ErrNotSignedIn is returned by operations that require a session token
// when none is set. No local or remote state is touched in that case.
var ErrNotSignedIn = errors.New("craftbiz: not signed in")

// ErrBadResponse is returned when the server answered but the body could
// not be decoded as the expected shape.
var ErrBadResponse = errors.New("craftbiz: undecodable server response")

// ErrNoCachedResults is returned by an offline search when no earlier
// result page is cached to fall back on.
var ErrNoCachedResults = errors.New("craftbiz: no cached search results")

// APIError is a server-side rejection with the server's own error code and
// message preserved.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("craftbiz: server rejected request (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

// IsTransport reports whether err is a connectivity-level failure rather
// than a server rejection. Transport failures are retryable; rejections
// are not.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	return !errors.Is(err, ErrBadResponse) && !errors.Is(err, ErrNotSignedIn) &&
		!errors.Is(err, ErrNoCachedResults)
}

// Config configures a Client.
type Config struct {
	// BaseURL of the API, e.g. "https://api.craftbiz.example/api/v1".
	BaseURL string
	// StateDir is where offline state lives. Empty keeps state in memory
	// for the life of the process.
	StateDir string
	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client
}

// Client is the API transport shared by the stores. The connectivity flag
// is owned by the application: the SDK does not probe the network, it
// believes what the host platform reports.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *localstore.Store

	token  atomic.Value // string
	online atomic.Bool
}

// New builds a Client. The client starts in the online state.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("craftbiz: BaseURL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	var store *localstore.Store
	if cfg.StateDir != "" {
		var err error
		store, err = localstore.New(cfg.StateDir)
		if err != nil {
			return nil, fmt.Errorf("craftbiz: opening state dir: %w", err)
		}
	} else {
		store = localstore.NewMemory()
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		store:      store,
	}
	c.token.Store("")
	c.online.Store(true)
	return c, nil
}

// SetToken installs the session token used for authenticated calls. An
// empty token signs the client out.
func (c *Client) SetToken(token string) {
	c.token.Store(token)
}

// Token returns the current session token, empty when signed out.
func (c *Client) Token() string {
	t, _ := c.token.Load().(string)
	return t
}

// SignedIn reports whether a session token is set.
func (c *Client) SignedIn() bool {
	return c.Token() != ""
}

// SetOnline flips the connectivity flag. While offline, mutating store
// operations queue instead of calling the server.
func (c *Client) SetOnline(online bool) {
	c.online.Store(online)
}

// Online reports the current connectivity flag.
func (c *Client) Online() bool {
	return c.online.Load()
}

// Store exposes the underlying local store.
func (c *Client) Store() *localstore.Store {
	return c.store
}

// do performs an HTTP request and decodes a 2xx response body into dest
// (when dest is non-nil). Non-2xx responses become *APIError; undecodable
// bodies become ErrBadResponse.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, dest interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" && apiErr.Code == "" {
			apiErr.Code = "UNKNOWN"
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

// Product is the snapshot of a product the SDK keeps in local state. It is
// the shape stores persist; live product data comes from Search or the
// products endpoint.
type Product struct {
	ID         uint    `json:"id"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	Category   string  `json:"category"`
	ImageURL   string  `json:"image_url,omitempty"`
	SellerName string  `json:"seller_name,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
}
