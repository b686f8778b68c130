package genapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	textureSvc   = "/generate-texture"
	multiViewSvc = "/generate-multi-view"
	designsSvc   = "/designs"
)

// Config holds the client tunables.
type Config struct {
	BaseURL string        `env:"GENERATION_BASE_URL"`
	Timeout time.Duration `env:"GENERATION_TIMEOUT" envDefault:"60s"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, for custom transports
// or testing.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the per-request timeout layered on the caller context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Client calls the generation endpoint. One client is reused across
// requests for connection pooling; all methods are safe for concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidBaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidBaseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 60 * time.Second,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromConfig builds a client from a loaded Config.
func NewClientFromConfig(cfg Config, opts ...Option) (*Client, error) {
	return NewClient(cfg.BaseURL, append([]Option{WithTimeout(cfg.Timeout)}, opts...)...)
}

// GenerateTexture requests a texture for the given prompt and mode.
func (c *Client) GenerateTexture(ctx context.Context, req TextureRequest) (*TextureResponse, error) {
	var resp TextureResponse
	if err := c.post(ctx, textureSvc, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateMultiView requests alternate camera-angle renders for a design.
func (c *Client) GenerateMultiView(ctx context.Context, req MultiViewRequest) (*MultiViewResponse, error) {
	var resp MultiViewResponse
	if err := c.post(ctx, multiViewSvc, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitDesign posts the committed design to the backend.
func (c *Client) SubmitDesign(ctx context.Context, req DesignSubmission) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.post(ctx, designsSvc, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// post runs one JSON POST with the client timeout layered on ctx and
// decodes either the success shape or the shared failure shape.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("genapi: failed to marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("genapi: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// 1 MB cap guards against a misbehaving endpoint.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("genapi: failed to decode response: %w", err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		// Undecodable failure bodies degrade to a status-only error.
		return &APIError{StatusCode: status, Message: http.StatusText(status)}
	}

	return &APIError{
		StatusCode: status,
		Code:       body.Code,
		Message:    body.Error,
		RetryAfter: time.Duration(body.RetryAfter * float64(time.Second)),
		Limit:      body.Limit,
	}
}
