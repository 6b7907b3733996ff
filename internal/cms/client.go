// Package cms is the typed gateway to the event-management CMS REST API. It
// attaches the current session token as a bearer credential, speaks the
// backend's envelope formats, and returns raw payloads for the domain
// packages to adapt. Failures propagate unchanged as *APIError; the gateway
// does not retry and does not hide partial failures.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/inclusivevents/client/internal/metrics"
)

const (
	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 10 * time.Second
	// DefaultRateLimit bounds outgoing requests per second.
	DefaultRateLimit = rate.Limit(20)
	// DefaultLocale is the fallback language for localized content.
	DefaultLocale = "en"
)

// TokenSource yields the current auth token, if any. A session store
// satisfies this; requests without a token go out unauthenticated and the
// backend decides whether to reject them.
type TokenSource interface {
	Token() (string, bool)
}

// Client handles communication with the CMS API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	locale     string
	tokens     TokenSource
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRateLimit sets a custom rate limit (requests per second).
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLocale sets the fallback locale for localized operations.
func WithLocale(locale string) Option {
	return func(c *Client) {
		c.locale = locale
	}
}

// WithTokenSource sets the session token source.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithLogger sets the client logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a CMS API client. baseURL is the API root, e.g.
// "http://localhost:1337/api".
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    baseURL,
		locale:     DefaultLocale,
		limiter:    rate.NewLimiter(DefaultRateLimit, 5),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// localeOr returns the explicit locale when set, otherwise the configured
// fallback.
func (c *Client) localeOr(locale string) string {
	if locale != "" {
		return locale
	}
	return c.locale
}

// doJSON executes one API call with a JSON body and decodes the response into
// out (skipped when out is nil). op names the operation for metrics and logs.
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, query, body, contentType, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limiter: %w", op, err)
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveRequest(op, "transport_error", start)
		return fmt.Errorf("%s: http request: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveRequest(op, "read_error", start)
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	metrics.ObserveRequest(op, strconv.Itoa(resp.StatusCode), start)
	c.logger.Debug().
		Str("operation", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("cms request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %w", op, newAPIError(resp.StatusCode, respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%s: parse response: %w", op, err)
		}
	}
	return nil
}

// upload executes a multipart file upload under the field name the backend
// expects ("files").
func (c *Client) upload(ctx context.Context, op, path, filename string, content io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", filename)
	if err != nil {
		return fmt.Errorf("%s: create form file: %w", op, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("%s: copy file content: %w", op, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%s: finalize form: %w", op, err)
	}
	return c.do(ctx, op, http.MethodPost, path, nil, &buf, writer.FormDataContentType(), out)
}
