package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fotosfolio/go-bookingform/pkg/apierrors"
	"github.com/fotosfolio/go-bookingform/pkg/model"
)

const (
	// DefaultBaseURL is the production booking API.
	DefaultBaseURL = "https://prod.fotosfolio.com"
	// DefaultTimeout bounds every request to the booking API.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxUploadBytes is the largest accepted payment screenshot.
	DefaultMaxUploadBytes = model.DefaultMaxUploadBytes
)

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRetryMax sets how many times idempotent reads are retried.
func WithRetryMax(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retryMax = n
		}
	}
}

// WithLogger routes client logs, including retry attempts, to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxUploadBytes overrides DefaultMaxUploadBytes.
func WithMaxUploadBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxUpload = n
		}
	}
}

// WithHTTPClient replaces the transport used for writes. Reads keep the
// retrying client but reuse the supplied transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.custom = hc
		}
	}
}

// Client is the booking API client. It is safe for concurrent use.
type Client struct {
	baseURL   string
	timeout   time.Duration
	retryMax  int
	maxUpload int64
	logger    *slog.Logger
	custom    *http.Client

	read     *http.Client
	write    *http.Client
	validate *validator.Validate
}

// New constructs a Client rooted at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeout:   DefaultTimeout,
		maxUpload: DefaultMaxUploadBytes,
		logger:    slog.Default(),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = c.retryMax
	rc.Logger = c.logger
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.HTTPClient.Timeout = c.timeout
	if c.custom != nil && c.custom.Transport != nil {
		rc.HTTPClient.Transport = c.custom.Transport
	}
	c.read = rc.StandardClient()

	if c.custom != nil {
		clone := *c.custom
		if clone.Timeout == 0 {
			clone.Timeout = c.timeout
		}
		c.write = &clone
	} else {
		c.write = &http.Client{Timeout: c.timeout}
	}

	c.validate = validator.New()
	return c
}

// BaseURL reports the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// MaxUploadBytes is the size limit Uploads enforces.
func (c *Client) MaxUploadBytes() int64 { return c.maxUpload }

// Forms returns the form descriptor endpoint.
func (c *Client) Forms() *Forms { return &Forms{c: c} }

// Submissions returns the booking submission endpoint.
func (c *Client) Submissions() *Submissions { return &Submissions{c: c} }

// Uploads returns the image upload endpoint.
func (c *Client) Uploads() *Uploads { return &Uploads{c: c} }

// PaymentQR returns the payment QR endpoint.
func (c *Client) PaymentQR() *PaymentQR { return &PaymentQR{c: c} }

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return fmt.Errorf("client: %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(c.read, req, op, http.StatusOK, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, body any, want int, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("client: %s: encode: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("client: %s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(c.write, req, op, want, out)
}

// do executes req and decodes the body into out. A want of zero accepts any
// 2xx status.
func (c *Client) do(hc *http.Client, req *http.Request, op string, want int, out any) error {
	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Warn("booking api unreachable", "op", op, "url", req.URL.String(), "error", err)
		return fmt.Errorf("client: %s: %w", op, apierrors.ErrNetwork)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if !statusAccepted(resp.StatusCode, want) {
		c.logger.Warn("booking api rejected request", "op", op, "status", resp.StatusCode)
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("client: %s: %w", op, apierrors.FromStatus(resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("booking api returned malformed body", "op", op, "error", err)
		return fmt.Errorf("client: %s: decode: %w", op, apierrors.ErrInvalidResponse)
	}
	return nil
}

func statusAccepted(status, want int) bool {
	if want == 0 {
		return status >= 200 && status < 300
	}
	return status == want
}
