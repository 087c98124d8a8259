package httpsource

import (
	"context"
	"fmt"
	"time"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/domain/service"
	xhttp "MarketTemp/pkg/http"

	"github.com/tidwall/gjson"
)

// Limiter spaces calls to one provider.
type Limiter interface {
	Acquire(ctx context.Context, key string) error
}

type noLimit struct{}

func (noLimit) Acquire(context.Context, string) error { return nil }

// Option configures Base.
type Option func(*Base)

// Base is the shared foundation of every provider client.
// It waits for the provider's rate limit slot, bounds the request with the
// provider timeout and classifies failures into the provider error classes.
type Base struct {
	name    string
	baseURL string
	timeout time.Duration
	headers map[string]string
	limiter Limiter
	client  *xhttp.Client
}

// NewBase builds a client base for provider name.
func NewBase(name, baseURL string, timeout time.Duration, opts ...Option) *Base {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b := &Base{
		name:    name,
		baseURL: baseURL,
		timeout: timeout,
		headers: map[string]string{"Accept": "application/json"},
		limiter: noLimit{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.client == nil {
		// The per-call context carries the deadline; the client timeout is a backstop.
		b.client = xhttp.NewClient(xhttp.WithTimeout(b.timeout + time.Second))
	}
	return b
}

// Name returns the provider name.
func (b *Base) Name() string { return b.name }

// GetJSON issues a GET to path under the base URL and parses the JSON body.
func (b *Base) GetJSON(ctx context.Context, path string, query map[string][]string) (gjson.Result, error) {
	if err := b.limiter.Acquire(ctx, b.name); err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %s rate limit wait: %v", service.ErrProviderUnreachable, b.name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	body, err := b.client.Get(ctx, &xhttp.RequestOptions{
		URL:         b.baseURL + path,
		Headers:     b.headers,
		QueryParams: query,
	})
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %s get %s: %v", service.ErrProviderUnreachable, b.name, path, err)
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: %s returned invalid JSON", service.ErrShapeMismatch, b.name)
	}
	return gjson.ParseBytes(body), nil
}

// Unsupported reports that this provider does not serve metric.
func (b *Base) Unsupported(metric models.Metric) error {
	return fmt.Errorf("%w: %s does not provide %s", service.ErrUnsupportedMetric, b.name, metric)
}

// MissingCredential reports that the provider needs an API key.
func (b *Base) MissingCredential() error {
	return fmt.Errorf("%w: %s api key not configured", service.ErrMissingCredential, b.name)
}

// ShapeError reports an unexpected payload.
func (b *Base) ShapeError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s %s", service.ErrShapeMismatch, b.name, fmt.Sprintf(format, args...))
}

// WithLimiter sets the shared rate limiter.
func WithLimiter(l Limiter) Option {
	return func(b *Base) {
		if l != nil {
			b.limiter = l
		}
	}
}

// WithHeaders adds request headers.
func WithHeaders(headers map[string]string) Option {
	return func(b *Base) {
		for k, v := range headers {
			b.headers[k] = v
		}
	}
}

// WithClient replaces the outbound HTTP client.
func WithClient(c *xhttp.Client) Option {
	return func(b *Base) {
		if c != nil {
			b.client = c
		}
	}
}

// BrowserHeaders returns headers that make public quote endpoints treat us like a browser.
func BrowserHeaders(referer string) map[string]string {
	h := map[string]string{
		"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9,zh-CN;q=0.8",
		"Cache-Control":   "no-cache",
	}
	if referer != "" {
		h["Referer"] = referer
		h["Origin"] = referer
	}
	return h
}
