package finnhub

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/domain/service"
	"MarketTemp/internal/service/httpsource"
	"MarketTemp/pkg/config"
)

// Name is the provider name used for provenance and rate limiting.
const Name = config.SourceFinnhub

// Client implements MetricSource on the Finnhub REST API.
// It serves the spot price (quote) and the 52-week high (daily candles).
type Client struct {
	base   *httpsource.Base
	apiKey string
	symbol string
	clock  func() time.Time
}

// Factory builds clients bound to a caller-supplied API key.
// All clients share the factory's options, including the process-wide limiter.
type Factory struct {
	cfg  config.FinnhubConfig
	opts []httpsource.Option
}

func NewFactory(cfg config.FinnhubConfig, opts ...httpsource.Option) *Factory {
	return &Factory{cfg: cfg, opts: opts}
}

// ForKey returns a client using apiKey; an empty key falls back to the configured one.
func (f *Factory) ForKey(apiKey string) *Client {
	if apiKey == "" {
		apiKey = f.cfg.APIKey
	}
	return New(f.cfg, apiKey, f.opts...)
}

func New(cfg config.FinnhubConfig, apiKey string, opts ...httpsource.Option) *Client {
	return &Client{
		base:   httpsource.NewBase(Name, cfg.BaseURL, cfg.Timeout, opts...),
		apiKey: apiKey,
		symbol: cfg.Symbol,
		clock:  time.Now,
	}
}

func (c *Client) Name() string { return Name }

// Supports lists the metrics this client can fetch.
func (c *Client) Supports() []models.Metric {
	return []models.Metric{models.MetricPrice, models.MetricHigh52Week}
}

func (c *Client) Fetch(ctx context.Context, metric models.Metric) (models.Reading, error) {
	if c.apiKey == "" {
		return models.Reading{}, c.base.MissingCredential()
	}
	switch metric {
	case models.MetricPrice:
		return c.quote(ctx)
	case models.MetricHigh52Week:
		return c.yearHigh(ctx)
	default:
		return models.Reading{}, c.base.Unsupported(metric)
	}
}

// quote returns the current price with the same-day high attached.
func (c *Client) quote(ctx context.Context) (models.Reading, error) {
	doc, err := c.base.GetJSON(ctx, "/quote", map[string][]string{
		"symbol": {c.symbol},
		"token":  {c.apiKey},
	})
	if err != nil {
		return models.Reading{}, err
	}
	if msg := doc.Get("error"); msg.Exists() {
		return models.Reading{}, fmt.Errorf("%w: finnhub rejected quote: %s", service.ErrProviderUnreachable, msg.String())
	}

	price, err := httpsource.PositiveFloat(doc, "c")
	if err != nil {
		return models.Reading{}, err
	}
	reading := models.Reading{Value: price}
	if high, err := httpsource.PositiveFloat(doc, "h"); err == nil {
		reading.DayHigh = &high
	}
	return reading, nil
}

// yearHigh returns the maximum daily high over the trailing year.
func (c *Client) yearHigh(ctx context.Context) (models.Reading, error) {
	now := c.clock()
	doc, err := c.base.GetJSON(ctx, "/stock/candle", map[string][]string{
		"symbol":     {c.symbol},
		"resolution": {"D"},
		"from":       {strconv.FormatInt(now.AddDate(-1, 0, 0).Unix(), 10)},
		"to":         {strconv.FormatInt(now.Unix(), 10)},
		"token":      {c.apiKey},
	})
	if err != nil {
		return models.Reading{}, err
	}
	if msg := doc.Get("error"); msg.Exists() {
		return models.Reading{}, fmt.Errorf("%w: finnhub rejected candles: %s", service.ErrProviderUnreachable, msg.String())
	}
	if s := doc.Get("s").String(); s != "ok" {
		return models.Reading{}, c.base.ShapeError("candle status %q", s)
	}

	high, err := httpsource.MaxOf(doc, "h")
	if err != nil {
		return models.Reading{}, err
	}
	return models.Reading{Value: high}, nil
}
