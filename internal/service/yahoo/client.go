package yahoo

import (
	"context"
	"net/url"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/service/httpsource"
	"MarketTemp/pkg/config"

	"github.com/tidwall/gjson"
)

const Name = config.SourceYahoo

// Client reads the public Yahoo Finance chart endpoint.
// It serves the 52-week high of the tracked fund and the volatility index level.
type Client struct {
	base             *httpsource.Base
	symbol           string
	volatilitySymbol string
}

func New(cfg config.YahooConfig, opts ...httpsource.Option) *Client {
	opts = append([]httpsource.Option{httpsource.WithHeaders(httpsource.BrowserHeaders("https://finance.yahoo.com"))}, opts...)
	return &Client{
		base:             httpsource.NewBase(Name, cfg.BaseURL, cfg.Timeout, opts...),
		symbol:           cfg.Symbol,
		volatilitySymbol: cfg.VolatilitySymbol,
	}
}

func (c *Client) Name() string { return Name }

func (c *Client) Supports() []models.Metric {
	return []models.Metric{models.MetricHigh52Week, models.MetricVolatility}
}

func (c *Client) Fetch(ctx context.Context, metric models.Metric) (models.Reading, error) {
	switch metric {
	case models.MetricHigh52Week:
		return c.yearHigh(ctx)
	case models.MetricVolatility:
		return c.volatility(ctx)
	default:
		return models.Reading{}, c.base.Unsupported(metric)
	}
}

func (c *Client) yearHigh(ctx context.Context) (models.Reading, error) {
	result, err := c.chart(ctx, c.symbol, "1y")
	if err != nil {
		return models.Reading{}, err
	}
	if high, err := httpsource.PositiveFloat(result, "meta.fiftyTwoWeekHigh"); err == nil {
		return models.Reading{Value: high}, nil
	}
	// Older payloads lack the meta field; derive it from the daily highs.
	high, err := httpsource.MaxOf(result, "indicators.quote.0.high")
	if err != nil {
		return models.Reading{}, err
	}
	return models.Reading{Value: high}, nil
}

func (c *Client) volatility(ctx context.Context) (models.Reading, error) {
	result, err := c.chart(ctx, c.volatilitySymbol, "1d")
	if err != nil {
		return models.Reading{}, err
	}
	v, err := httpsource.PositiveFloat(result, "meta.regularMarketPrice")
	if err != nil {
		return models.Reading{}, err
	}
	return models.Reading{Value: v}, nil
}

// chart fetches one symbol and returns its first result object.
func (c *Client) chart(ctx context.Context, symbol, rng string) (gjson.Result, error) {
	doc, err := c.base.GetJSON(ctx, "/"+url.PathEscape(symbol), map[string][]string{
		"interval": {"1d"},
		"range":    {rng},
	})
	if err != nil {
		return gjson.Result{}, err
	}
	if e := doc.Get("chart.error.description"); e.Exists() {
		return gjson.Result{}, c.base.ShapeError("chart error: %s", e.String())
	}
	result := doc.Get("chart.result.0")
	if !result.Exists() {
		return gjson.Result{}, c.base.ShapeError("chart.result is empty")
	}
	return result, nil
}
