package twelvedata

import (
	"context"
	"fmt"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/domain/service"
	"MarketTemp/internal/service/httpsource"
	"MarketTemp/pkg/config"
)

const Name = config.SourceTwelveData

// Client reads the Twelve Data quote endpoint. It is only useful with an API key.
type Client struct {
	base   *httpsource.Base
	apiKey string
	symbol string
}

func New(cfg config.TwelveDataConfig, opts ...httpsource.Option) *Client {
	return &Client{
		base:   httpsource.NewBase(Name, cfg.BaseURL, cfg.Timeout, opts...),
		apiKey: cfg.APIKey,
		symbol: cfg.Symbol,
	}
}

func (c *Client) Name() string { return Name }

func (c *Client) Supports() []models.Metric {
	return []models.Metric{models.MetricVolatility}
}

func (c *Client) Fetch(ctx context.Context, metric models.Metric) (models.Reading, error) {
	if metric != models.MetricVolatility {
		return models.Reading{}, c.base.Unsupported(metric)
	}
	if c.apiKey == "" {
		return models.Reading{}, c.base.MissingCredential()
	}

	doc, err := c.base.GetJSON(ctx, "/quote", map[string][]string{
		"symbol": {c.symbol},
		"apikey": {c.apiKey},
	})
	if err != nil {
		return models.Reading{}, err
	}
	if doc.Get("status").String() == "error" {
		return models.Reading{}, fmt.Errorf("%w: twelvedata: %s", service.ErrProviderUnreachable, doc.Get("message").String())
	}

	v, err := httpsource.PositiveFloat(doc, "close")
	if err != nil {
		return models.Reading{}, err
	}
	return models.Reading{Value: v}, nil
}
