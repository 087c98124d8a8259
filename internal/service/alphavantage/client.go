package alphavantage

import (
	"context"
	"fmt"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/domain/service"
	"MarketTemp/internal/service/httpsource"
	"MarketTemp/pkg/config"
)

const Name = config.SourceAlphaVantage

// Client reads GLOBAL_QUOTE from Alpha Vantage. It is only useful with an API key.
type Client struct {
	base   *httpsource.Base
	apiKey string
	symbol string
}

func New(cfg config.AlphaVantageConfig, opts ...httpsource.Option) *Client {
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

	doc, err := c.base.GetJSON(ctx, "", map[string][]string{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {c.symbol},
		"apikey":   {c.apiKey},
	})
	if err != nil {
		return models.Reading{}, err
	}
	// Throttled or rejected keys answer 200 with a note instead of a quote.
	for _, key := range []string{"Note", "Information", "Error Message"} {
		if msg := doc.Get(key); msg.Exists() {
			return models.Reading{}, fmt.Errorf("%w: alphavantage: %s", service.ErrProviderUnreachable, msg.String())
		}
	}

	v, err := httpsource.PositiveFloat(doc, `Global Quote.05\. price`)
	if err != nil {
		return models.Reading{}, err
	}
	return models.Reading{Value: v}, nil
}
