package danjuan

import (
	"context"
	"fmt"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/service/httpsource"
	"MarketTemp/pkg/config"
)

const Name = config.SourceDanjuan

// Client reads the Danjuan index valuation table.
// It serves the P/E of one index together with its historical percentile.
type Client struct {
	base      *httpsource.Base
	queryCode string
	indexCode string
}

func New(cfg config.DanjuanConfig, opts ...httpsource.Option) *Client {
	opts = append([]httpsource.Option{httpsource.WithHeaders(httpsource.BrowserHeaders("https://danjuanfunds.com"))}, opts...)
	return &Client{
		base:      httpsource.NewBase(Name, cfg.BaseURL, cfg.Timeout, opts...),
		queryCode: cfg.QueryCode,
		indexCode: cfg.IndexCode,
	}
}

func (c *Client) Name() string { return Name }

func (c *Client) Supports() []models.Metric {
	return []models.Metric{models.MetricValuation}
}

func (c *Client) Fetch(ctx context.Context, metric models.Metric) (models.Reading, error) {
	if metric != models.MetricValuation {
		return models.Reading{}, c.base.Unsupported(metric)
	}

	var query map[string][]string
	if c.queryCode != "" {
		query = map[string][]string{"index_code": {c.queryCode}}
	}
	doc, err := c.base.GetJSON(ctx, "", query)
	if err != nil {
		return models.Reading{}, err
	}
	if !doc.Get("data.items").IsArray() {
		return models.Reading{}, c.base.ShapeError("data.items missing")
	}
	item := doc.Get(fmt.Sprintf(`data.items.#(index_code==%q)`, c.indexCode))
	if !item.Exists() {
		return models.Reading{}, c.base.ShapeError("index %s not listed", c.indexCode)
	}

	pe, err := httpsource.PositiveFloat(item, "pe")
	if err != nil {
		return models.Reading{}, err
	}
	reading := models.Reading{Value: pe}
	// pe_percentile is a 0..1 fraction.
	if frac := httpsource.OptionalNonNegative(item, "pe_percentile"); frac != nil && *frac <= 1 {
		pct := *frac * 100
		reading.Percentile = &pct
	}
	return reading, nil
}
