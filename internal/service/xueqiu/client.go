package xueqiu

import (
	"context"
	"strings"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/service/httpsource"
	"MarketTemp/pkg/config"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const Name = config.SourceXueqiu

// Client reads the Xueqiu quote endpoint.
// It serves the volatility index and the trailing P/E of the tracked index (no percentile).
type Client struct {
	base             *httpsource.Base
	volatilitySymbol string
	valuationSymbol  string
}

func New(cfg config.XueqiuConfig, opts ...httpsource.Option) *Client {
	headers := httpsource.BrowserHeaders("https://xueqiu.com")
	// The endpoint rejects requests without a device cookie; any stable random id works.
	headers["Cookie"] = "device_id=" + strings.ReplaceAll(uuid.NewString(), "-", "")

	opts = append([]httpsource.Option{httpsource.WithHeaders(headers)}, opts...)
	return &Client{
		base:             httpsource.NewBase(Name, cfg.BaseURL, cfg.Timeout, opts...),
		volatilitySymbol: cfg.VolatilitySymbol,
		valuationSymbol:  cfg.ValuationSymbol,
	}
}

func (c *Client) Name() string { return Name }

func (c *Client) Supports() []models.Metric {
	return []models.Metric{models.MetricVolatility, models.MetricValuation}
}

func (c *Client) Fetch(ctx context.Context, metric models.Metric) (models.Reading, error) {
	switch metric {
	case models.MetricVolatility:
		q, err := c.quote(ctx, c.volatilitySymbol)
		if err != nil {
			return models.Reading{}, err
		}
		v, err := httpsource.FirstPositive(q, "current", "last_close")
		if err != nil {
			return models.Reading{}, err
		}
		return models.Reading{Value: v}, nil
	case models.MetricValuation:
		q, err := c.quote(ctx, c.valuationSymbol)
		if err != nil {
			return models.Reading{}, err
		}
		pe, err := httpsource.PositiveFloat(q, "pe_ttm")
		if err != nil {
			return models.Reading{}, err
		}
		return models.Reading{Value: pe}, nil
	default:
		return models.Reading{}, c.base.Unsupported(metric)
	}
}

func (c *Client) quote(ctx context.Context, symbol string) (gjson.Result, error) {
	doc, err := c.base.GetJSON(ctx, "", map[string][]string{
		"symbol": {symbol},
		"extend": {"detail"},
	})
	if err != nil {
		return gjson.Result{}, err
	}
	if code := doc.Get("error_code").Int(); code != 0 {
		return gjson.Result{}, c.base.ShapeError("error %d: %s", code, doc.Get("error_description").String())
	}
	q := doc.Get("data.quote")
	if !q.IsObject() {
		return gjson.Result{}, c.base.ShapeError("data.quote missing for %s", symbol)
	}
	return q, nil
}
