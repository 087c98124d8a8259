package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"MarketTemp/internal/domain/models"
	xutil "MarketTemp/pkg/util"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source names accepted in chains.
const (
	SourceFinnhub      = "finnhub"
	SourceYahoo        = "yahoo"
	SourceXueqiu       = "xueqiu"
	SourceDanjuan      = "danjuan"
	SourceAlphaVantage = "alphavantage"
	SourceTwelveData   = "twelvedata"
)

// KnownSources lists every provider the service can build.
var KnownSources = []string{SourceFinnhub, SourceYahoo, SourceXueqiu, SourceDanjuan, SourceAlphaVantage, SourceTwelveData}

// MaxProviderTimeout bounds every per-fetch timeout.
const MaxProviderTimeout = 15 * time.Second

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"3000"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled       bool          `yaml:"enabled" default:"true"`
		Path          string        `yaml:"path" default:"/metrics"`
		SlowThreshold time.Duration `yaml:"slow_threshold" default:"20s"`
	} `yaml:"metrics"`
	RateLimit struct {
		Backend string `yaml:"backend" default:"memory"`
		Prefix  string `yaml:"prefix" default:"markettemp"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"rate_limit"`
	Providers Providers `yaml:"providers"`
	Chains    Chains    `yaml:"chains"`
	// Per-request work budget for one snapshot, above the individual fetch timeouts.
	SnapshotTimeout time.Duration `yaml:"snapshot_timeout" default:"90s"`
	Calculation     Calculation   `yaml:"calculation"`
}

type Providers struct {
	Finnhub      FinnhubConfig      `yaml:"finnhub"`
	Yahoo        YahooConfig        `yaml:"yahoo"`
	Xueqiu       XueqiuConfig       `yaml:"xueqiu"`
	Danjuan      DanjuanConfig      `yaml:"danjuan"`
	AlphaVantage AlphaVantageConfig `yaml:"alphavantage"`
	TwelveData   TwelveDataConfig   `yaml:"twelvedata"`
}

// MinIntervals returns the rate limit spacing of every provider.
func (p Providers) MinIntervals() map[string]time.Duration {
	return map[string]time.Duration{
		SourceFinnhub:      p.Finnhub.MinInterval,
		SourceYahoo:        p.Yahoo.MinInterval,
		SourceXueqiu:       p.Xueqiu.MinInterval,
		SourceDanjuan:      p.Danjuan.MinInterval,
		SourceAlphaVantage: p.AlphaVantage.MinInterval,
		SourceTwelveData:   p.TwelveData.MinInterval,
	}
}

func (p Providers) timeouts() map[string]time.Duration {
	return map[string]time.Duration{
		SourceFinnhub:      p.Finnhub.Timeout,
		SourceYahoo:        p.Yahoo.Timeout,
		SourceXueqiu:       p.Xueqiu.Timeout,
		SourceDanjuan:      p.Danjuan.Timeout,
		SourceAlphaVantage: p.AlphaVantage.Timeout,
		SourceTwelveData:   p.TwelveData.Timeout,
	}
}

type FinnhubConfig struct {
	BaseURL     string        `yaml:"base_url" default:"https://finnhub.io/api/v1"`
	APIKey      string        `yaml:"api_key"`
	Symbol      string        `yaml:"symbol" default:"QQQ"`
	Timeout     time.Duration `yaml:"timeout" default:"10s"`
	MinInterval time.Duration `yaml:"min_interval"`
}

type YahooConfig struct {
	BaseURL          string        `yaml:"base_url" default:"https://query1.finance.yahoo.com/v8/finance/chart"`
	Symbol           string        `yaml:"symbol" default:"QQQ"`
	VolatilitySymbol string        `yaml:"volatility_symbol" default:"^VIX"`
	Timeout          time.Duration `yaml:"timeout" default:"15s"`
	MinInterval      time.Duration `yaml:"min_interval" default:"2s"`
}

type XueqiuConfig struct {
	BaseURL          string        `yaml:"base_url" default:"https://stock.xueqiu.com/v5/stock/quote.json"`
	VolatilitySymbol string        `yaml:"volatility_symbol" default:".VIX"`
	ValuationSymbol  string        `yaml:"valuation_symbol" default:".NDX"`
	Timeout          time.Duration `yaml:"timeout" default:"15s"`
	MinInterval      time.Duration `yaml:"min_interval" default:"2s"`
}

type DanjuanConfig struct {
	BaseURL     string        `yaml:"base_url" default:"https://danjuanfunds.com/djapi/index_eva/dj"`
	// QueryCode is sent as the index_code query parameter; IndexCode selects the row in the returned table.
	QueryCode   string        `yaml:"query_code" default:"CSI931142"`
	IndexCode   string        `yaml:"index_code" default:"NDX"`
	Timeout     time.Duration `yaml:"timeout" default:"10s"`
	MinInterval time.Duration `yaml:"min_interval"`
}

type AlphaVantageConfig struct {
	BaseURL     string        `yaml:"base_url" default:"https://www.alphavantage.co/query"`
	APIKey      string        `yaml:"api_key"`
	Symbol      string        `yaml:"symbol" default:"VIX"`
	Timeout     time.Duration `yaml:"timeout" default:"10s"`
	MinInterval time.Duration `yaml:"min_interval"`
}

type TwelveDataConfig struct {
	BaseURL     string        `yaml:"base_url" default:"https://api.twelvedata.com"`
	APIKey      string        `yaml:"api_key"`
	Symbol      string        `yaml:"symbol" default:"VIX"`
	Timeout     time.Duration `yaml:"timeout" default:"10s"`
	MinInterval time.Duration `yaml:"min_interval"`
}

// Chains lists, per metric, the source names to try in order.
type Chains struct {
	Price      []string `yaml:"price" default:"[\"finnhub\"]"`
	High52Week []string `yaml:"high_52_week" default:"[\"yahoo\",\"finnhub\"]"`
	Volatility []string `yaml:"volatility" default:"[\"yahoo\",\"xueqiu\",\"alphavantage\",\"twelvedata\"]"`
	Valuation  []string `yaml:"valuation" default:"[\"xueqiu\",\"danjuan\"]"`
}

// For returns the chain configured for metric.
func (c Chains) For(metric models.Metric) []string {
	switch metric {
	case models.MetricPrice:
		return c.Price
	case models.MetricHigh52Week:
		return c.High52Week
	case models.MetricVolatility:
		return c.Volatility
	case models.MetricValuation:
		return c.Valuation
	}
	return nil
}

type Calculation struct {
	models.ThresholdConfig `yaml:",inline"`
	Matrix                 *models.DecisionMatrix `yaml:"matrix"`
}

// DecisionMatrix returns the configured matrix or the stock one.
func (c Calculation) DecisionMatrix() models.DecisionMatrix {
	if c.Matrix != nil {
		return *c.Matrix
	}
	return models.DefaultMatrix()
}

// Default returns a configuration built only from defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

func load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// Load reads and parses a YAML configuration file on top of defaults.
func Load(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads .env (if present), the YAML file, then applies environment overrides.
// An empty path uses defaults only.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = xutil.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Providers.Finnhub.APIKey = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		c.Providers.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("TWELVE_DATA_API_KEY"); v != "" {
		c.Providers.TwelveData.APIKey = v
	}
	if v := os.Getenv("RATE_LIMIT_BACKEND"); v != "" {
		c.RateLimit.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RateLimit.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.RateLimit.Redis.Password = v
	}
	if v := os.Getenv("VOLATILITY_CHAIN"); v != "" {
		c.Chains.Volatility = xutil.SplitList(v)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.RateLimit.Backend != "memory" && c.RateLimit.Backend != "redis" {
		return fmt.Errorf("rate_limit.backend must be 'memory' or 'redis', got '%s'", c.RateLimit.Backend)
	}
	if c.SnapshotTimeout <= 0 {
		return fmt.Errorf("snapshot_timeout must be positive")
	}

	timeouts := c.Providers.timeouts()
	for name, d := range timeouts {
		if d <= 0 || d > MaxProviderTimeout {
			return fmt.Errorf("providers.%s.timeout must be in (0, %s], got %s", name, MaxProviderTimeout, d)
		}
	}

	for _, metric := range models.AllMetrics {
		for _, name := range c.Chains.For(metric) {
			if !isKnownSource(name) {
				return fmt.Errorf("chains: unknown source %q for %s (known: %s)", name, metric, strings.Join(KnownSources, ", "))
			}
		}
	}
	if len(c.Chains.Price) == 0 {
		return fmt.Errorf("chains.price cannot be empty")
	}

	if err := c.Calculation.ThresholdConfig.Validate(); err != nil {
		return fmt.Errorf("calculation: %w", err)
	}
	m := c.Calculation.DecisionMatrix()
	if err := m.Validate(); err != nil {
		return fmt.Errorf("calculation: %w", err)
	}
	return nil
}

func isKnownSource(name string) bool {
	for _, s := range KnownSources {
		if s == name {
			return true
		}
	}
	return false
}
