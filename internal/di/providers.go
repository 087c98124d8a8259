package di

import (
	"fmt"
	"time"

	"MarketTemp/internal/domain/service"
	"MarketTemp/internal/handler/api"
	"MarketTemp/internal/service/alphavantage"
	"MarketTemp/internal/service/danjuan"
	"MarketTemp/internal/service/finnhub"
	"MarketTemp/internal/service/httpsource"
	"MarketTemp/internal/service/ratelimit"
	"MarketTemp/internal/service/twelvedata"
	"MarketTemp/internal/service/xueqiu"
	"MarketTemp/internal/service/yahoo"
	"MarketTemp/internal/services/decision"
	"MarketTemp/internal/usecase"
	"MarketTemp/pkg/config"
	xhttp "MarketTemp/pkg/http"
	applogger "MarketTemp/pkg/logger"
	"MarketTemp/pkg/metrics"
	pkgredis "MarketTemp/pkg/redis"
	"MarketTemp/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
)

// SourceOptions are shared by every provider client.
type SourceOptions []httpsource.Option

// Services bundles what the one-shot CLI commands need.
type Services struct {
	Logger     *applogger.Logger
	Registry   *usecase.Registry
	Prices     *finnhub.Factory
	Aggregator *usecase.SnapshotAggregator
	Engine     *decision.Engine
}

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvidePrometheusRegistry creates the registry scraped at the metrics path.
func ProvidePrometheusRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) service.Metrics {
	return metrics.New(reg)
}

// ProvideRedisClient connects to Redis when the rate limiter uses it. The client is nil otherwise.
func ProvideRedisClient(cfg *config.Config) (*goredis.Client, func(), error) {
	if cfg.RateLimit.Backend != "redis" {
		return nil, func() {}, nil
	}
	client, err := pkgredis.NewClient(
		pkgredis.WithAddr(cfg.RateLimit.Redis.Addr),
		pkgredis.WithPassword(cfg.RateLimit.Redis.Password),
		pkgredis.WithDB(cfg.RateLimit.Redis.DB),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideRateLimiter creates the process-wide provider limiter.
func ProvideRateLimiter(cfg *config.Config, client *goredis.Client, logger *applogger.Logger, m service.Metrics) *ratelimit.Limiter {
	opts := []ratelimit.Option{
		ratelimit.WithIntervals(cfg.Providers.MinIntervals()),
		ratelimit.WithLogger(logger),
		ratelimit.WithMetrics(m),
	}
	if client != nil {
		opts = append(opts, ratelimit.WithStore(ratelimit.NewRedisStore(client, cfg.RateLimit.Prefix)))
	}
	return ratelimit.New(opts...)
}

// ProvideSourceOptions binds provider clients to the shared limiter and one pooled outbound client.
// Per-fetch deadlines come from each provider's timeout; the client timeout only backs them up.
func ProvideSourceOptions(limiter *ratelimit.Limiter) SourceOptions {
	client := xhttp.NewClient(xhttp.WithTimeout(config.MaxProviderTimeout + time.Second))
	return SourceOptions{
		httpsource.WithLimiter(limiter),
		httpsource.WithClient(client),
	}
}

// ProvideFinnhubFactory creates the factory for request-scoped price clients.
func ProvideFinnhubFactory(cfg *config.Config, opts SourceOptions) *finnhub.Factory {
	return finnhub.NewFactory(cfg.Providers.Finnhub, opts...)
}

// ProvideSourceRegistry registers every known provider. Finnhub is registered with the configured key.
func ProvideSourceRegistry(cfg *config.Config, prices *finnhub.Factory, opts SourceOptions) *usecase.Registry {
	p := cfg.Providers
	return usecase.NewRegistry(
		prices.ForKey(""),
		yahoo.New(p.Yahoo, opts...),
		xueqiu.New(p.Xueqiu, opts...),
		danjuan.New(p.Danjuan, opts...),
		alphavantage.New(p.AlphaVantage, opts...),
		twelvedata.New(p.TwelveData, opts...),
	)
}

// ProvideResolver creates the fallback resolver.
func ProvideResolver(logger *applogger.Logger, m service.Metrics) *usecase.FallbackResolver {
	return usecase.NewFallbackResolver(logger, m)
}

// ProvideAggregator creates the snapshot aggregator.
func ProvideAggregator(cfg *config.Config, registry *usecase.Registry, resolver *usecase.FallbackResolver, logger *applogger.Logger) *usecase.SnapshotAggregator {
	return usecase.NewSnapshotAggregator(registry, cfg.Chains, resolver,
		usecase.WithTimeout(cfg.SnapshotTimeout),
		usecase.WithLogger(logger.With(applogger.String("component", "aggregator"))),
	)
}

// ProvideEngine creates the decision engine from the calculation config.
func ProvideEngine(cfg *config.Config, m service.Metrics) (*decision.Engine, error) {
	return decision.NewEngine(cfg.Calculation.ThresholdConfig, cfg.Calculation.DecisionMatrix(), decision.WithMetrics(m))
}

// ProvideMarketHandler creates the HTTP handler.
func ProvideMarketHandler(logger *applogger.Logger, agg *usecase.SnapshotAggregator, prices *finnhub.Factory, engine *decision.Engine) *api.MarketEchoHandler {
	return api.NewMarketEchoHandler(logger, agg, func(apiKey string) service.MetricSource {
		return prices.ForKey(apiKey)
	}, engine)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, handler *api.MarketEchoHandler, reg *prometheus.Registry, logger *applogger.Logger) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithLogger(logger),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(reg, cfg.Metrics.Path, cfg.Metrics.SlowThreshold))
	}
	return xhttp.NewServer(handler, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(logger *applogger.Logger, httpServer *xhttp.Server) *server.App {
	return server.New(logger, httpServer)
}

// ProvideServices bundles the components used by the one-shot commands.
func ProvideServices(logger *applogger.Logger, registry *usecase.Registry, prices *finnhub.Factory, agg *usecase.SnapshotAggregator, engine *decision.Engine) *Services {
	return &Services{
		Logger:     logger,
		Registry:   registry,
		Prices:     prices,
		Aggregator: agg,
		Engine:     engine,
	}
}
