package api

import (
	"context"
	"errors"
	"time"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/domain/service"
	"MarketTemp/internal/usecase"
	xhttp "MarketTemp/pkg/http"
	xlogger "MarketTemp/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SnapshotProvider assembles a market snapshot for one request.
type SnapshotProvider interface {
	GetSnapshot(ctx context.Context, price service.MetricSource) (*models.MarketSnapshot, error)
}

// Recommender evaluates decision inputs and exposes its configuration.
type Recommender interface {
	Evaluate(in models.DecisionInputs) models.Recommendation
	Thresholds() models.ThresholdConfig
	Matrix() models.DecisionMatrix
}

// PriceSourceFunc binds the caller's API key to a price source.
type PriceSourceFunc func(apiKey string) service.MetricSource

// ConfigView is the calculation configuration served to clients.
type ConfigView struct {
	models.ThresholdConfig
	Matrix models.DecisionMatrix `json:"matrix"`
}

// HealthView is the liveness payload.
type HealthView struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// MarketEchoHandler serves the market data and calculation endpoints.
type MarketEchoHandler struct {
	logger    *xlogger.Logger
	snapshots SnapshotProvider
	prices    PriceSourceFunc
	engine    Recommender
	clock     func() time.Time
}

func NewMarketEchoHandler(logger *xlogger.Logger, snapshots SnapshotProvider, prices PriceSourceFunc, engine Recommender) *MarketEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &MarketEchoHandler{
		logger:    logger,
		snapshots: snapshots,
		prices:    prices,
		engine:    engine,
		clock:     time.Now,
	}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/market-data", h.MarketData)
	g.POST("/calculate", h.Calculate)
	g.GET("/config", h.Config)
	g.GET("/health", h.Health)
}

func (h *MarketEchoHandler) MarketData(c echo.Context) error {
	req := &models.MarketDataRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil || req.Key() == "" {
		return xhttp.AppErrorResponse(c, xhttp.MissingAPIKeyError())
	}
	h.logger.Debug("market data requested", xlogger.Masked("api_key", req.Key()))

	snap, err := h.snapshots.GetSnapshot(c.Request().Context(), h.prices(req.Key()))
	if err != nil {
		h.logger.Error("market data failed", xlogger.Error(err))
		if errors.Is(err, usecase.ErrMandatorySignalUnavailable) {
			return xhttp.AppErrorResponse(c, xhttp.UpstreamUnavailableError("Failed to fetch current price: "+err.Error()).WithError(err))
		}
		return xhttp.InternalServerErrorResponse(c)
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, snap)
}

func (h *MarketEchoHandler) Calculate(c echo.Context) error {
	req := &models.CalculateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rec := h.engine.Evaluate(req.Inputs())
	h.logger.Debug("recommendation computed",
		xlogger.String("drawdown_level", string(rec.DrawdownLevel)),
		xlogger.Float64("units", rec.AllocationUnits),
	)
	return xhttp.SuccessResponse(c, rec)
}

func (h *MarketEchoHandler) Config(c echo.Context) error {
	return xhttp.SuccessResponse(c, ConfigView{
		ThresholdConfig: h.engine.Thresholds(),
		Matrix:          h.engine.Matrix(),
	})
}

func (h *MarketEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, HealthView{Status: "healthy", Timestamp: h.clock().UTC()})
}
