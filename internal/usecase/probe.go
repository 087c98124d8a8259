package usecase

import (
	"context"
	"time"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/domain/service"
	"MarketTemp/pkg/settle"
)

// ProbeResult is the outcome of fetching one metric from one source.
type ProbeResult struct {
	Source  string        `json:"source"`
	Metric  models.Metric `json:"metric"`
	Value   *float64      `json:"value,omitempty"`
	Outcome string        `json:"outcome"`
	Reason  string        `json:"reason,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Probe fetches every supported metric from every named source and reports each outcome.
// Sources run concurrently; metrics of one source run in order so its rate limit is honored.
func Probe(ctx context.Context, registry *Registry, names []string, overrides map[string]service.MetricSource) ([]ProbeResult, error) {
	if len(names) == 0 {
		names = registry.Names()
	}
	sources, err := registry.Chain(names, overrides)
	if err != nil {
		return nil, err
	}

	tasks := make([]settle.Task[[]ProbeResult], len(sources))
	for i, src := range sources {
		tasks[i] = func(ctx context.Context) ([]ProbeResult, error) {
			var out []ProbeResult
			for _, metric := range models.AllMetrics {
				if !registry.Supports(src.Name(), metric) {
					continue
				}
				out = append(out, probeOne(ctx, src, metric))
			}
			return out, nil
		}
	}

	var out []ProbeResult
	for i, r := range settle.All(ctx, tasks...) {
		if r.Err != nil {
			out = append(out, ProbeResult{Source: sources[i].Name(), Outcome: "crashed", Reason: r.Err.Error()})
			continue
		}
		out = append(out, r.Value...)
	}
	return out, nil
}

func probeOne(ctx context.Context, src service.MetricSource, metric models.Metric) ProbeResult {
	start := time.Now()
	reading, err := src.Fetch(ctx, metric)
	if err == nil {
		err = checkReading(&reading)
	}
	res := ProbeResult{
		Source:  src.Name(),
		Metric:  metric,
		Outcome: service.Outcome(err),
		Elapsed: time.Since(start),
	}
	if err != nil {
		res.Reason = err.Error()
		return res
	}
	res.Value = models.Float(reading.Value)
	return res
}
