package usecase

import (
	"fmt"
	"sort"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/domain/service"
)

// Lister is implemented by sources that declare the metrics they serve.
type Lister interface {
	Supports() []models.Metric
}

// Registry holds the process-wide sources by provider name.
type Registry struct {
	sources map[string]service.MetricSource
}

func NewRegistry(sources ...service.MetricSource) *Registry {
	r := &Registry{sources: make(map[string]service.MetricSource, len(sources))}
	for _, s := range sources {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a source under its own name.
func (r *Registry) Register(s service.MetricSource) {
	r.sources[s.Name()] = s
}

// Get returns the source registered under name.
func (r *Registry) Get(name string) (service.MetricSource, bool) {
	s, ok := r.sources[name]
	return s, ok
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chain resolves names into sources. Overrides take precedence over registered sources,
// which is how request-scoped clients replace their process-wide counterparts.
func (r *Registry) Chain(names []string, overrides map[string]service.MetricSource) ([]service.MetricSource, error) {
	out := make([]service.MetricSource, 0, len(names))
	for _, name := range names {
		if s, ok := overrides[name]; ok && s != nil {
			out = append(out, s)
			continue
		}
		s, ok := r.sources[name]
		if !ok {
			return nil, fmt.Errorf("unknown source %q", name)
		}
		out = append(out, s)
	}
	return out, nil
}

// Supports reports whether the named source declares metric.
// Sources that do not declare their metrics are assumed to support everything.
func (r *Registry) Supports(name string, metric models.Metric) bool {
	s, ok := r.Get(name)
	if !ok {
		return false
	}
	l, ok := s.(Lister)
	if !ok {
		return true
	}
	for _, m := range l.Supports() {
		if m == metric {
			return true
		}
	}
	return false
}
