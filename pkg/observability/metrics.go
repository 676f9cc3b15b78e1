// Package observability provides Prometheus collectors for the engine and
// adapts them to the domain's lifecycle hooks.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/openstimuli/cadence/pkg/domain"
)

// Metrics bundles the engine's Prometheus collectors.
type Metrics struct {
	TasksStepped   *prometheus.CounterVec
	PagesPresented prometheus.Counter
	PagesCompleted *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TasksStepped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadence_tasks_stepped_total",
				Help: "Scheduled tasks finished, by terminal signal.",
			},
			[]string{"signal"},
		),
		PagesPresented: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cadence_pages_presented_total",
				Help: "Survey pages handed to a renderer.",
			},
		),
		PagesCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadence_pages_completed_total",
				Help: "Survey pages completed, by completion code.",
			},
			[]string{"completion"},
		),
	}
	reg.MustRegister(m.TasksStepped, m.PagesPresented, m.PagesCompleted)
	return m
}

// Hooks adapts the collectors to domain.LifecycleHooks, so sessions and
// interpreters can be observed without depending on this package.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTaskDone: func(_ context.Context, e *domain.TaskEvent) {
			m.TasksStepped.WithLabelValues(e.Signal).Inc()
		},
		OnPagePresented: func(_ context.Context, _ *domain.PageEvent) {
			m.PagesPresented.Inc()
		},
		OnPageCompleted: func(_ context.Context, e *domain.PageEvent) {
			m.PagesCompleted.WithLabelValues(e.Completion.String()).Inc()
		},
	}
}
