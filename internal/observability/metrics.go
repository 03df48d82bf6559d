// Package observability exposes Prometheus instrumentation for the
// runtime, delivered through domain.LifecycleHooks.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
)

var (
	// runsStarted counts runs entering the playing state.
	runsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wikirun",
		Subsystem: "runs",
		Name:      "started_total",
		Help:      "Total runs started",
	})

	// runsFinished counts terminal outcomes.
	// Labels: status (succeeded, failed)
	runsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wikirun",
		Subsystem: "runs",
		Name:      "finished_total",
		Help:      "Total runs finished by terminal status",
	}, []string{"status"})

	// runSteps tracks how many hops finished runs took.
	runSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wikirun",
		Subsystem: "runs",
		Name:      "steps",
		Help:      "Distribution of hops per finished run",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 40},
	})

	// stepDuration measures one full hop: solver decision plus
	// destination fetch.
	// Labels: solver
	stepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wikirun",
		Subsystem: "steps",
		Name:      "duration_seconds",
		Help:      "Step latency in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
	}, []string{"solver"})

	// stepsCommitted counts committed hops.
	// Labels: solver
	stepsCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wikirun",
		Subsystem: "steps",
		Name:      "committed_total",
		Help:      "Total committed hops by solver",
	}, []string{"solver"})
)

// Hooks returns lifecycle hooks that record run and step metrics. Chain
// them with other hooks via Merge when more than one consumer listens.
func Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, _ *domain.RunEvent) {
			runsStarted.Inc()
		},
		OnStepCommit: func(_ context.Context, e *domain.StepEvent) {
			stepsCommitted.WithLabelValues(e.Solver).Inc()
			stepDuration.WithLabelValues(e.Solver).Observe(e.Duration.Seconds())
		},
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			runsFinished.WithLabelValues(string(e.Status)).Inc()
			runSteps.Observe(float64(e.Steps))
		},
	}
}

// Merge fans one lifecycle event out to every given hook set.
func Merge(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			for _, h := range hooks {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, e)
				}
			}
		},
		OnStepCommit: func(ctx context.Context, e *domain.StepEvent) {
			for _, h := range hooks {
				if h.OnStepCommit != nil {
					h.OnStepCommit(ctx, e)
				}
			}
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			for _, h := range hooks {
				if h.OnRunEnd != nil {
					h.OnRunEnd(ctx, e)
				}
			}
		},
	}
}
