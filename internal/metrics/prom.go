package metrics

import (
	"time"

	"ai-diet-planner/internal/shared"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors are the Prometheus series for plan generation.
type Collectors struct {
	Generations        *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	Tokens             *prometheus.CounterVec
}

// NewCollectors creates the collectors and registers them with reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diet_planner_generations_total",
				Help: "Diet plan generations by outcome",
			},
			[]string{"outcome"}, // success|invalid_input|service_error|parse_error|validation_error
		),
		GenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "diet_planner_generation_duration_seconds",
				Help:    "Time spent waiting for the text generation service",
				Buckets: prometheus.ExponentialBuckets(1, 2, 8), // 1s..128s
			},
			[]string{"outcome"},
		),
		Tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diet_planner_tokens_total",
				Help: "Tokens consumed by model and direction",
			},
			[]string{"model", "direction"}, // direction: prompt|completion
		),
	}
	reg.MustRegister(c.Generations, c.GenerationDuration, c.Tokens)
	return c
}

// ObserveGeneration records one finished generation.
func (c *Collectors) ObserveGeneration(outcome string, latency time.Duration, usage shared.TokenUsage) {
	c.Generations.WithLabelValues(outcome).Inc()
	if latency > 0 {
		c.GenerationDuration.WithLabelValues(outcome).Observe(latency.Seconds())
	}
	if usage.Model != "" {
		c.Tokens.WithLabelValues(usage.Model, "prompt").Add(float64(usage.PromptTokens))
		c.Tokens.WithLabelValues(usage.Model, "completion").Add(float64(usage.CompletionTokens))
	}
}
