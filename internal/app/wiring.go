package app

import (
	"context"
	"errors"
	"fmt"

	"ai-diet-planner/internal/config"
	"ai-diet-planner/internal/database"
	"ai-diet-planner/internal/llm"
	"ai-diet-planner/internal/metrics"
	"ai-diet-planner/internal/planner"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// NewFromConfig wires the generator, planner and metrics for cfg. reg may be
// nil to skip Prometheus. The returned close function releases the generator
// and the metrics database.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*App, func() error, error) {
	gen, err := llm.NewGenerator(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize %s client: %w", cfg.LLMProvider, err)
	}

	var closers []func() error
	if c, ok := gen.(llm.Closer); ok {
		closers = append(closers, c.Close)
	}
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	opts := []Option{
		WithLogger(logger),
		WithTimeout(cfg.GenerationTimeout),
	}

	if cfg.MetricsDBPath != "" {
		db, err := database.NewDB(cfg.MetricsDBPath)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to initialize metrics database: %w", err)
		}
		closers = append(closers, db.Close)
		opts = append(opts, WithMetricsStore(metrics.NewStore(db.SQL)))
	}

	if reg != nil {
		opts = append(opts, WithCollectors(metrics.NewCollectors(reg)))
	}

	p := planner.NewPlanner(gen,
		planner.WithTemperature(cfg.Temperature),
		planner.WithLogger(logger),
	)

	logger.Debug().
		Str("provider", cfg.LLMProvider).
		Bool("metrics_store", cfg.MetricsDBPath != "").
		Dur("timeout", cfg.GenerationTimeout).
		Msg("Application initialized")

	return NewApp(p, opts...), closeAll, nil
}
