package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-diet-planner/internal/metrics"
	"ai-diet-planner/internal/planner"
	"ai-diet-planner/internal/shared"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrMetricsDisabled is returned by the usage operations when no metrics
// database is configured.
var ErrMetricsDisabled = errors.New("metrics store is not configured (set METRICS_DB_PATH)")

// PlanGenerator produces a diet plan. *planner.Planner implements it.
type PlanGenerator interface {
	Generate(ctx context.Context, input planner.UserInput) (planner.DietPlan, shared.AgentMeta, error)
}

// App holds the application's dependencies.
type App struct {
	planner    PlanGenerator
	store      *metrics.Store
	collectors *metrics.Collectors
	timeout    time.Duration
	logger     zerolog.Logger
}

// Option configures an App.
type Option func(*App)

// WithMetricsStore records every generation into s.
func WithMetricsStore(s *metrics.Store) Option {
	return func(a *App) { a.store = s }
}

// WithCollectors reports every generation to the Prometheus collectors.
func WithCollectors(c *metrics.Collectors) Option {
	return func(a *App) { a.collectors = c }
}

// WithTimeout bounds each generation. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(a *App) { a.timeout = d }
}

// WithLogger sets the base logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// NewApp creates and initializes a new App instance.
func NewApp(p PlanGenerator, opts ...Option) *App {
	a := &App{planner: p, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GeneratePlan runs one generation under a fresh request id and records its
// usage. A generation cut short by the configured deadline returns an error
// that matches context.DeadlineExceeded.
func (a *App) GeneratePlan(ctx context.Context, input planner.UserInput) (planner.DietPlan, error) {
	requestID := uuid.NewString()
	logger := a.logger.With().Str("request_id", requestID).Logger()
	ctx = logger.WithContext(ctx)

	genCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	logger.Info().
		Str("duration", string(input.Duration)).
		Str("language", string(input.Language)).
		Int("preferences", len(input.Preferences)).
		Msg("Generating diet plan")

	plan, meta, err := a.planner.Generate(genCtx, input)
	if err != nil && errors.Is(genCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w (%w after %s)", err, context.DeadlineExceeded, a.timeout)
	}

	outcome := planner.Outcome(err)
	a.record(ctx, meta, outcome)

	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("days", len(plan)).
		Str("model", meta.Usage.Model).
		Int("prompt_tokens", meta.Usage.PromptTokens).
		Int("completion_tokens", meta.Usage.CompletionTokens).
		Dur("latency", meta.Latency).
		Msg("Diet plan generated")
	return plan, nil
}

func (a *App) record(ctx context.Context, meta shared.AgentMeta, outcome string) {
	if a.collectors != nil {
		a.collectors.ObserveGeneration(outcome, meta.Latency, meta.Usage)
	}
	if a.store == nil {
		return
	}
	// The generation deadline may already have passed; recording is not part of it.
	if err := a.store.RecordMeta(context.WithoutCancel(ctx), meta, outcome); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("agent", meta.AgentName).Msg("Failed to record metrics")
	}
}

// DailyUsage returns token usage for the last days days.
func (a *App) DailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error) {
	if a.store == nil {
		return nil, ErrMetricsDisabled
	}
	return a.store.GetDailyUsage(ctx, days)
}

// CleanupMetrics removes metric records older than days days.
func (a *App) CleanupMetrics(ctx context.Context, days int) (int64, error) {
	if a.store == nil {
		return 0, ErrMetricsDisabled
	}
	if days < 0 {
		return 0, fmt.Errorf("days must not be negative, got %d", days)
	}
	return a.store.Cleanup(ctx, days)
}
