package planner

import (
	"context"
	"errors"
	"time"

	"ai-diet-planner/internal/llm"
	"ai-diet-planner/internal/shared"

	"github.com/rs/zerolog"
)

const (
	// DefaultTemperature keeps some variety between plans while staying close to the schema.
	DefaultTemperature float32 = 0.7

	agentName = "DietPlanner"
)

// Planner handles the generation of diet plans.
type Planner struct {
	generator   llm.StructuredGenerator
	temperature float32
	logger      zerolog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithTemperature overrides DefaultTemperature. Non-positive values are ignored.
func WithTemperature(t float32) Option {
	return func(p *Planner) {
		if t > 0 {
			p.temperature = t
		}
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// NewPlanner creates a new Planner instance.
func NewPlanner(generator llm.StructuredGenerator, opts ...Option) *Planner {
	p := &Planner{
		generator:   generator,
		temperature: DefaultTemperature,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate creates a diet plan for input. The plan is returned whole or not at
// all; every failure is a *GenerationError and is logged. Nothing is retried.
// The returned metadata is filled in as far as the call got.
func (p *Planner) Generate(ctx context.Context, input UserInput) (DietPlan, shared.AgentMeta, error) {
	start := time.Now()
	meta := shared.AgentMeta{AgentName: agentName}

	if err := input.Validate(); err != nil {
		return nil, meta, p.fail(ctx, &GenerationError{Kind: ErrInvalidInput, Err: err})
	}

	prompt := BuildPrompt(input)

	resp, err := p.generator.GenerateStructured(ctx, prompt, ResponseSchema(), p.temperature)
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)
	if err != nil {
		return nil, meta, p.fail(ctx, &GenerationError{Kind: ErrService, Err: err})
	}

	plan, err := ParsePlan(resp.Content, input.Duration.Days())
	if err != nil {
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			genErr = &GenerationError{Kind: ErrValidation, Err: err}
		}
		return nil, meta, p.fail(ctx, genErr)
	}

	return plan, meta, nil
}

func (p *Planner) fail(ctx context.Context, err *GenerationError) error {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = &p.logger
	}

	event := logger.Error()
	if err.Kind == ErrInvalidInput {
		event = logger.Warn()
	}
	event.Err(err.Err).Str("kind", Outcome(err)).Msg("Error generating diet plan")
	return err
}
