package planner

import (
	"context"
	"strings"
	"testing"

	"ai-diet-planner/internal/config"
	"ai-diet-planner/internal/llm"
)

// TestPlanner_LiveEval performs a real LLM call to evaluate how well the
// generated plan respects the profile constraints.
// Run with: go test -v ./internal/planner -run TestPlanner_LiveEval
func TestPlanner_LiveEval(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping live eval in short mode")
	}

	ctx := context.Background()
	cfg, err := config.NewFromEnv()
	if err != nil {
		t.Skip("Skipping: No API keys found in environment")
	}

	gen, err := llm.NewGenerator(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}
	if c, ok := gen.(llm.Closer); ok {
		defer c.Close()
	}

	// A "hard" profile: restrictive preferences plus a common allergen.
	input := UserInput{
		Condition:   "Type 2 Diabetes",
		Age:         58,
		Comorbidity: "High Blood Pressure",
		Preferences: []DietaryPreference{PreferenceVegetarian, PreferenceGlutenFree},
		Allergies:   "Peanuts",
		Goals:       "Lower HbA1c",
		Duration:    DurationShort,
		Language:    LanguageEnglish,
	}

	plan, meta, err := NewPlanner(gen, WithTemperature(cfg.Temperature)).Generate(ctx, input)
	if err != nil {
		t.Fatalf("Planner failed to respond: %v", err)
	}

	// EVAL A: Shape. Generate already enforces it; this documents the contract.
	if len(plan) != 7 {
		t.Errorf("SHAPE FAIL: expected 7 days, got %d", len(plan))
	}

	// EVAL B: Constraints. Forbidden ingredients must not appear anywhere.
	forbidden := []string{"peanut", "chicken", "beef", "pork", "fish", "wheat flour"}
	for _, day := range plan {
		for _, m := range day.Meals() {
			for _, ing := range m.Meal.Ingredients {
				lower := strings.ToLower(ing)
				for _, f := range forbidden {
					if strings.Contains(lower, f) {
						t.Errorf("CONSTRAINT FAIL: %s %s contains %q (%s)", day.Day, m.Label, f, ing)
					}
				}
			}
		}
	}

	// EVAL C: Detail. Ingredients should carry quantities.
	withDigits := 0
	total := 0
	for _, day := range plan {
		for _, m := range day.Meals() {
			for _, ing := range m.Meal.Ingredients {
				total++
				if strings.ContainsAny(ing, "0123456789½¼¾") {
					withDigits++
				}
			}
		}
	}
	if total > 0 && withDigits*2 < total {
		t.Errorf("DETAIL FAIL: only %d of %d ingredients have quantities", withDigits, total)
	}

	t.Logf("Eval complete. %s generated %d days using %d prompt / %d completion tokens in %s.",
		meta.Usage.Model, len(plan), meta.Usage.PromptTokens, meta.Usage.CompletionTokens, meta.Latency)
}
