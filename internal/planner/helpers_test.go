package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"ai-diet-planner/internal/llm"
	"ai-diet-planner/internal/shared"
)

// stubGenerator records the last call and returns a canned response.
type stubGenerator struct {
	content string
	err     error
	usage   shared.TokenUsage

	calls       int
	prompt      string
	schema      *llm.Schema
	temperature float32
}

func (s *stubGenerator) GenerateStructured(ctx context.Context, prompt string, schema *llm.Schema, temperature float32) (llm.ContentResponse, error) {
	s.calls++
	s.prompt = prompt
	s.schema = schema
	s.temperature = temperature
	if s.err != nil {
		return llm.ContentResponse{Usage: s.usage}, s.err
	}
	return llm.ContentResponse{Content: s.content, Usage: s.usage}, nil
}

var errUnavailable = errors.New("503 service unavailable")

func validInput() UserInput {
	return UserInput{
		Condition: "Type 2 Diabetes",
		Age:       45,
		Duration:  DurationShort,
		Language:  LanguageEnglish,
	}
}

func sampleMeal(day int, slot string) Meal {
	return Meal{
		Name:         fmt.Sprintf("Day %d %s", day, slot),
		Ingredients:  []string{"100g oats", "1 cup almond milk"},
		Instructions: "1. Combine. 2. Serve.",
	}
}

func samplePlan(days int) DietPlan {
	plan := make(DietPlan, days)
	for i := range plan {
		n := i + 1
		plan[i] = DailyPlan{
			Day:       fmt.Sprintf("Day %d", n),
			Breakfast: sampleMeal(n, "breakfast"),
			Lunch:     sampleMeal(n, "lunch"),
			Dinner:    sampleMeal(n, "dinner"),
			Snacks:    sampleMeal(n, "snacks"),
		}
	}
	return plan
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}
