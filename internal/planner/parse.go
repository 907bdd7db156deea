package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// The wire types use pointers so a missing field can be told apart from an
// empty one.
type wireMeal struct {
	Name         *string   `json:"name"`
	Ingredients  *[]string `json:"ingredients"`
	Instructions *string   `json:"instructions"`
}

type wireDay struct {
	Day       *string   `json:"day"`
	Breakfast *wireMeal `json:"breakfast"`
	Lunch     *wireMeal `json:"lunch"`
	Dinner    *wireMeal `json:"dinner"`
	Snacks    *wireMeal `json:"snacks"`
}

// ParsePlan trims and decodes raw service output into a DietPlan. wantDays,
// when positive, is the exact number of days the plan must contain.
// Day labels must be non-blank and unique; their order is kept as returned
// and not checked, since labels are written in the requested language.
// Failures are *GenerationError of kind ErrParse or ErrValidation.
func ParsePlan(raw string, wantDays int) (DietPlan, error) {
	text := strings.TrimSpace(raw)

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, invalid(fmt.Sprintf("expected a JSON array of days, got %s", typeErr.Value))
		}
		return nil, &GenerationError{Kind: ErrParse, Err: fmt.Errorf("response is not valid JSON: %w", err)}
	}

	if len(items) == 0 {
		return nil, invalid("received an invalid or empty diet plan from the API")
	}

	var problems []string
	plan := make(DietPlan, 0, len(items))
	seen := make(map[string]int, len(items))

	for i, item := range items {
		pos := i + 1
		var wd wireDay
		if err := json.Unmarshal(item, &wd); err != nil {
			problems = append(problems, fmt.Sprintf("entry %d: %v", pos, err))
			continue
		}

		label := fmt.Sprintf("entry %d", pos)
		if wd.Day == nil || isBlank(*wd.Day) {
			problems = append(problems, fmt.Sprintf("%s: missing day label", label))
		} else {
			label = *wd.Day
			if prev, dup := seen[label]; dup {
				problems = append(problems, fmt.Sprintf("entry %d: duplicate day label %q (also entry %d)", pos, label, prev))
			}
			seen[label] = pos
		}

		day := DailyPlan{Day: label}
		slots := []struct {
			name string
			src  *wireMeal
			dst  *Meal
		}{
			{"breakfast", wd.Breakfast, &day.Breakfast},
			{"lunch", wd.Lunch, &day.Lunch},
			{"dinner", wd.Dinner, &day.Dinner},
			{"snacks", wd.Snacks, &day.Snacks},
		}
		for _, slot := range slots {
			meal, missing := convertMeal(slot.src)
			if missing != "" {
				problems = append(problems, fmt.Sprintf("%s: %s %s", label, slot.name, missing))
				continue
			}
			*slot.dst = meal
		}
		plan = append(plan, day)
	}

	if wantDays > 0 && len(items) != wantDays {
		problems = append(problems, fmt.Sprintf("expected %d days, got %d", wantDays, len(items)))
	}

	if len(problems) > 0 {
		return nil, invalid(strings.Join(problems, "; "))
	}
	return plan, nil
}

// convertMeal returns the meal, or a description of what is missing.
func convertMeal(m *wireMeal) (Meal, string) {
	switch {
	case m == nil:
		return Meal{}, "is missing"
	case m.Name == nil || isBlank(*m.Name):
		return Meal{}, "is missing a name"
	case m.Ingredients == nil || len(*m.Ingredients) == 0:
		return Meal{}, "is missing ingredients"
	case slices.ContainsFunc(*m.Ingredients, isBlank):
		return Meal{}, "has a blank ingredient"
	case m.Instructions == nil || isBlank(*m.Instructions):
		return Meal{}, "is missing instructions"
	}
	return Meal{
		Name:         *m.Name,
		Ingredients:  *m.Ingredients,
		Instructions: *m.Instructions,
	}, ""
}

func invalid(detail string) *GenerationError {
	return &GenerationError{Kind: ErrValidation, Err: errors.New(detail)}
}
