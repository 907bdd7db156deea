package app

import (
	"fmt"
	"io"
	"strings"

	"ai-diet-planner/internal/planner"
)

// WritePlan renders plan as plain text, one block per day.
func WritePlan(w io.Writer, plan planner.DietPlan) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== DIET PLAN (%d days) ===\n", len(plan))

	for _, day := range plan {
		fmt.Fprintf(&sb, "\n--- %s ---\n", day.Day)
		for _, m := range day.Meals() {
			fmt.Fprintf(&sb, "\n%s: %s\n", m.Label, m.Meal.Name)
			sb.WriteString("  Ingredients:\n")
			for _, ing := range m.Meal.Ingredients {
				fmt.Fprintf(&sb, "    - %s\n", ing)
			}
			fmt.Fprintf(&sb, "  Instructions: %s\n", strings.TrimSpace(m.Meal.Instructions))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
