package planner

import "ai-diet-planner/internal/llm"

var (
	mealFields  = []string{"name", "ingredients", "instructions"}
	planFields  = []string{"day", "breakfast", "lunch", "dinner", "snacks"}
	mealSlots   = []string{"breakfast", "lunch", "dinner", "snacks"}
)

func mealSchema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"name": {Type: llm.TypeString, Description: "Name of the meal."},
			"ingredients": {
				Type:        llm.TypeArray,
				Items:       &llm.Schema{Type: llm.TypeString},
				Description: "List of ingredients with quantities.",
			},
			"instructions": {Type: llm.TypeString, Description: "Simple preparation instructions."},
		},
		Required: append([]string(nil), mealFields...),
	}
}

// ResponseSchema describes the JSON shape the service must return: an array
// of days, each with a label and four meals. Every call returns a fresh copy.
func ResponseSchema() *llm.Schema {
	day := &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"day": {Type: llm.TypeString, Description: "The specific day of the plan (e.g., Day 1, Day 2)."},
		},
		Required: append([]string(nil), planFields...),
	}
	for _, name := range mealSlots {
		day.Properties[name] = mealSchema()
	}

	return &llm.Schema{
		Type:        llm.TypeArray,
		Description: "A diet plan for the specified duration (e.g., 7 or 30 days).",
		Items:       day,
	}
}
