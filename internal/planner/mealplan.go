package planner

// Meal is a single meal suggestion.
type Meal struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

// DailyPlan represents the four meals of a single day.
type DailyPlan struct {
	Day       string `json:"day"`
	Breakfast Meal   `json:"breakfast"`
	Lunch     Meal   `json:"lunch"`
	Dinner    Meal   `json:"dinner"`
	Snacks    Meal   `json:"snacks"`
}

// LabeledMeal pairs a meal with its slot label, for renderers.
type LabeledMeal struct {
	Label string
	Meal  Meal
}

// Meals returns the day's meals in serving order.
func (d DailyPlan) Meals() []LabeledMeal {
	return []LabeledMeal{
		{Label: "Breakfast", Meal: d.Breakfast},
		{Label: "Lunch", Meal: d.Lunch},
		{Label: "Dinner", Meal: d.Dinner},
		{Label: "Snacks", Meal: d.Snacks},
	}
}

// DietPlan is the full plan, one entry per day in order.
type DietPlan []DailyPlan
