package planner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("RequiredFields", func(t *testing.T) {
		prompt := BuildPrompt(validInput())

		assert.Contains(t, prompt, "Generate a detailed 7-day diet and nutrition plan in the English language.")
		assert.Contains(t, prompt, `45-year-old person, with the primary health condition of "Type 2 Diabetes"`)
		assert.Contains(t, prompt, "For each of the 7 days")
		assert.Contains(t, prompt, "must be in English")
		assert.Contains(t, prompt, "breakfast, lunch, dinner, and snacks")
		assert.Contains(t, prompt, `"Day 1", "Day 2"`)
	})

	t.Run("OmitsBlankOptionalClauses", func(t *testing.T) {
		in := validInput()
		in.Comorbidity = "   "
		in.Goals = ""
		in.Allergies = "\t"
		in.Preferences = []DietaryPreference{}

		prompt := BuildPrompt(in)
		for _, fragment := range []string{"comorbidities", "primary goals", "preferences", "allergies"} {
			assert.NotContains(t, prompt, fragment)
		}
	})

	t.Run("IncludesOptionalClauses", func(t *testing.T) {
		in := validInput()
		in.Comorbidity = "High Blood Pressure"
		in.Goals = "lose 5kg"
		in.Allergies = "peanuts, shellfish"
		in.Preferences = []DietaryPreference{PreferenceKeto, PreferenceVegetarian, PreferenceKeto}

		prompt := BuildPrompt(in)
		assert.Contains(t, prompt, `They also have the following comorbidities: "High Blood Pressure".`)
		assert.Contains(t, prompt, `Their primary goals are: "lose 5kg".`)
		assert.Contains(t, prompt, "The diet must adhere to these preferences: Vegetarian, Keto.")
		assert.Contains(t, prompt, `must be strictly avoided: "peanuts, shellfish".`)

		// Clause order is fixed.
		assert.Less(t, strings.Index(prompt, "comorbidities"), strings.Index(prompt, "primary goals"))
		assert.Less(t, strings.Index(prompt, "primary goals"), strings.Index(prompt, "preferences"))
		assert.Less(t, strings.Index(prompt, "preferences"), strings.Index(prompt, "allergies"))
	})

	t.Run("PreferenceOrderDoesNotMatter", func(t *testing.T) {
		a := validInput()
		a.Preferences = []DietaryPreference{PreferenceVegan, PreferenceGlutenFree}
		b := validInput()
		b.Preferences = []DietaryPreference{PreferenceGlutenFree, PreferenceVegan}

		assert.Equal(t, BuildPrompt(a), BuildPrompt(b))
	})

	t.Run("LongDurationAndLanguage", func(t *testing.T) {
		in := validInput()
		in.Duration = DurationLong
		in.Language = LanguageMarathi

		prompt := BuildPrompt(in)
		assert.Contains(t, prompt, "30-day diet and nutrition plan in the Marathi language")
		assert.Contains(t, prompt, "For each of the 30 days")
		assert.Contains(t, prompt, `up to "Day 30"`)
		assert.Contains(t, prompt, "must be in Marathi")
	})

	t.Run("FreeTextIsVerbatim", func(t *testing.T) {
		in := validInput()
		in.Condition = `PCOS "severe" <b>`

		assert.Contains(t, BuildPrompt(in), `condition of "PCOS "severe" <b>"`)
	})

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, BuildPrompt(validInput()), BuildPrompt(validInput()))
	})
}

func TestPlanDurationDays(t *testing.T) {
	assert.Equal(t, 7, DurationShort.Days())
	assert.Equal(t, 30, DurationLong.Days())
	assert.Equal(t, 0, PlanDuration("fortnight").Days())
}

func TestResponseSchema(t *testing.T) {
	schema := ResponseSchema()

	assert.Equal(t, "array", string(schema.Type))
	day := schema.Items
	assert.ElementsMatch(t, []string{"day", "breakfast", "lunch", "dinner", "snacks"}, day.Required)
	for _, slot := range []string{"breakfast", "lunch", "dinner", "snacks"} {
		meal := day.Properties[slot]
		if assert.NotNil(t, meal, slot) {
			assert.ElementsMatch(t, []string{"name", "ingredients", "instructions"}, meal.Required)
			assert.Equal(t, "array", string(meal.Properties["ingredients"].Type))
		}
	}

	// Callers get independent copies.
	schema.Items.Required = nil
	assert.NotEmpty(t, ResponseSchema().Items.Required)
}

func TestBuildPromptRendersEveryChoice(t *testing.T) {
	for _, d := range PlanDurations {
		for _, l := range Languages {
			in := validInput()
			in.Duration = d
			in.Language = l

			var prompt string
			assert.NotPanics(t, func() { prompt = BuildPrompt(in) })
			assert.Contains(t, prompt, "must be in "+string(l))
			assert.Contains(t, prompt, fmt.Sprintf("For each of the %d days", d.Days()))
		}
	}
}
