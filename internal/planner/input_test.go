package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserInputValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		in := validInput()
		in.Preferences = []DietaryPreference{PreferenceVegan, PreferenceLowFODMAP}
		assert.NoError(t, in.Validate())
	})

	cases := []struct {
		name   string
		mutate func(*UserInput)
		want   string
	}{
		{"BlankCondition", func(in *UserInput) { in.Condition = "  " }, "condition is required"},
		{"ZeroAge", func(in *UserInput) { in.Age = 0 }, "age must be greater than 0"},
		{"NegativeAge", func(in *UserInput) { in.Age = -3 }, "age must be greater than 0"},
		{"UnknownDuration", func(in *UserInput) { in.Duration = "2-Week" }, "duration must be one of"},
		{"MissingLanguage", func(in *UserInput) { in.Language = "" }, "language must be one of"},
		{"UnknownPreference", func(in *UserInput) { in.Preferences = []DietaryPreference{"Carnivore"} }, "preferences must be one of"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			err := in.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseEnums(t *testing.T) {
	t.Run("Preference", func(t *testing.T) {
		for in, want := range map[string]DietaryPreference{
			"vegan":       PreferenceVegan,
			"Gluten Free": PreferenceGlutenFree,
			"low_fodmap":  PreferenceLowFODMAP,
			" KETO ":      PreferenceKeto,
		} {
			got, err := ParsePreference(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got)
		}
		_, err := ParsePreference("carnivore")
		assert.Error(t, err)
	})

	t.Run("Duration", func(t *testing.T) {
		for in, want := range map[string]PlanDuration{
			"7-Day":   DurationShort,
			"week":    DurationShort,
			"7":       DurationShort,
			"1-month": DurationLong,
			"30":      DurationLong,
			"Long":    DurationLong,
		} {
			got, err := ParseDuration(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got)
		}
		_, err := ParseDuration("fortnight")
		assert.Error(t, err)
	})

	t.Run("Language", func(t *testing.T) {
		got, err := ParseLanguage("hindi")
		require.NoError(t, err)
		assert.Equal(t, LanguageHindi, got)

		_, err = ParseLanguage("French")
		assert.Error(t, err)
	})
}

func TestUniquePreferences(t *testing.T) {
	in := UserInput{Preferences: []DietaryPreference{PreferencePaleo, PreferenceVegan, PreferencePaleo}}
	assert.Equal(t, []DietaryPreference{PreferenceVegan, PreferencePaleo}, in.UniquePreferences())
	assert.Empty(t, UserInput{}.UniquePreferences())
}
