package planner

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DietaryPreference is a tag constraining meal generation.
type DietaryPreference string

const (
	PreferenceVegetarian DietaryPreference = "Vegetarian"
	PreferenceVegan      DietaryPreference = "Vegan"
	PreferenceGlutenFree DietaryPreference = "Gluten-Free"
	PreferenceDairyFree  DietaryPreference = "Dairy-Free"
	PreferenceKeto       DietaryPreference = "Keto"
	PreferencePaleo      DietaryPreference = "Paleo"
	PreferenceLowFODMAP  DietaryPreference = "Low-FODMAP"
)

// DietaryPreferences lists every preference in canonical order.
var DietaryPreferences = []DietaryPreference{
	PreferenceVegetarian,
	PreferenceVegan,
	PreferenceGlutenFree,
	PreferenceDairyFree,
	PreferenceKeto,
	PreferencePaleo,
	PreferenceLowFODMAP,
}

// PlanDuration is the requested plan size.
type PlanDuration string

const (
	DurationShort PlanDuration = "7-Day"
	DurationLong  PlanDuration = "1-Month"
)

// PlanDurations lists the supported durations.
var PlanDurations = []PlanDuration{DurationShort, DurationLong}

// Days resolves the duration to a day count. Unknown durations resolve to 0.
func (d PlanDuration) Days() int {
	switch d {
	case DurationShort:
		return 7
	case DurationLong:
		return 30
	default:
		return 0
	}
}

// Language is the language every generated text must be written in.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageMarathi Language = "Marathi"
	LanguageHindi   Language = "Hindi"
)

// Languages lists the supported output languages.
var Languages = []Language{LanguageEnglish, LanguageMarathi, LanguageHindi}

// UserInput is one submission of the user's health profile and preferences.
type UserInput struct {
	Condition   string              `json:"condition" validate:"required"`
	Age         int                 `json:"age" validate:"gt=0"`
	Comorbidity string              `json:"comorbidity,omitempty"`
	Preferences []DietaryPreference `json:"preferences,omitempty" validate:"dive,oneof=Vegetarian Vegan Gluten-Free Dairy-Free Keto Paleo Low-FODMAP"`
	Allergies   string              `json:"allergies,omitempty"`
	Goals       string              `json:"goals,omitempty"`
	Duration    PlanDuration        `json:"duration" validate:"oneof=7-Day 1-Month"`
	Language    Language            `json:"language" validate:"oneof=English Marathi Hindi"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the input invariants. The returned error wraps ErrInvalidInput.
func (in UserInput) Validate() error {
	if strings.TrimSpace(in.Condition) == "" {
		return fmt.Errorf("%w: condition is required", ErrInvalidInput)
	}

	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, formatFieldError(fe))
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
	}
	return nil
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	if strings.HasPrefix(field, "preferences[") {
		field = "preferences"
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// UniquePreferences returns the selected preferences without duplicates, in
// canonical order, so that selection order never changes the prompt.
func (in UserInput) UniquePreferences() []DietaryPreference {
	selected := make(map[DietaryPreference]struct{}, len(in.Preferences))
	for _, p := range in.Preferences {
		selected[p] = struct{}{}
	}

	out := make([]DietaryPreference, 0, len(selected))
	for _, p := range DietaryPreferences {
		if _, ok := selected[p]; ok {
			out = append(out, p)
			delete(selected, p)
		}
	}
	// Anything left is outside the known set; Validate rejects it, but keep
	// BuildPrompt total over any input.
	for _, p := range in.Preferences {
		if _, ok := selected[p]; ok {
			out = append(out, p)
			delete(selected, p)
		}
	}
	return out
}

// ParsePreference matches a preference case-insensitively, ignoring spaces,
// hyphens and underscores ("gluten free" matches Gluten-Free).
func ParsePreference(s string) (DietaryPreference, error) {
	key := normalizeKey(s)
	for _, p := range DietaryPreferences {
		if normalizeKey(string(p)) == key {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown dietary preference %q", s)
}

// ParseDuration accepts the canonical labels as well as "7", "30", "week",
// "month", "short" and "long".
func ParseDuration(s string) (PlanDuration, error) {
	switch normalizeKey(s) {
	case "7day", "7", "week", "short":
		return DurationShort, nil
	case "1month", "30", "30day", "month", "long":
		return DurationLong, nil
	default:
		return "", fmt.Errorf("unknown plan duration %q", s)
	}
}

// ParseLanguage matches a language name case-insensitively.
func ParseLanguage(s string) (Language, error) {
	key := normalizeKey(s)
	for _, l := range Languages {
		if normalizeKey(string(l)) == key {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown language %q", s)
}

func normalizeKey(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}
