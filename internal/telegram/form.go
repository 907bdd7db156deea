package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"ai-diet-planner/internal/planner"
)

// formTemplate is sent for /start and /help and after a form error.
const formTemplate = `condition: Type 2 Diabetes
age: 45
comorbidity: High Blood Pressure
preferences: Vegetarian, Gluten-Free
allergies: Peanuts
goals: Better blood sugar control
duration: 7-Day
language: English`

// fieldAliases maps normalized keys to canonical field names.
var fieldAliases = map[string]string{
	"condition":       "condition",
	"healthcondition": "condition",
	"age":             "age",
	"comorbidity":     "comorbidity",
	"comorbidities":   "comorbidity",
	"preferences":     "preferences",
	"preference":      "preferences",
	"diet":            "preferences",
	"allergies":       "allergies",
	"allergy":         "allergies",
	"avoid":           "allergies",
	"goals":           "goals",
	"goal":            "goals",
	"duration":        "duration",
	"plan":            "duration",
	"language":        "language",
	"lang":            "language",
}

// ParseForm reads a message of "key: value" lines into a UserInput. Keys and
// enum values are case-insensitive. Duration defaults to 7-Day and language to
// English. Errors wrap planner.ErrInvalidInput.
func ParseForm(text string) (planner.UserInput, error) {
	in := planner.UserInput{
		Duration: planner.DurationShort,
		Language: planner.LanguageEnglish,
	}

	var problems []string
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			problems = append(problems, fmt.Sprintf("line %d: expected \"field: value\"", i+1))
			continue
		}
		value = strings.TrimSpace(value)

		field, known := fieldAliases[normalize(key)]
		if !known {
			problems = append(problems, fmt.Sprintf("line %d: unknown field %q", i+1, strings.TrimSpace(key)))
			continue
		}

		if err := setField(&in, field, value); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return in, fmt.Errorf("%w: %s", planner.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return in, nil
}

func setField(in *planner.UserInput, field, value string) error {
	switch field {
	case "condition":
		in.Condition = value
	case "age":
		age, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("age must be a whole number, got %q", value)
		}
		in.Age = age
	case "comorbidity":
		in.Comorbidity = value
	case "allergies":
		in.Allergies = value
	case "goals":
		in.Goals = value
	case "preferences":
		in.Preferences = nil
		for _, item := range strings.Split(value, ",") {
			item = strings.TrimSpace(item)
			if item == "" || strings.EqualFold(item, "none") {
				continue
			}
			p, err := planner.ParsePreference(item)
			if err != nil {
				return err
			}
			in.Preferences = append(in.Preferences, p)
		}
	case "duration":
		d, err := planner.ParseDuration(value)
		if err != nil {
			return err
		}
		in.Duration = d
	case "language":
		l, err := planner.ParseLanguage(value)
		if err != nil {
			return err
		}
		in.Language = l
	}
	return nil
}

func normalize(key string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(key)))
}
