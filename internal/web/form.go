package web

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"ai-diet-planner/internal/planner"
)

// formData keeps the submitted values so the form can be shown again as entered.
type formData struct {
	Age         string
	Condition   string
	Comorbidity string
	Allergies   string
	Goals       string
	Duration    planner.PlanDuration
	Language    planner.Language
	Preferences []planner.DietaryPreference
}

func defaultForm() formData {
	return formData{Duration: planner.DurationShort, Language: planner.LanguageEnglish}
}

// Selected reports whether p was ticked.
func (f formData) Selected(p planner.DietaryPreference) bool {
	return slices.Contains(f.Preferences, p)
}

// readForm collects the form fields. Unknown choice values are kept as sent
// so that input validation reports them.
func readForm(r *http.Request) (formData, error) {
	if err := r.ParseForm(); err != nil {
		return defaultForm(), fmt.Errorf("invalid form data: %w", err)
	}

	f := defaultForm()
	f.Age = strings.TrimSpace(r.PostForm.Get("age"))
	f.Condition = r.PostForm.Get("condition")
	f.Comorbidity = r.PostForm.Get("comorbidity")
	f.Allergies = r.PostForm.Get("allergies")
	f.Goals = r.PostForm.Get("goals")

	if v := r.PostForm.Get("duration"); v != "" {
		if d, err := planner.ParseDuration(v); err == nil {
			f.Duration = d
		} else {
			f.Duration = planner.PlanDuration(v)
		}
	}
	if v := r.PostForm.Get("language"); v != "" {
		if l, err := planner.ParseLanguage(v); err == nil {
			f.Language = l
		} else {
			f.Language = planner.Language(v)
		}
	}
	for _, v := range r.PostForm["preferences"] {
		p, err := planner.ParsePreference(v)
		if err != nil {
			p = planner.DietaryPreference(v)
		}
		f.Preferences = append(f.Preferences, p)
	}
	return f, nil
}

// input converts the form into a UserInput. The only error is a malformed age;
// everything else is left to UserInput.Validate.
func (f formData) input() (planner.UserInput, error) {
	in := planner.UserInput{
		Condition:   f.Condition,
		Comorbidity: f.Comorbidity,
		Preferences: f.Preferences,
		Allergies:   f.Allergies,
		Goals:       f.Goals,
		Duration:    f.Duration,
		Language:    f.Language,
	}
	if f.Age != "" {
		age, err := strconv.Atoi(f.Age)
		if err != nil {
			return in, &planner.GenerationError{
				Kind: planner.ErrInvalidInput,
				Err:  fmt.Errorf("%w: age must be a whole number", planner.ErrInvalidInput),
			}
		}
		in.Age = age
	}
	return in, nil
}
