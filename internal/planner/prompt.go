package planner

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompt.md
var planPrompt string

var planTemplate = template.Must(template.New("plan").Parse(planPrompt))

type planPromptData struct {
	Days     int
	Language Language
}

type promptClause struct {
	include bool
	text    string
}

// BuildPrompt renders the generation prompt for input. It is deterministic and
// interpolates free text verbatim; optional clauses appear only when their
// field is non-blank.
func BuildPrompt(input UserInput) string {
	days := input.Duration.Days()
	prefs := input.UniquePreferences()

	clauses := []promptClause{
		{true, fmt.Sprintf("Generate a detailed %d-day diet and nutrition plan in the %s language.", days, input.Language)},
		{true, fmt.Sprintf(`The plan is for a %d-year-old person, with the primary health condition of "%s".`, input.Age, input.Condition)},
		{!isBlank(input.Comorbidity), fmt.Sprintf(`They also have the following comorbidities: "%s".`, input.Comorbidity)},
		{!isBlank(input.Goals), fmt.Sprintf(`Their primary goals are: "%s".`, input.Goals)},
		{len(prefs) > 0, fmt.Sprintf("The diet must adhere to these preferences: %s.", joinPreferences(prefs))},
		{!isBlank(input.Allergies), fmt.Sprintf(`The person has the following allergies which must be strictly avoided: "%s".`, input.Allergies)},
	}

	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c.include {
			parts = append(parts, c.text)
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(parts, " "))
	b.WriteString("\n")
	if err := planTemplate.Execute(&b, planPromptData{Days: days, Language: input.Language}); err != nil {
		panic(fmt.Sprintf("planner: render prompt template: %v", err))
	}
	return b.String()
}

func joinPreferences(prefs []DietaryPreference) string {
	names := make([]string, len(prefs))
	for i, p := range prefs {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
