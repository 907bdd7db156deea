package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ai-diet-planner/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram rejects messages over 4096 characters.
const maxMessageLen = 4000

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// formatDay renders one day as a Markdown message of at most maxMessageLen
// runes. Every line opens and closes its own markup, so shortening a field or
// dropping trailing lines never leaves an entity unterminated.
func formatDay(day planner.DailyPlan) string {
	meals := day.Meals()
	steps := make([]string, len(meals))
	for i, m := range meals {
		steps[i] = oneLine(m.Meal.Instructions)
	}

	lines := dayLines(day.Day, meals, steps, -1)
	if linesLen(lines) <= maxMessageLen {
		return strings.Join(lines, "\n")
	}

	// Split the room left by the fixed lines evenly between the instructions.
	fixed := linesLen(dayLines(day.Day, meals, make([]string, len(meals)), -1))
	share := max((maxMessageLen-fixed)/len(meals), 1)
	lines = dayLines(day.Day, meals, steps, share)
	return strings.Join(fitLines(lines, maxMessageLen), "\n")
}

// dayLines renders a day one line at a time. stepLimit caps the escaped
// instruction text of each meal; a negative limit leaves it whole.
func dayLines(label string, meals []planner.LabeledMeal, steps []string, stepLimit int) []string {
	lines := []string{fmt.Sprintf("📅 *%s*", escape(oneLine(label)))}
	for i, m := range meals {
		lines = append(lines, "", fmt.Sprintf("*%s:* %s", m.Label, escape(oneLine(m.Meal.Name))))
		for _, ing := range m.Meal.Ingredients {
			lines = append(lines, "• "+escape(oneLine(ing)))
		}
		lines = append(lines, "_"+escapeWithin(steps[i], stepLimit)+"_")
	}
	return lines
}

// formatPlan renders a plan as one message per day.
func formatPlan(plan planner.DietPlan) []string {
	out := make([]string, 0, len(plan))
	for _, day := range plan {
		out = append(out, formatDay(day))
	}
	return out
}

func formatError(err error) string {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	return fmt.Sprintf("❌ *Error generating plan:*\n```\n%s\n```", safeErr)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// escapeWithin escapes s, cutting it at a rune boundary of the raw text so the
// result plus a trailing ellipsis stays within limit runes. A cut never splits
// an escape sequence.
func escapeWithin(s string, limit int) string {
	escaped := escape(s)
	if limit < 0 || utf8.RuneCountInString(escaped) <= limit {
		return escaped
	}

	var sb strings.Builder
	n := 0
	for _, r := range s {
		e := escape(string(r))
		c := utf8.RuneCountInString(e)
		if n+c > limit-1 {
			break
		}
		sb.WriteString(e)
		n += c
	}
	sb.WriteString("…")
	return sb.String()
}

// fitLines keeps whole lines while the joined text, and an ellipsis line when
// something was dropped, fits in limit runes.
func fitLines(lines []string, limit int) []string {
	if linesLen(lines) <= limit {
		return lines
	}
	n := utf8.RuneCountInString("…")
	for i, l := range lines {
		n += utf8.RuneCountInString(l) + 1
		if n > limit {
			return append(lines[:i:i], "…")
		}
	}
	return lines
}

// linesLen is the rune count of lines joined by newlines.
func linesLen(lines []string) int {
	if len(lines) == 0 {
		return 0
	}
	n := len(lines) - 1
	for _, l := range lines {
		n += utf8.RuneCountInString(l)
	}
	return n
}
