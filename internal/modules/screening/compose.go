package screening

import (
	"fmt"
	"strings"
)

// Compose renders the stored summary text for a result. Output depends only on r.
func Compose(r EvaluationResult) string {
	lines := []string{
		fmt.Sprintf("Risk Level: %s (%d/100)", r.RiskLevel, r.Percentage),
		"",
		r.Summary,
	}
	if len(r.Sections) > 0 {
		lines = append(lines, "", "Highlights:")
		for _, s := range r.Sections {
			lines = append(lines, fmt.Sprintf("• %s: %s", s.Title, s.Note))
		}
	}
	if len(r.Tips) > 0 {
		lines = append(lines, "", "Tips:")
		for _, t := range r.Tips {
			lines = append(lines, "• "+t)
		}
	}
	return strings.Join(lines, "\n")
}
