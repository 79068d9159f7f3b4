package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mealsexplorer/internal/domain"
)

// RenderDetails renders the full record of a meal for the detail popup
// and the pager. Instructions are wrapped at width.
func RenderDetails(meal domain.Meal, width int) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	var b strings.Builder

	b.WriteString(titleStyle.Render(meal.Name))
	b.WriteString("\n")

	field := func(name, value string) {
		if value != "" {
			b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render(name+":"), value))
		}
	}
	field("Category", meal.Category)
	field("Area", meal.Area)
	field("Tags", strings.Join(meal.Tags, ", "))
	field("Video", meal.YouTubeURL)
	field("Source", meal.SourceURL)

	if len(meal.Ingredients) > 0 {
		b.WriteString(sectionStyle.Render("Ingredients"))
		b.WriteString("\n")
		for _, ing := range meal.Ingredients {
			if ing.Measure != "" {
				b.WriteString(fmt.Sprintf("  • %s %s\n", keyStyle.Render(ing.Measure), ing.Name))
			} else {
				b.WriteString(fmt.Sprintf("  • %s\n", ing.Name))
			}
		}
	}

	if meal.Instructions != "" {
		b.WriteString(sectionStyle.Render("Instructions"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(strings.TrimSpace(meal.Instructions)))
	}

	return strings.TrimRight(b.String(), "\n")
}
