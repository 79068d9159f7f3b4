package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title              lipgloss.Style
	Dim                lipgloss.Style
	Status             lipgloss.Style
	Filter             lipgloss.Style
	Help               lipgloss.Style
	Main               lipgloss.Style
	Highlight          lipgloss.Style
	Card               lipgloss.Style
	CardSelected       lipgloss.Style
	CardTitle          lipgloss.Style
	PageCurrent        lipgloss.Style
	PageLink           lipgloss.Style
	PageDisabled       lipgloss.Style
	Suggestions        lipgloss.Style
	SuggestionSelected lipgloss.Style
	Popup              lipgloss.Style
	StatusError        lipgloss.Style
	StatusLoading      lipgloss.Style
	StatusSuccess      lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Filter: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Help:   lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		CardSelected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		CardTitle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		PageCurrent:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("99")).Padding(0, 1),
		PageLink:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1),
		PageDisabled: lipgloss.NewStyle().Faint(true),
		Suggestions: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		SuggestionSelected: lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("226")),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(1, 2),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}

// CategoryColor returns a stable accent color for a category badge
func CategoryColor(category string) string {
	switch category {
	case "Beef", "Lamb", "Goat", "Pork":
		return "203" // red
	case "Chicken":
		return "214" // yellow
	case "Seafood":
		return "33" // blue
	case "Vegetarian", "Vegan":
		return "78" // green
	case "Dessert":
		return "213" // pink
	case "":
		return "241"
	default:
		return "51" // cyan
	}
}
