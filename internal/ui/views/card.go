package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"mealsexplorer/internal/domain"
)

// CardWidth is the outer width of one meal card including its border
const CardWidth = 30

// maxColumns caps the grid width so a page of nine reads as 3x3
const maxColumns = 3

// CardRenderer renders meal cards and the grid that holds them
type CardRenderer struct {
	styles *Styles
}

// NewCardRenderer creates a new card renderer
func NewCardRenderer(styles *Styles) *CardRenderer {
	return &CardRenderer{styles: styles}
}

// Columns returns how many cards fit side by side in width
func Columns(width int) int {
	if width <= 0 {
		return maxColumns
	}
	return min(maxColumns, max(1, (width-4)/(CardWidth+1)))
}

// RenderCard renders one meal. Long names are truncated to the card width.
func (cr *CardRenderer) RenderCard(meal domain.Meal, selected bool) string {
	inner := CardWidth - 4 // border and padding

	name := ansi.Truncate(meal.Name, inner, "…")
	meta := meal.Category
	if meal.Area != "" {
		if meta != "" {
			meta += " · "
		}
		meta += meal.Area
	}
	if meta == "" {
		meta = "-"
	}
	meta = ansi.Truncate(meta, inner, "…")

	lines := []string{
		cr.styles.CardTitle.Render(name),
		lipgloss.NewStyle().Foreground(lipgloss.Color(CategoryColor(meal.Category))).Render(meta),
		cr.styles.Dim.Render("#" + meal.ID),
	}

	style := cr.styles.Card
	if selected {
		style = cr.styles.CardSelected
	}
	return style.Width(CardWidth - 2).Render(strings.Join(lines, "\n"))
}

// RenderGrid lays the cards out in rows of cols
func (cr *CardRenderer) RenderGrid(meals []domain.Meal, selected, cols int) string {
	if cols <= 0 {
		cols = 1
	}
	var rows []string
	for start := 0; start < len(meals); start += cols {
		end := min(start+cols, len(meals))
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, cr.RenderCard(meals[i], i == selected))
			if i < end-1 {
				cards = append(cards, " ")
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
