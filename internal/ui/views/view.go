package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mealsexplorer/internal/domain"
	"mealsexplorer/internal/query"
)

// Messages shown in place of the card grid
const (
	FailedMessage = "Failed to load meals. Please try again."
	EmptyMessage  = "No meals found. Try a different search or category."
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width           int
	Height          int
	Page            query.PageView
	SearchInput     string // rendered search box
	SearchFocused   bool
	SuggestionIndex int // -1 when no suggestion is highlighted
	Selected        int // card index within the page
	Spinner         string
	ShowCategories  bool
	Categories      []string
	CategoryIndex   int
	Detail          *domain.Meal
	StatusMessage   string
	StatusIsError   bool
	HelpView        string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	cardRender  *CardRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		cardRender:  NewCardRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}
	page := state.Page

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n\n")

	content.WriteString(state.SearchInput)
	content.WriteString("\n")
	if state.SearchFocused && len(page.Suggestions) > 0 {
		content.WriteString(r.renderSuggestions(page.Suggestions, state.SuggestionIndex))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(r.renderCountLine(page))
	content.WriteString("\n\n")

	switch page.Status {
	case query.StatusFailed:
		content.WriteString(r.styles.StatusError.Render(FailedMessage))
	case query.StatusEmpty:
		content.WriteString(r.styles.Dim.Render(EmptyMessage))
		content.WriteString("\n\n")
		content.WriteString(r.renderPagination(page.Pagination))
	case query.StatusIdle:
		content.WriteString(r.styles.Dim.Render("Loading meals..."))
	default:
		content.WriteString(r.cardRender.RenderGrid(page.Meals, state.Selected, Columns(state.Width)))
		content.WriteString("\n\n")
		content.WriteString(r.renderPagination(page.Pagination))
	}

	if state.StatusMessage != "" {
		content.WriteString("\n\n")
		if state.StatusIsError {
			content.WriteString(r.styles.StatusError.Render(state.StatusMessage))
		} else {
			content.WriteString(r.styles.StatusSuccess.Render(state.StatusMessage))
		}
	}

	if state.HelpView != "" {
		content.WriteString("\n\n")
		content.WriteString(state.HelpView)
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	finalContent := mainStyle.Render(content.String())

	// Overlay popups on top of main content
	if state.ShowCategories {
		return r.popupRender.RenderPopupOverlay(finalContent, r.renderCategories(state), state.Height, state.Width)
	}
	if state.Detail != nil {
		return r.popupRender.RenderPopupOverlay(finalContent, RenderDetails(*state.Detail, 60), state.Height, state.Width)
	}
	return finalContent
}

// renderTitleLine renders the logo with loading and sort indicators on the right
func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("mealsexplorer")

	var indicators []string
	if state.Page.Loading {
		indicators = append(indicators, r.styles.StatusLoading.Render(strings.TrimSpace(state.Spinner+" Loading")))
	}
	indicators = append(indicators, r.styles.Filter.Render(fmt.Sprintf("[Sort: %s]", state.Page.SortOrder.Label())))
	right := strings.Join(indicators, "  ")

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderSuggestions(suggestions []domain.Suggestion, selected int) string {
	lines := make([]string, len(suggestions))
	for i, s := range suggestions {
		if i == selected {
			lines[i] = r.styles.SuggestionSelected.Render("› " + s.Name)
		} else {
			lines[i] = "  " + s.Name
		}
	}
	return r.styles.Suggestions.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) renderCountLine(page query.PageView) string {
	parts := []string{r.styles.Highlight.Render(page.CountLabel)}
	for _, f := range page.ActiveFilters {
		parts = append(parts, r.styles.Filter.Render(f))
	}
	return strings.Join(parts, r.styles.Dim.Render("  ·  "))
}

// renderPagination renders the prev/next controls, the page window and
// the "Page X / Y" label
func (r *Renderer) renderPagination(p query.Pagination) string {
	var parts []string

	if p.HasPrev {
		parts = append(parts, r.styles.PageLink.Render("‹ Prev"))
	} else {
		parts = append(parts, r.styles.PageDisabled.Render("‹ Prev"))
	}
	for _, n := range p.Window {
		label := fmt.Sprintf("%d", n)
		if n == p.CurrentPage {
			parts = append(parts, r.styles.PageCurrent.Render(label))
		} else {
			parts = append(parts, r.styles.PageLink.Render(label))
		}
	}
	if p.HasNext {
		parts = append(parts, r.styles.PageLink.Render("Next ›"))
	} else {
		parts = append(parts, r.styles.PageDisabled.Render("Next ›"))
	}

	bar := strings.Join(parts, " ")
	return bar + "   " + r.styles.Status.Render(fmt.Sprintf("Page %d / %d", p.CurrentPage, p.TotalPages))
}

func (r *Renderer) renderCategories(state ViewState) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Category"))
	b.WriteString("\n\n")

	options := append([]string{"All categories"}, state.Categories...)
	for i, name := range options {
		current := (i == 0 && state.Page.Category == "") || (i > 0 && name == state.Page.Category)
		marker := "  "
		if current {
			marker = "✓ "
		}
		line := marker + name
		if i == state.CategoryIndex {
			line = r.styles.SuggestionSelected.Render(line)
		}
		b.WriteString(line)
		if i < len(options)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
