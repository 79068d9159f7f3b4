package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay renders a popup centered on top of main content,
// which is greyed out around it
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int) string {
	popup := pr.styles.Popup.Render(popupContent)

	modalW := lipgloss.Width(popup)
	modalH := lipgloss.Height(popup)
	x := max(0, (width-modalW)/2)
	y := max(0, (height-modalH)/2)

	base := strings.Split(desaturate(mainContent), "\n")
	for len(base) < y+modalH {
		base = append(base, "")
	}

	grey := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	for i, line := range strings.Split(popup, "\n") {
		row := ansi.Strip(base[y+i])
		left := ansi.Truncate(row, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(row, x+modalW, "")
		base[y+i] = grey.Render(left) + line + grey.Render(right)
	}
	return strings.Join(base, "\n")
}

// desaturate strips ANSI color/style codes and recolors text dim gray
func desaturate(s string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = style.Render(ansi.Strip(line))
	}
	return strings.Join(lines, "\n")
}
