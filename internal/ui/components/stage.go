package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used inside a stage frame.
func ContentWidth(frameWidth int) int {
	// border (2) + inner padding (4)
	return min(64, max(20, frameWidth-6))
}

// StageFrame wraps content in a double border centered in width x height.
func StageFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Panel wraps content in a rounded card at content width cw.
func Panel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(content)
}

// Buttons renders labels as a vertical list with the selected entry
// highlighted. A badge is appended to the label at index badged, if any.
func Buttons(labels []string, selected, badged int, badge string, cw int) string {
	lines := make([]string, len(labels))
	for i, label := range labels {
		if i == badged && badge != "" {
			label += " " + badge
		}
		label = shortcutLabel(i) + label
		if i == selected {
			lines[i] = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Gold).
				Bold(true).
				Render(" ▸ " + label + " ")
		} else {
			lines[i] = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label + " ")
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// shortcutLabel is the digit Menu binds to item i, or padding past ten.
func shortcutLabel(i int) string {
	switch {
	case i < 9:
		return string(rune('1'+i)) + "  "
	case i == 9:
		return "0  "
	}
	return "   "
}
