package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/ui/theme"
)

// eighths are the partial cells of a meter, from 1/8 to 7/8 full.
var eighths = []rune("▏▎▍▌▋▊▉")

// ProgressBar is a level meter with eighth-cell resolution. It turns
// green once full.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}
	suffix := ""
	if p.ShowPercent {
		suffix = fmt.Sprintf("  %d%%", int(p.Percent*100))
	}

	cells := max(4, p.Width-lipgloss.Width(b.String())-lipgloss.Width(suffix))
	b.WriteString(p.meter(cells))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix))
	return b.String()
}

func (p ProgressBar) meter(cells int) string {
	units := int(min(max(p.Percent, 0), 1) * float64(cells*8))
	full, part := units/8, units%8

	fill := theme.Secondary
	if full == cells {
		fill = theme.Success
	}

	bar := strings.Repeat("█", full)
	rest := cells - full
	if part > 0 {
		bar += string(eighths[part-1])
		rest--
	}
	return lipgloss.NewStyle().Foreground(fill).Background(theme.Border).
		Render(bar + strings.Repeat(" ", rest))
}
