package layout

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool   { return width < CompactWidthThreshold }
func IsCompactHeight(height int) bool { return height < CompactHeightThreshold }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"The stage is too small!\n\nResize to at least %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// HeaderStats is the progress summary on the right of the header.
type HeaderStats struct {
	Level  int
	XP     int
	Streak int
}

func (s HeaderStats) render() string {
	days := "days"
	if s.Streak == 1 {
		days = "day"
	}
	fg := func(c color.Color, text string) string {
		return lipgloss.NewStyle().Foreground(c).Render(text)
	}
	return strings.Join([]string{
		fg(theme.Gold, fmt.Sprintf("Lv %d", s.Level)),
		fg(theme.Secondary, fmt.Sprintf("%d XP", s.XP)),
		fg(theme.Accent, fmt.Sprintf("🔥 %d %s", s.Streak, days)),
	}, "  ")
}

// RenderHeader puts the app name left, the screen title centered and
// the stats right.
func RenderHeader(title string, stats HeaderStats, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ♪ Music Lab")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := stats.render()

	inner := max(0, width-4)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max(1, (inner-cw)/2-lw)
	rightGap := max(1, inner-lw-leftGap-cw-rw)

	return bar(left+strings.Repeat(" ", leftGap)+center+strings.Repeat(" ", rightGap)+right, width)
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar("  "+strings.Join(parts, "   "), width)
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFrame stacks header, content and footer, giving the content
// whatever height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
	body := lipgloss.NewStyle().Width(width).Height(h).Render(content)
	return header + "\n" + body + "\n" + footer
}
