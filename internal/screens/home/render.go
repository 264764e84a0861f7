package home

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/progress"
	"github.com/abhisek/musiclab/internal/ui/components"
	"github.com/abhisek/musiclab/internal/ui/theme"
)

const titleFull = `█▀▄▀█ █ █ █▀ █ █▀▀   █   ▄▀█ █▄▄
█ ▀ █ █▄█ ▄█ █ █▄▄   █▄▄ █▀█ █▄█`

const titleCompact = "♪ M U S I C   L A B ♪"

func renderTitle(cw int, compact bool) string {
	art := titleFull
	if compact || cw < 36 {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Gold).
		Bold(true).
		Render(art)
}

// renderStatsBar shows level, XP and streak in a double-bordered box.
func renderStatsBar(data progress.UserSessionData, cw int, compact bool) string {
	level := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	xp := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	streak := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			level.Render(fmt.Sprintf("Lv%d", data.Level)),
			xp.Render(fmt.Sprintf("%dXP", data.TotalXP)),
			streak.Render(fmt.Sprintf("🔥%d", data.Streak)))
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			level.Render(fmt.Sprintf("LEVEL %d", data.Level)),
			xp.Render(fmt.Sprintf("%d XP", data.TotalXP)),
			streak.Render(fmt.Sprintf("🔥 %d DAY STREAK", data.Streak)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Neon).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderGoals shows the level and weekly-goal bars.
func renderGoals(data progress.UserSessionData, cw int) string {
	lp := progress.LevelProgressFor(data.TotalXP)
	wp := progress.WeeklyProgressFor(data)

	levelBar := components.NewProgressBar(
		fmt.Sprintf("Next level %3d XP", lp.XPToNext), float64(lp.Percent)/100, true, cw)
	weekBar := components.NewProgressBar(
		fmt.Sprintf("Week %4.1f/%d min", wp.Minutes, wp.Goal), float64(wp.Percent)/100, true, cw)

	return levelBar.View() + "\n" + weekBar.View()
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

func renderNote(text string, cw int, fg color.Color) string {
	return lipgloss.NewStyle().
		Foreground(fg).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}
