package theme

import (
	"charm.land/lipgloss/v2"
)

// Stage lights on a dark room.
var (
	Primary   = lipgloss.Color("#A855F7") // violet
	Secondary = lipgloss.Color("#06B6D4") // cyan
	Accent    = lipgloss.Color("#F59E0B") // amber, streaks and warnings
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")

	Gold = lipgloss.Color("#FACC15") // level-ups and the selected button
	Neon = lipgloss.Color("#22D3EE") // stats bar and playheads
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)

	// Hint is for key legends under an instrument.
	Hint = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
)

// Step sequencer cells.
var (
	StepOn     = lipgloss.NewStyle().Foreground(BgDark).Background(Secondary)
	StepOff    = lipgloss.NewStyle().Foreground(TextDim).Background(BgCard)
	StepCursor = lipgloss.NewStyle().Foreground(BgDark).Background(Gold).Bold(true)
	Playhead   = lipgloss.NewStyle().Foreground(BgDark).Background(Neon)
)
