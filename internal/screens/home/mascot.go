package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // just leveled up
	MascotAlert                     // streak ends unless they practice today
)

const mascotIdle = ` ╭─────╮
╭┤ ◉ ◉ ├╮
││  ◡  ││
╰┤ ♪ ♫ ├╯
 ╰─────╯`

const mascotCelebrating = ` ╭─────╮
╭┤ ★ ★ ├╮
││  ▽  ││
╰┤ ♫ ♫ ├╯
 ╰─╥═╥─╯
   ╚═╝`

const mascotAlert = ` ╭─────╮
╭┤ ◉ ◉ ├╮ !
││  ○  ││
╰┤ ♪ ♫ ├╯
 ╰─────╯`

// RenderMascot returns the mascot art for variant.
func RenderMascot(variant MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch variant {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Gold
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
