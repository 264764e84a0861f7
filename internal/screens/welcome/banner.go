package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/ui/theme"
)

const bannerArt = `
 ███╗   ███╗██╗   ██╗███████╗██╗ ██████╗    ██╗      █████╗ ██████╗
 ████╗ ████║██║   ██║██╔════╝██║██╔════╝    ██║     ██╔══██╗██╔══██╗
 ██╔████╔██║██║   ██║███████╗██║██║         ██║     ███████║██████╔╝
 ██║╚██╔╝██║██║   ██║╚════██║██║██║         ██║     ██╔══██║██╔══██╗
 ██║ ╚═╝ ██║╚██████╔╝███████║██║╚██████╗    ███████╗██║  ██║██████╔╝
 ╚═╝     ╚═╝ ╚═════╝ ╚══════╝╚═╝ ╚═════╝    ╚══════╝╚═╝  ╚═╝╚═════╝`

const bannerCompact = "M U S I C   L A B"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 70

// RenderBanner returns the MUSIC LAB banner styled in the primary color.
// Uses a compact fallback for narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
