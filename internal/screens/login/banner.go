package login

import (
	"charm.land/lipgloss/v2"

	"github.com/chemmaster/chemmaster/internal/ui/theme"
)

const bannerArt = `
  ██████╗██╗  ██╗███████╗███╗   ███╗
 ██╔════╝██║  ██║██╔════╝████╗ ████║
 ██║     ███████║█████╗  ██╔████╔██║
 ██║     ██╔══██║██╔══╝  ██║╚██╔╝██║
 ╚██████╗██║  ██║███████╗██║ ╚═╝ ██║
  ╚═════╝╚═╝  ╚═╝╚══════╝╚═╝     ╚═╝  MASTER`

const bannerCompact = "C H E M M A S T E R"

// RenderBanner returns the CHEM banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 52 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 52 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
