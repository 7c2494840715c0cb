package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette shared by all memctl output.
var (
	ColorPass = lipgloss.Color("42")  // green
	ColorWarn = lipgloss.Color("214") // orange
	ColorFail = lipgloss.Color("196") // red
	ColorMute = lipgloss.Color("245") // grey
)

var (
	passStyle = lipgloss.NewStyle().Foreground(ColorPass).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(ColorFail).Bold(true)
	muteStyle = lipgloss.NewStyle().Foreground(ColorMute)
)

// colorEnabled is evaluated on every render; CLICOLOR_FORCE still wins over
// a dumb terminal profile.
func colorEnabled() bool {
	if !ShouldUseColor() {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

func render(style lipgloss.Style, s string) string {
	if !colorEnabled() {
		return s
	}
	return style.Render(s)
}

// RenderPass styles a success marker.
func RenderPass(s string) string { return render(passStyle, s) }

// RenderWarn styles a warning marker.
func RenderWarn(s string) string { return render(warnStyle, s) }

// RenderFail styles an error marker.
func RenderFail(s string) string { return render(failStyle, s) }

// RenderMuted styles de-emphasized detail text.
func RenderMuted(s string) string { return render(muteStyle, s) }
