// Package output provides styled terminal rendering helpers for the
// storefront CLI.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorSuccess is used for applied coupons and promotions.
	ColorSuccess = lipgloss.Color("#66bb6a")

	// ColorError is used for rejected coupons.
	ColorError = lipgloss.Color("#ef5350")

	// ColorHot marks HOT leads.
	ColorHot = lipgloss.Color("#ffa726")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	StyleHeader  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleHot     = lipgloss.NewStyle().Foreground(ColorHot).Bold(true)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleBold    = lipgloss.NewStyle().Bold(true)
	StyleLabel   = lipgloss.NewStyle().Width(18)
)

var noColor bool

// SetNoColor disables color output globally by swapping every style for an
// unstyled one.
func SetNoColor(disabled bool) {
	noColor = disabled
	if disabled {
		plain := lipgloss.NewStyle()
		StyleHeader = plain
		StyleSuccess = plain
		StyleError = plain
		StyleHot = plain
		StyleMuted = plain
		StyleBold = plain
		StyleLabel = plain.Width(18)
	}
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

// AutoColor disables color when w is not a terminal or NO_COLOR is set.
func AutoColor(w io.Writer) {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		SetNoColor(true)
		return
	}
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		SetNoColor(true)
	}
}
