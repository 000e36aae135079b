package ui

import "github.com/charmbracelet/lipgloss"

// Colors for plain command output. They follow the terminal background
// rather than the app theme, since subcommands have no theme provider.
var (
	ColorText    = adaptive(func(p Palette) string { return p.Text })
	ColorMuted   = adaptive(func(p Palette) string { return p.Muted })
	ColorAccent  = adaptive(func(p Palette) string { return p.Accent })
	ColorSuccess = adaptive(func(p Palette) string { return p.Success })
	ColorError   = adaptive(func(p Palette) string { return p.Danger })
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	ColorBorder  = adaptive(func(p Palette) string { return p.Border })
)

var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAccent  = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorAccent).
			Foreground(adaptive(func(p Palette) string { return p.Panel })).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)
)

func adaptive(pick func(Palette) string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: pick(LightPalette), Dark: pick(DarkPalette)}
}

// Banner returns the piggybank heading printed by subcommands.
func Banner() string {
	return StyleTitle.Render("🐷 PiggyBank") + "\n" +
		StyleMeta.Render("  save on Sepolia and Ethereum from your terminal") + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Hint formats a suggestion for the next command to run.
func Hint(msg string) string { return StyleMeta.Render("→ " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAccent.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }
