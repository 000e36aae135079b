package ui

import (
	"github.com/Mohsinsiddi/piggybank/internal/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette is the set of colors a theme resolves to. Values are hex strings so
// they can be blended.
type Palette struct {
	Theme      theme.Theme
	Background string
	Panel      string
	Text       string
	Muted      string
	Accent     string
	Border     string
	Danger     string
	Success    string
}

var (
	LightPalette = Palette{
		Theme:      theme.Light,
		Background: "#F7F7FB",
		Panel:      "#FFFFFF",
		Text:       "#1F2330",
		Muted:      "#6B7280",
		Accent:     "#DB2777",
		Border:     "#D9DCE3",
		Danger:     "#DC2626",
		Success:    "#15803D",
	}

	DarkPalette = Palette{
		Theme:      theme.Dark,
		Background: "#0B0F17",
		Panel:      "#111827",
		Text:       "#E5E7EB",
		Muted:      "#9CA3AF",
		Accent:     "#F472B6",
		Border:     "#2A3446",
		Danger:     "#F87171",
		Success:    "#4ADE80",
	}
)

// PaletteFor returns the palette of t. Unknown themes get the light palette.
func PaletteFor(t theme.Theme) Palette {
	if t.IsDark() {
		return DarkPalette
	}
	return LightPalette
}

// PaletteFromDocument resolves the palette from the document's data-theme
// attribute, the way a stylesheet keyed on that attribute would.
func PaletteFromDocument(d *Document) Palette {
	t, err := theme.Parse(d.Attr(theme.Attribute))
	if err != nil {
		return LightPalette
	}
	return PaletteFor(t)
}

// Faded blends every foreground color toward the background. progress 0 is
// invisible, 1 is the palette itself.
func (p Palette) Faded(progress float64) Palette {
	if progress >= 1 {
		return p
	}
	f := p
	f.Text = Blend(p.Background, p.Text, progress)
	f.Muted = Blend(p.Background, p.Muted, progress)
	f.Accent = Blend(p.Background, p.Accent, progress)
	f.Border = Blend(p.Background, p.Border, progress)
	f.Danger = Blend(p.Background, p.Danger, progress)
	f.Success = Blend(p.Background, p.Success, progress)
	return f
}

// Blend mixes two hex colors in Lab space. t is clamped to [0, 1]. When
// either input does not parse, to is returned as is.
func Blend(from, to string, t float64) string {
	t = max(0, min(1, t))
	a, err := colorful.Hex(from)
	if err != nil {
		return to
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return to
	}
	return a.BlendLab(b, t).Clamped().Hex()
}

func (p Palette) fg(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

func (p Palette) TextStyle() lipgloss.Style   { return p.fg(p.Text) }
func (p Palette) MutedStyle() lipgloss.Style  { return p.fg(p.Muted) }
func (p Palette) AccentStyle() lipgloss.Style { return p.fg(p.Accent).Bold(true) }
func (p Palette) DangerStyle() lipgloss.Style { return p.fg(p.Danger) }

// TitleStyle is used for panel headings.
func (p Palette) TitleStyle() lipgloss.Style {
	return p.fg(p.Text).Bold(true).MarginBottom(1)
}

// PanelStyle frames a section. width is the outer width including the border;
// 0 leaves the panel unsized.
func (p Palette) PanelStyle(width int) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.Border)).
		Padding(0, 1)
	if width > 2 {
		s = s.Width(width - 2)
	}
	return s
}

// ButtonStyle renders a button in one of its three looks.
func (p Palette) ButtonStyle(focused, enabled bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	switch {
	case !enabled:
		return s.Foreground(lipgloss.Color(p.Muted)).Faint(true)
	case focused:
		return s.Foreground(lipgloss.Color(p.Panel)).Background(lipgloss.Color(p.Accent)).Bold(true)
	default:
		return s.Foreground(lipgloss.Color(p.Accent)).Bold(true)
	}
}
