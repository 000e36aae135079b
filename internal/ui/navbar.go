package ui

import (
	"context"

	"github.com/Mohsinsiddi/piggybank/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

const brand = "PiggyBank"

// Navbar is the top bar: brand on the left, theme toggle on the right.
type Navbar struct {
	ctx   context.Context
	enter Entrance
}

// NewNavbar reads the theme from ctx, which must carry a theme provider.
func NewNavbar(ctx context.Context, enter Entrance) Navbar {
	return Navbar{ctx: ctx, enter: enter}
}

// ToggleLabel names the theme the toggle switches to.
func (n Navbar) ToggleLabel() string {
	if theme.MustFromContext(n.ctx).Theme().IsDark() {
		return "Light mode"
	}
	return "Dark mode"
}

// Toggle flips the theme.
func (n Navbar) Toggle() theme.Theme {
	return theme.MustFromContext(n.ctx).Toggle()
}

func (n Navbar) step() Navbar {
	n.enter = n.enter.Step()
	return n
}

func (n Navbar) View(p Palette, width int) string {
	p = p.Faded(n.enter.Progress())

	left := p.TextStyle().Bold(true).Render(brand)
	right := p.ButtonStyle(false, true).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(p.Border)).
		Render(n.ToggleLabel() + " (t)")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - n.enter.Offset()
	if gap < 1 {
		gap = 1
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Center, left, lipgloss.NewStyle().Width(gap).Render(""), right)

	return lipgloss.NewStyle().
		PaddingLeft(n.enter.Offset()).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color(p.Border)).
		Render(bar)
}
