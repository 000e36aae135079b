package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// PickerItem is one choice offered by PickItem.
type PickerItem struct {
	Label    string
	SubLabel string // dimmed detail, e.g. a chain ID
	Value    string
}

type pickerModel struct {
	title   string
	items   []PickerItem
	current string
	cursor  int

	chosen   string
	done     bool
	canceled bool
}

func newPicker(title string, items []PickerItem, current string) pickerModel {
	m := pickerModel{title: title, items: items, current: current}
	for i, it := range items {
		if it.Value == current {
			m.cursor = i
			break
		}
	}
	return m
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.items) == 0 {
		return m, nil
	}

	switch k := key.String(); k {
	case "q", "esc", "ctrl+c":
		m.canceled = true
		return m, tea.Quit
	case "up", "k", "shift+tab":
		m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % len(m.items)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.items) - 1
	case "enter", " ":
		return m.choose(m.cursor)
	default:
		// 1-9 pick directly.
		if n, err := strconv.Atoi(k); err == nil && n >= 1 && n <= len(m.items) {
			return m.choose(n - 1)
		}
	}
	return m, nil
}

func (m pickerModel) choose(i int) (tea.Model, tea.Cmd) {
	m.cursor = i
	m.chosen = m.items[i].Value
	m.done = true
	return m, tea.Quit
}

func (m pickerModel) View() string {
	if m.canceled || m.done {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n" + StyleTitle.Render("  "+m.title) + "\n")
	for i, item := range m.items {
		marker := "   "
		label := StyleValue.Render(item.Label)
		if i == m.cursor {
			marker = " ▸ "
			label = StyleSelected.Render(" " + item.Label + " ")
		}
		line := fmt.Sprintf("%s%s %s", marker, StyleMeta.Render(strconv.Itoa(i+1)+"."), label)
		if item.SubLabel != "" {
			line += "  " + StyleMeta.Render(item.SubLabel)
		}
		if item.Value == m.current {
			line += "  " + StyleSuccess.Render("current")
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n" + Meta("  [ ↑↓ ] move   [ 1-9 ] pick   [ enter ] select   [ q ] cancel") + "\n")
	return sb.String()
}

// PickItem shows items in a small interactive list, starting on current,
// and returns the chosen Value. A cancelled pick returns "" and no error.
func PickItem(title string, items []PickerItem, current string) (string, error) {
	if len(items) == 0 {
		return "", errors.New("nothing to pick from")
	}

	final, err := tea.NewProgram(newPicker(title, items, current)).Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}
	if m := final.(pickerModel); m.done {
		return m.chosen, nil
	}
	return "", nil
}
