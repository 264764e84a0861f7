package components

import (
	tea "charm.land/bubbletea/v2"
)

type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu tracks the selection over a list of items. Arrow keys wrap and
// skip disabled items. Digits 1-9 pick the first nine items and 0 the
// tenth.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		return m, m.activate(m.Selected)
	default:
		if i, ok := shortcut(key.String()); ok && i < len(m.Items) && !m.Items[i].Disabled {
			m.Selected = i
			return m, m.activate(i)
		}
	}
	return m, nil
}

// move steps the selection by dir, wrapping around, to the next enabled
// item. It stays put when nothing else is enabled.
func (m *Menu) move(dir int) {
	n := len(m.Items)
	for step := 1; step <= n; step++ {
		i := ((m.Selected+dir*step)%n + n) % n
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func shortcut(k string) (int, bool) {
	if len(k) != 1 || k[0] < '0' || k[0] > '9' {
		return 0, false
	}
	if k[0] == '0' {
		return 9, true
	}
	return int(k[0] - '1'), true
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) || m.Items[i].Disabled || m.Items[i].Action == nil {
		return nil
	}
	return m.Items[i].Action()
}

func (m Menu) Labels() []string {
	out := make([]string, len(m.Items))
	for i, item := range m.Items {
		out[i] = item.Label
	}
	return out
}
