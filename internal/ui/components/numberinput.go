package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/musiclab/internal/ui/theme"
)

// NumberInput is a digits-only field on top of bubbles textinput. Parse
// marks it with a check or a cross.
type NumberInput struct {
	field  textinput.Model
	marked bool
	ok     bool
}

func NewNumberInput(placeholder string, maxDigits int) NumberInput {
	f := textinput.New()
	f.Placeholder = placeholder
	f.CharLimit = maxDigits
	f.Focus()
	return NumberInput{field: f}
}

func (n NumberInput) Focus() tea.Cmd { return n.field.Focus() }

// Update drops printable keys that are not digits.
func (n NumberInput) Update(msg tea.Msg) (NumberInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok && key.Text != "" {
		for _, r := range key.Text {
			if r < '0' || r > '9' {
				return n, nil
			}
		}
	}
	n.marked = false
	var cmd tea.Cmd
	n.field, cmd = n.field.Update(msg)
	return n, cmd
}

// Parse returns the entered number when it is at least min.
func (n *NumberInput) Parse(min int) (int, bool) {
	v, err := strconv.Atoi(n.field.Value())
	n.marked, n.ok = true, err == nil && v >= min
	return v, n.ok
}

func (n NumberInput) Value() string { return n.field.Value() }

func (n NumberInput) View() string {
	if !n.marked {
		return n.field.View()
	}
	mark := lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	if n.ok {
		mark = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	}
	return n.field.View() + " " + mark
}
