package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tether.dev/cli/internal/core/templates"
)

// pickTemplate runs the interactive template picker and returns the chosen
// template ID.
func pickTemplate() (string, error) {
	model := newPickerModel(templates.Table())

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", fmt.Errorf("template picker failed: %w", err)
	}

	m, ok := final.(pickerModel)
	if !ok || m.choice == "" {
		return "", fmt.Errorf("no template selected")
	}
	return m.choice, nil
}

type pickerModel struct {
	items  []templates.Template
	cursor int
	choice string
}

func newPickerModel(items []templates.Template) pickerModel {
	return pickerModel{items: items}
}

// Init implements the Bubble Tea init method.
func (m pickerModel) Init() tea.Cmd {
	return nil
}

// Update implements the Bubble Tea update method.
func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}

		case "enter":
			m.choice = m.items[m.cursor].ID
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements the Bubble Tea view method.
func (m pickerModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Render("Select a template")

	selected := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	s := title + "\n\n"
	for i, t := range m.items {
		line := fmt.Sprintf("%s (%s) - %s", t.ID, t.Trigger, t.Description)
		if i == m.cursor {
			s += selected.Render("> "+line) + "\n"
		} else {
			s += "  " + line + "\n"
		}
	}
	s += "\n" + dim.Render("[↑↓] Navigate | [Enter] Select | [q] Quit") + "\n"
	return s
}
