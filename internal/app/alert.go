package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriComplete/ui/components"
)

// alertModel shows a single message and exits on the first key press.
type alertModel struct {
	message string
	width   int
}

func (m alertModel) Init() tea.Cmd {
	return nil
}

func (m alertModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m alertModel) View() string {
	return components.RenderAlert(m.message, m.width)
}

// Alert blocks until the user dismisses message.
func Alert(message string) error {
	_, err := tea.NewProgram(alertModel{message: message, width: 64}).Run()
	return err
}
