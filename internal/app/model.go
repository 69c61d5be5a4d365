package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriComplete/internal/models"
	"github.com/Rorical/RoriComplete/internal/update"
	"github.com/Rorical/RoriComplete/ui/components"
)

func (m *AppModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update is one redraw tick: the pending request is polled first, then the
// message is handled.
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	update.TickComposer(&m.appModel, m.composer)
	cmd := update.HandleUpdate(&m.appModel, m.composer, m.keys, msg)
	return m, cmd
}

func (m *AppModel) View() string {
	var b strings.Builder

	b.WriteString(components.RenderEditor(m.appModel.Editor.View(), m.appModel.Focus == models.FocusEditor, m.appModel.Width))
	b.WriteString("\n")

	status := components.StatusInfo{
		Phase:       m.composer.Phase(),
		SpinnerView: m.appModel.Spinner.View(),
		Usage:       m.composer.LastUsage(),
		Notice:      m.appModel.Notice,
	}
	if sel, ok := m.composer.Selection(); ok {
		status.Selection = &sel
	}
	button := components.RenderSendButton(m.appModel.Focus == models.FocusSend, m.composer.CanSend())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, button, components.RenderStatus(status)))
	b.WriteString("\n")
	b.WriteString(m.appModel.Help.View(m.keys))

	return b.String()
}
