package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriComplete/ui/styles"
)

func RenderAlert(message string, width int) string {
	box := styles.AlertStyle(width)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.AlertIconStyle().Render("⚠"),
		lipgloss.NewStyle().Width(max(box.GetWidth()-8, 10)).Render(message),
	)
	footer := styles.StatusStyle().Render("Press any key to exit")
	return box.Render(lipgloss.JoinVertical(lipgloss.Center, body, "", footer))
}
