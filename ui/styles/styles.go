package styles

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("62")
	muted   = lipgloss.Color("241")
	errorFg = lipgloss.Color("203")
	success = lipgloss.Color("214")
)

func EditorStyle(width int, focused bool) lipgloss.Style {
	border := muted
	if focused {
		border = accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(width-4, 0))
}

func StatusStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Padding(0, 1)
}

func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(errorFg).
		Bold(true).
		Padding(0, 1)
}

// SelectionStyle marks the text most recently generated.
func SelectionStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(success).
		Padding(0, 1)
}

func SendButtonStyle(focused, enabled bool) lipgloss.Style {
	style := lipgloss.NewStyle().
		Padding(0, 2).
		Bold(true)
	switch {
	case !enabled:
		return style.Foreground(muted).Background(lipgloss.Color("236"))
	case focused:
		return style.Foreground(lipgloss.Color("230")).Background(accent).Underline(true)
	default:
		return style.Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238"))
	}
}

func SpinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(accent)
}

func AlertStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(errorFg).
		Padding(1, 2).
		Width(min(max(width-4, 20), 60))
}

func AlertIconStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(errorFg).
		Bold(true).
		PaddingRight(2)
}
