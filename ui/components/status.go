package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/RoriComplete/internal/models"
	"github.com/Rorical/RoriComplete/ui/styles"
)

// StatusInfo is everything the status bar shows.
type StatusInfo struct {
	Phase       models.Phase
	SpinnerView string
	Selection   *models.Selection
	Usage       *openai.Usage
	Notice      string
}

func RenderStatus(info StatusInfo) string {
	var parts []string

	switch info.Phase.Kind {
	case models.Busy:
		parts = append(parts, styles.StatusStyle().Render(info.SpinnerView+" Generating"))
	case models.Failed:
		parts = append(parts, styles.ErrorStyle().Render(info.Phase.Message))
	default:
		if info.Selection != nil {
			parts = append(parts, styles.SelectionStyle().Render(
				fmt.Sprintf("+%d chars @ %d", info.Selection.Length, info.Selection.Start)))
		}
		if info.Usage != nil {
			parts = append(parts, styles.StatusStyle().Render(
				fmt.Sprintf("tokens %d/%d/%d", info.Usage.PromptTokens, info.Usage.CompletionTokens, info.Usage.TotalTokens)))
		}
	}

	if info.Notice != "" {
		parts = append(parts, styles.StatusStyle().Render(info.Notice))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
