package update

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriComplete/internal/core"
	"github.com/Rorical/RoriComplete/internal/models"
)

// HandleUpdate routes one message after the composer has been ticked.
func HandleUpdate(appModel *models.AppModel, composer *core.Composer, keys KeyMap, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(appModel, composer, keys, msg)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
		return nil
	case spinner.TickMsg:
		return HandleSpinnerTick(appModel, composer, msg)
	case ResolvedMsg:
		// the composer already applied it during TickComposer
		return nil
	case CopiedMsg:
		HandleCopiedMsg(appModel, msg)
		return nil
	case PastedMsg:
		HandlePastedMsg(appModel, composer, msg)
		return nil
	}

	return UpdateEditor(appModel, composer, msg)
}
