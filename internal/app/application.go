package app

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriComplete/internal/completion"
	"github.com/Rorical/RoriComplete/internal/config"
	"github.com/Rorical/RoriComplete/internal/core"
	"github.com/Rorical/RoriComplete/internal/models"
	"github.com/Rorical/RoriComplete/internal/update"
	"github.com/Rorical/RoriComplete/ui/styles"
)

// Application manages the complete application lifecycle
type Application struct {
	config  *config.Config
	logger  *slog.Logger
	service *core.CompletionService
	model   *AppModel
}

type AppModel struct {
	appModel models.AppModel
	composer *core.Composer
	keys     update.KeyMap
}

// NewApplication wires the completion client, the request service and the
// UI model. token must already have been loaded.
func NewApplication(cfg *config.Config, token string, logger *slog.Logger) *Application {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	client := completion.NewClient(cfg.BaseURL, cfg.Params(), cfg.Timeout, logger.With(slog.String("component", "client")))
	service := core.NewCompletionService(client, logger.With(slog.String("component", "service")))
	composer := core.NewComposer(service, token, cfg.SingleFlight)

	return &Application{
		config:  cfg,
		logger:  logger,
		service: service,
		model:   newAppModel(composer, update.DefaultKeyMap()),
	}
}

func (app *Application) Start() error {
	app.logger.Info("starting", slog.String("model", app.config.Model), slog.String("base_url", app.config.BaseURL))

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.logger.Info("stopped")
}

func newAppModel(composer *core.Composer, keys update.KeyMap) *AppModel {
	editor := textarea.New()
	editor.Placeholder = "Type a prompt, then press ctrl+s to complete it..."
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.Prompt = ""
	editor.KeyMap.Paste.SetEnabled(false)
	editor.Focus()

	composer.SetNormalizer(update.SanitizeText)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle()

	return &AppModel{
		appModel: models.AppModel{
			Editor:  editor,
			Spinner: sp,
			Help:    help.New(),
			Focus:   models.FocusEditor,
		},
		composer: composer,
		keys:     keys,
	}
}
