package update

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/runeutil"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriComplete/internal/core"
	"github.com/Rorical/RoriComplete/internal/models"
)

// Rows taken by the status bar and help line below the editor, plus the
// editor's own border.
const (
	chromeHeight = 4
	chromeWidth  = 6
)

// ResolvedMsg is delivered when a request handle resolves, so the composer
// is ticked even if the user is idle.
type ResolvedMsg struct {
	ID string
}

// CopiedMsg reports the result of a clipboard write.
type CopiedMsg struct {
	Err error
}

// PastedMsg carries clipboard text read for a paste.
type PastedMsg struct {
	Text string
	Err  error
}

var (
	writeClipboard = clipboard.WriteAll
	readClipboard  = clipboard.ReadAll
)

// editorSanitizer is the textarea's own default, so text placed into the
// editor can be rewritten before anything counts its runes.
var editorSanitizer = runeutil.NewSanitizer()

// SanitizeText rewrites text the way the editor stores it: tabs become four
// spaces, each carriage return becomes a newline and other control
// characters are dropped.
func SanitizeText(text string) string {
	return string(editorSanitizer.Sanitize([]rune(text)))
}

// WaitForHandle blocks on h in a command goroutine and reports its
// resolution.
func WaitForHandle(h *core.Handle) tea.Cmd {
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		<-h.Done()
		return ResolvedMsg{ID: h.ID()}
	}
}

func CopyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{Err: writeClipboard(text)}
	}
}

func PasteCmd() tea.Msg {
	text, err := readClipboard()
	return PastedMsg{Text: text, Err: err}
}

// TickComposer polls the pending request once per update and mirrors an
// appended completion into the editor, leaving the cursor at its end.
func TickComposer(appModel *models.AppModel, composer *core.Composer) {
	if composer.Tick() {
		appModel.Editor.SetValue(composer.Prompt())
	}
}

// HandleKeyMsg handles keyboard input
func HandleKeyMsg(appModel *models.AppModel, composer *core.Composer, keys KeyMap, keyMsg tea.KeyMsg) tea.Cmd {
	appModel.Notice = ""

	switch {
	case key.Matches(keyMsg, keys.Quit):
		return tea.Quit
	case key.Matches(keyMsg, keys.Focus):
		return toggleFocus(appModel)
	case key.Matches(keyMsg, keys.Copy):
		text := composer.LastCompletion()
		if text == "" {
			appModel.Notice = "Nothing to copy yet"
			return nil
		}
		return CopyCmd(text)
	}

	if appModel.Focus == models.FocusSend {
		if key.Matches(keyMsg, keys.Press) {
			return send(appModel, composer)
		}
		return nil
	}

	switch {
	case key.Matches(keyMsg, keys.Send):
		return send(appModel, composer)
	case key.Matches(keyMsg, keys.Paste):
		return PasteCmd
	}

	return UpdateEditor(appModel, composer, keyMsg)
}

// UpdateEditor forwards msg to the editor and records any resulting change
// of its text as a user edit.
func UpdateEditor(appModel *models.AppModel, composer *core.Composer, msg tea.Msg) tea.Cmd {
	before := appModel.Editor.Value()
	var cmd tea.Cmd
	appModel.Editor, cmd = appModel.Editor.Update(msg)
	if after := appModel.Editor.Value(); after != before {
		composer.SetPrompt(after)
	}
	return cmd
}

// HandlePastedMsg inserts clipboard text at the cursor.
func HandlePastedMsg(appModel *models.AppModel, composer *core.Composer, msg PastedMsg) {
	if msg.Err != nil {
		appModel.Notice = "Paste failed: " + msg.Err.Error()
		return
	}
	if appModel.Focus != models.FocusEditor {
		return
	}
	before := appModel.Editor.Value()
	appModel.Editor.InsertString(msg.Text)
	if after := appModel.Editor.Value(); after != before {
		composer.SetPrompt(after)
	}
}

func send(appModel *models.AppModel, composer *core.Composer) tea.Cmd {
	wasBusy := composer.Phase().Kind == models.Busy
	h := composer.Send()
	if h == nil {
		appModel.Notice = "A request is already in flight"
		return nil
	}

	cmds := []tea.Cmd{WaitForHandle(h)}
	if !wasBusy {
		cmds = append(cmds, appModel.Spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func toggleFocus(appModel *models.AppModel) tea.Cmd {
	if appModel.Focus == models.FocusEditor {
		appModel.Focus = models.FocusSend
		appModel.Editor.Blur()
		return nil
	}
	appModel.Focus = models.FocusEditor
	return appModel.Editor.Focus()
}

func HandleSpinnerTick(appModel *models.AppModel, composer *core.Composer, msg spinner.TickMsg) tea.Cmd {
	// let the tick chain die once nothing is pending
	if composer.Phase().Kind != models.Busy {
		return nil
	}
	var cmd tea.Cmd
	appModel.Spinner, cmd = appModel.Spinner.Update(msg)
	return cmd
}

func HandleCopiedMsg(appModel *models.AppModel, msg CopiedMsg) {
	if msg.Err != nil {
		appModel.Notice = "Copy failed: " + msg.Err.Error()
		return
	}
	appModel.Notice = "Copied completion to clipboard"
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
	appModel.Help.Width = sizeMsg.Width

	appModel.Editor.SetWidth(max(sizeMsg.Width-chromeWidth, 10))
	appModel.Editor.SetHeight(max(sizeMsg.Height-chromeHeight, 3))
}
