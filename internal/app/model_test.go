package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriComplete/internal/completion"
	"github.com/Rorical/RoriComplete/internal/core"
	"github.com/Rorical/RoriComplete/internal/models"
	"github.com/Rorical/RoriComplete/internal/update"
)

// gatedCompleter answers every request with resp once release is closed.
type gatedCompleter struct {
	release chan struct{}
	resp    completion.Response
	err     error
}

func (g *gatedCompleter) Encode(prompt string) ([]byte, error) {
	return []byte(prompt), nil
}

func (g *gatedCompleter) Send(ctx context.Context, body []byte, token string) (completion.Response, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return completion.Response{}, ctx.Err()
	}
	return g.resp, g.err
}

func newTestModel(t *testing.T, g *gatedCompleter, singleFlight bool) *AppModel {
	t.Helper()
	svc := core.NewCompletionService(g, nil)
	t.Cleanup(svc.Stop)
	m := newAppModel(core.NewComposer(svc, "sk-test", singleFlight), update.DefaultKeyMap())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func typeText(m *AppModel, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func waitResolved(t *testing.T, m *AppModel) {
	t.Helper()
	h := m.composer.Pending()
	require.NotNil(t, h)
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("request did not resolve")
	}
	m.Update(update.ResolvedMsg{ID: h.ID()})
}

func TestAppModel_EndToEndCompletion(t *testing.T) {
	g := &gatedCompleter{
		release: make(chan struct{}),
		resp: completion.Response{
			Kind: completion.Success,
			Completion: &completion.Completion{
				Choices: []openai.CompletionChoice{{Text: " time", FinishReason: "stop"}},
				Usage:   openai.Usage{PromptTokens: 3, CompletionTokens: 1, TotalTokens: 4},
			},
		},
	}
	m := newTestModel(t, g, false)

	typeText(m, "Once upon a")
	assert.Equal(t, "Once upon a", m.composer.Prompt())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.NotNil(t, cmd)
	assert.Equal(t, models.Busy, m.composer.Phase().Kind)
	assert.Contains(t, m.View(), "Generating")

	close(g.release)
	waitResolved(t, m)

	assert.Equal(t, models.Idle, m.composer.Phase().Kind)
	assert.Equal(t, "Once upon a time", m.composer.Prompt())
	assert.Equal(t, "Once upon a time", m.appModel.Editor.Value())
	sel, ok := m.composer.Selection()
	require.True(t, ok)
	assert.Equal(t, models.Selection{Start: 11, Length: 5}, sel)
	assert.Contains(t, m.View(), "+5 chars @ 11")
}

func TestAppModel_APIErrorShownAndBufferKept(t *testing.T) {
	g := &gatedCompleter{
		release: make(chan struct{}),
		resp: completion.Response{
			Kind:     completion.APIFailure,
			APIError: &openai.APIError{Message: "bad model", Type: "invalid_request_error"},
		},
	}
	close(g.release)
	m := newTestModel(t, g, false)

	typeText(m, "hello")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	waitResolved(t, m)

	assert.Equal(t, models.ErrorPhase("ERROR: invalid_request_error"), m.composer.Phase())
	assert.Equal(t, "hello", m.appModel.Editor.Value())
	assert.Contains(t, m.View(), "ERROR: invalid_request_error")
}

func TestAppModel_SendButtonViaFocus(t *testing.T) {
	g := &gatedCompleter{release: make(chan struct{})}
	m := newTestModel(t, g, false)
	typeText(m, "abc")

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, models.FocusSend, m.appModel.Focus)
	assert.False(t, m.appModel.Editor.Focused())

	// the shortcut only works while the editor has focus
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, m.composer.Pending())

	// typing does not reach the editor either
	typeText(m, "zzz")
	assert.Equal(t, "abc", m.composer.Prompt())

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, m.composer.Pending())
	assert.Equal(t, models.Busy, m.composer.Phase().Kind)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, models.FocusEditor, m.appModel.Focus)
	assert.True(t, m.appModel.Editor.Focused())
}

func TestAppModel_EditsWhileBusy(t *testing.T) {
	g := &gatedCompleter{
		release: make(chan struct{}),
		resp: completion.Response{
			Kind:       completion.Success,
			Completion: &completion.Completion{Choices: []openai.CompletionChoice{{Text: "!"}}},
		},
	}
	m := newTestModel(t, g, false)

	typeText(m, "Hi")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	typeText(m, " there")
	assert.Equal(t, models.Busy, m.composer.Phase().Kind)

	close(g.release)
	waitResolved(t, m)

	assert.Equal(t, "Hi there!", m.appModel.Editor.Value())
	sel, _ := m.composer.Selection()
	assert.Equal(t, models.Selection{Start: 8, Length: 1}, sel)
}

func TestAppModel_PasteIsSentAndKept(t *testing.T) {
	g := &gatedCompleter{
		release: make(chan struct{}),
		resp: completion.Response{
			Kind:       completion.Success,
			Completion: &completion.Completion{Choices: []openai.CompletionChoice{{Text: "!"}}},
		},
	}
	m := newTestModel(t, g, false)

	typeText(m, "Hi ")
	m.Update(update.PastedMsg{Text: "PASTED"})
	assert.Equal(t, "Hi PASTED", m.appModel.Editor.Value())
	assert.Equal(t, "Hi PASTED", m.composer.Prompt())

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	close(g.release)
	waitResolved(t, m)

	assert.Equal(t, "Hi PASTED!", m.appModel.Editor.Value())
	sel, _ := m.composer.Selection()
	assert.Equal(t, models.Selection{Start: 9, Length: 1}, sel)
}

func TestAppModel_CompletionWithTabsMatchesEditor(t *testing.T) {
	g := &gatedCompleter{
		release: make(chan struct{}),
		resp: completion.Response{
			Kind:       completion.Success,
			Completion: &completion.Completion{Choices: []openai.CompletionChoice{{Text: "\n\treturn\r\n"}}},
		},
	}
	close(g.release)
	m := newTestModel(t, g, false)

	typeText(m, "f(){")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	waitResolved(t, m)

	assert.Equal(t, "f(){\n    return\n\n", m.appModel.Editor.Value())
	assert.Equal(t, m.appModel.Editor.Value(), m.composer.Prompt())
	sel, _ := m.composer.Selection()
	assert.Equal(t, models.Selection{Start: 4, Length: 13}, sel)
}

func TestAppModel_SingleFlightNotice(t *testing.T) {
	g := &gatedCompleter{release: make(chan struct{})}
	m := newTestModel(t, g, true)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	first := m.composer.Pending()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Same(t, first, m.composer.Pending())
	assert.Equal(t, "A request is already in flight", m.appModel.Notice)
}

func TestAppModel_Quit(t *testing.T) {
	m := newTestModel(t, &gatedCompleter{release: make(chan struct{})}, false)

	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlQ} {
		_, cmd := m.Update(tea.KeyMsg{Type: k})
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok)
	}
}

func TestAlertModel_DismissOnKey(t *testing.T) {
	m := alertModel{message: completion.MissingCredentialMessage("openai.token"), width: 64}
	assert.Contains(t, m.View(), "openai.token")

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 100})
	assert.Nil(t, cmd)
	assert.Equal(t, 100, next.(alertModel).width)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
