package core

import (
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/RoriComplete/internal/models"
)

// Submitter starts a request and returns its handle.
type Submitter interface {
	Submit(prompt, token string) *Handle
}

// Composer owns the prompt buffer and the single pending-request slot, and
// derives the UI phase from them. It is not safe for concurrent use; only
// the UI loop touches it.
type Composer struct {
	submitter    Submitter
	token        string
	singleFlight bool
	normalize    func(string) string

	prompt    string
	phase     models.Phase
	pending   *Handle
	selection *models.Selection

	lastCompletion string
	lastUsage      *openai.Usage
}

// NewComposer creates a composer in the Idle phase. With singleFlight set,
// Send is refused while a request is pending instead of superseding it.
func NewComposer(submitter Submitter, token string, singleFlight bool) *Composer {
	return &Composer{
		submitter:    submitter,
		token:        token,
		singleFlight: singleFlight,
		phase:        models.IdlePhase(),
	}
}

// SetNormalizer installs the rewrite the view applies to stored text, so an
// appended completion and its selection match what the view shows.
func (c *Composer) SetNormalizer(fn func(string) string) {
	c.normalize = fn
}

func (c *Composer) Prompt() string {
	return c.prompt
}

// SetPrompt records user edits.
func (c *Composer) SetPrompt(prompt string) {
	if prompt != c.prompt {
		c.selection = nil
	}
	c.prompt = prompt
}

func (c *Composer) Phase() models.Phase {
	return c.phase
}

func (c *Composer) Pending() *Handle {
	return c.pending
}

// Selection returns the range of the most recently appended completion.
func (c *Composer) Selection() (models.Selection, bool) {
	if c.selection == nil {
		return models.Selection{}, false
	}
	return *c.selection, true
}

func (c *Composer) LastCompletion() string {
	return c.lastCompletion
}

func (c *Composer) LastUsage() *openai.Usage {
	return c.lastUsage
}

// CanSend reports whether Send would start a request.
func (c *Composer) CanSend() bool {
	return !(c.singleFlight && c.pending != nil)
}

// Tick polls the pending handle and applies its outcome. It reports whether
// the prompt changed.
func (c *Composer) Tick() bool {
	if c.pending == nil {
		return false
	}

	outcome, ready := c.pending.Poll()
	if !ready {
		c.phase = models.BusyPhase()
		return false
	}
	c.pending = nil

	if outcome.Err != nil {
		c.phase = models.ErrorPhase(outcome.Err.Error())
		return false
	}
	if err := outcome.Response.Err(); err != nil {
		c.phase = models.ErrorPhase(err.Error())
		return false
	}

	text := outcome.Response.Completion.Text()
	if c.normalize != nil {
		text = c.normalize(text)
	}
	c.selection = &models.Selection{
		Start:  utf8.RuneCountInString(c.prompt),
		Length: utf8.RuneCountInString(text),
	}
	c.prompt += text
	c.lastCompletion = text
	if comp := outcome.Response.Completion; comp != nil {
		usage := comp.Usage
		c.lastUsage = &usage
	}
	c.phase = models.IdlePhase()
	return true
}

// Send submits the current prompt. A pending handle is replaced and its
// result will never be applied. Returns nil when single-flight refuses.
func (c *Composer) Send() *Handle {
	if !c.CanSend() {
		return nil
	}
	c.pending = c.submitter.Submit(c.prompt, c.token)
	c.phase = models.BusyPhase()
	return c.pending
}
