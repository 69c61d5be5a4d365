package models

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
)

// Focus names the widget that receives key input.
type Focus int

const (
	FocusEditor Focus = iota
	FocusSend
)

// AppModel represents the UI state - only local UI concerns. The prompt
// text itself lives in the composer; Editor mirrors it for display and input.
type AppModel struct {
	Editor  textarea.Model
	Spinner spinner.Model
	Help    help.Model
	Focus   Focus
	Notice  string // transient status text, cleared by the next key press
	Width   int
	Height  int
}
