package components

import (
	"github.com/Rorical/RoriComplete/ui/styles"
)

func RenderEditor(editorView string, focused bool, width int) string {
	return styles.EditorStyle(width, focused).Render(editorView)
}

func RenderSendButton(focused, enabled bool) string {
	return styles.SendButtonStyle(focused, enabled).Render("Send")
}
