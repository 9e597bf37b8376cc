package input

import (
	"github.com/atotto/clipboard"
	"github.com/kballard/go-shellquote"

	"vtcore/internal/grid"
)

// EncodePaste wraps text in bracketed-paste markers when the pane has
// requested them (CSI ?2004h), so shells and editors that support it treat
// the bytes as literal input rather than something to auto-indent or
// interpret keystroke-by-keystroke.
func (e *Encoder) EncodePaste(text string) []byte {
	if !e.g.Modes().Has(grid.ModeBracketedPaste) {
		return []byte(text)
	}
	out := make([]byte, 0, len(text)+16)
	out = append(out, "\x1b[200~"...)
	out = append(out, text...)
	out = append(out, "\x1b[201~"...)
	return out
}

// EncodeFileDrop shell-quotes one or more dropped file paths and joins them
// with spaces, the way a terminal emulator turns an OS drag-and-drop event
// into literal shell input.
func EncodeFileDrop(paths []string) string {
	return shellquote.Join(paths...)
}

// ReadClipboard returns the system clipboard's text contents.
func ReadClipboard() (string, error) {
	return clipboard.ReadAll()
}

// WriteClipboard sets the system clipboard to text, used by copy-mode and
// mouse-selection copy.
func WriteClipboard(text string) error {
	return clipboard.WriteAll(text)
}
