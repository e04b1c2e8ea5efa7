// Package field implements the single-line text field used by the
// credential form, drawn onto a console.Screen.
package field

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ccboot/bootlogin/internal/console"
)

// Capacity is the maximum number of runes a field holds.
const Capacity = 63

// MaskRune replaces every character of a masked field on screen.
const MaskRune = '*'

// Editor is a bounded text buffer with a fixed on-screen window.
type Editor struct {
	input  textinput.Model
	row    int
	col    int
	width  int
	masked bool
}

// Options configure a new Editor.
type Options struct {
	Row, Col int
	Width    int
	// Masked draws MaskRune in place of each character.
	Masked bool
}

// New creates an editor seeded with value, truncated to Capacity runes, with
// the cursor after the last character.
func New(value string, opts Options) *Editor {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = Capacity
	in.Width = opts.Width
	if opts.Masked {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = MaskRune
	}
	in.SetValue(value)
	in.Focus()
	in.CursorEnd()

	return &Editor{
		input:  in,
		row:    opts.Row,
		col:    opts.Col,
		width:  opts.Width,
		masked: opts.Masked,
	}
}

// Edit applies one key to the buffer: printable keys insert at the cursor,
// backspace and delete remove, and the cursor keys move within the text.
func (e *Editor) Edit(k tea.KeyMsg) {
	e.input, _ = e.input.Update(k)
}

// Value returns the current contents.
func (e *Editor) Value() string {
	return e.input.Value()
}

// Position returns the cursor offset in runes.
func (e *Editor) Position() int {
	return e.input.Position()
}

// Draw renders the visible window of the buffer, padded to the field width,
// and leaves the screen cursor at the edit position.
func (e *Editor) Draw(s console.Screen) {
	runes := []rune(e.input.Value())
	if e.masked {
		runes = []rune(strings.Repeat(string(MaskRune), len(runes)))
	}

	pos := e.input.Position()
	offset := 0
	if pos >= e.width {
		offset = pos - e.width + 1
	}

	end := offset + e.width
	if end > len(runes) {
		end = len(runes)
	}
	visible := string(runes[offset:end])
	if pad := e.width - (end - offset); pad > 0 {
		visible += strings.Repeat(" ", pad)
	}

	console.PrintAt(s, e.row, e.col, console.AttrEdit, visible)
	s.MoveTo(e.row, e.col+pos-offset)
}
