package console

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/ccboot/bootlogin/internal/logging"
)

// Fallback size when the output is not a terminal.
const (
	DefaultCols  = 80
	DefaultLines = 25
)

// keyQueueSize bounds how far input may run ahead of the interactive loop.
const keyQueueSize = 64

// Terminal implements Screen and Input on a real tty.
type Terminal struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int

	output   *termenv.Output
	renderer *lipgloss.Renderer
	styles   map[Attr]lipgloss.Style
	attr     Attr

	saved   *term.State
	keys    chan tea.KeyMsg
	pending *tea.KeyMsg
	eof     bool
}

// OpenTerminal switches in to raw mode, enters the alternate screen on out
// and starts decoding keys from in. Close must be called to restore the tty.
func OpenTerminal(in, out *os.File) (*Terminal, error) {
	inFd := int(in.Fd())
	if !term.IsTerminal(inFd) {
		return nil, errors.New("console input is not a terminal")
	}

	saved, err := term.MakeRaw(inFd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}

	renderer := lipgloss.NewRenderer(out)
	t := &Terminal{
		in:       in,
		out:      out,
		inFd:     inFd,
		outFd:    int(out.Fd()),
		output:   termenv.NewOutput(out),
		renderer: renderer,
		styles:   attrStyles(renderer),
		saved:    saved,
		keys:     make(chan tea.KeyMsg, keyQueueSize),
	}

	t.output.AltScreen()
	t.output.ClearScreen()

	go t.readLoop()

	return t, nil
}

// attrStyles maps attributes to styles. Colours follow the classic pre-boot
// palette: white on black, inverse for selection, white on blue for edits.
func attrStyles(r *lipgloss.Renderer) map[Attr]lipgloss.Style {
	return map[Attr]lipgloss.Style{
		AttrNormal: r.NewStyle().
			Foreground(lipgloss.Color("7")).
			Background(lipgloss.Color("0")),
		AttrSelected: r.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("7")),
		AttrLabel: r.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true),
		AttrEdit: r.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("4")),
		AttrHelp: r.NewStyle().
			Foreground(lipgloss.Color("8")),
	}
}

// readLoop decodes input until the descriptor is closed. It is the only
// goroutine owned by the terminal and it never touches the screen.
func (t *Terminal) readLoop() {
	buf := make([]byte, 256)
	var carry []byte
	for {
		n, err := t.in.Read(buf)
		if n > 0 {
			logging.LogRawBytes("Terminal input", buf[:n])
			var keys []tea.KeyMsg
			keys, carry = DecodeKeys(append(carry, buf[:n]...))
			for _, k := range keys {
				t.keys <- k
			}
		}
		if err != nil {
			close(t.keys)
			return
		}
	}
}

// Size returns the terminal size, or 80x25 if it cannot be determined.
func (t *Terminal) Size() (int, int) {
	cols, lines, err := term.GetSize(t.outFd)
	if err != nil || cols <= 0 || lines <= 0 {
		return DefaultCols, DefaultLines
	}
	return cols, lines
}

// MoveTo positions the cursor (0-based).
func (t *Terminal) MoveTo(row, col int) {
	t.output.MoveCursor(row+1, col+1)
}

// SetAttr selects the attribute for subsequent prints.
func (t *Terminal) SetAttr(attr Attr) {
	t.attr = attr
}

// Print renders s in the current attribute.
func (t *Terminal) Print(s string) int {
	style, ok := t.styles[t.attr]
	if !ok {
		style = t.styles[AttrNormal]
	}
	_, _ = fmt.Fprint(t.out, style.Render(s))
	return lipgloss.Width(s)
}

// Erase clears the screen and homes the cursor.
func (t *Terminal) Erase() {
	t.output.ClearScreen()
}

// KeyReady reports whether a decoded key is waiting.
func (t *Terminal) KeyReady() bool {
	if t.pending != nil {
		return true
	}
	if t.eof {
		return false
	}
	select {
	case k, ok := <-t.keys:
		if !ok {
			t.eof = true
			return false
		}
		t.pending = &k
		return true
	default:
		return false
	}
}

// Closed reports whether input has ended and every key has been read.
func (t *Terminal) Closed() bool {
	return t.eof && t.pending == nil
}

// ReadKey returns the next key, waiting for one if necessary. After input
// ends it returns the zero key.
func (t *Terminal) ReadKey() tea.KeyMsg {
	if t.pending != nil {
		k := *t.pending
		t.pending = nil
		return k
	}
	if t.eof {
		return tea.KeyMsg{}
	}
	k, ok := <-t.keys
	if !ok {
		t.eof = true
		return tea.KeyMsg{}
	}
	return k
}

// Close leaves the alternate screen and restores the tty mode. The reader
// goroutine stays parked in Read until the process exits.
func (t *Terminal) Close() error {
	t.output.Reset()
	t.output.ExitAltScreen()
	t.output.ShowCursor()
	if err := term.Restore(t.inFd, t.saved); err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}
	return nil
}
