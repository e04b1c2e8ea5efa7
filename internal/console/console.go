package console

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// Attr selects how subsequently printed text is rendered, in the manner of a
// curses colour pair.
type Attr int

const (
	// AttrNormal is plain text.
	AttrNormal Attr = iota
	// AttrSelected is the inverse attribute used for the highlighted menu row.
	AttrSelected
	// AttrLabel is used for field labels.
	AttrLabel
	// AttrEdit is used for editable field contents.
	AttrEdit
	// AttrHelp is used for the key help footer.
	AttrHelp
)

// String returns the attribute name
func (a Attr) String() string {
	switch a {
	case AttrNormal:
		return "normal"
	case AttrSelected:
		return "selected"
	case AttrLabel:
		return "label"
	case AttrEdit:
		return "edit"
	case AttrHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Screen is a character-cell display. Rows and columns are 0-based.
type Screen interface {
	// Size returns the console width and height in cells.
	Size() (cols, lines int)
	// MoveTo positions the cursor.
	MoveTo(row, col int)
	// SetAttr selects the attribute for subsequent prints.
	SetAttr(attr Attr)
	// Print writes s at the cursor and returns the number of cells written.
	Print(s string) int
	// Erase clears the whole screen.
	Erase()
}

// Input is a source of decoded keys.
type Input interface {
	// KeyReady reports whether ReadKey would return without waiting.
	KeyReady() bool
	// ReadKey consumes and returns the next key.
	ReadKey() tea.KeyMsg
}

// ErrInputClosed is returned by WaitKey once the input has ended.
var ErrInputClosed = errors.New("console input closed")

// closer is implemented by inputs that can end, such as a terminal whose
// descriptor reached EOF.
type closer interface {
	Closed() bool
}

// Clock is a monotonic tick source.
type Clock interface {
	Ticks() uint64
	TicksPerSecond() uint64
}

// Scheduler yields to other cooperative work between polls.
type Scheduler interface {
	Step()
}

// Console bundles the devices used by an interactive session.
type Console struct {
	Screen    Screen
	Input     Input
	Clock     Clock
	Scheduler Scheduler
}

// WaitKey polls for a key, yielding between polls, and consumes it.
// It returns ctx.Err() if the context ends first and ErrInputClosed if the
// input ends with no key left.
func (c *Console) WaitKey(ctx context.Context) (tea.KeyMsg, error) {
	for !c.Input.KeyReady() {
		if err := ctx.Err(); err != nil {
			return tea.KeyMsg{}, err
		}
		if cl, ok := c.Input.(closer); ok && cl.Closed() {
			return tea.KeyMsg{}, ErrInputClosed
		}
		c.Scheduler.Step()
	}
	return c.Input.ReadKey(), nil
}

// PrintAt moves the cursor and prints s with the given attribute.
func PrintAt(s Screen, row, col int, attr Attr, text string) int {
	s.MoveTo(row, col)
	s.SetAttr(attr)
	return s.Print(text)
}

// Printable returns the single rune carried by a printable key.
func Printable(k tea.KeyMsg) (rune, bool) {
	if k.Type != tea.KeyRunes || k.Alt || len(k.Runes) != 1 {
		return 0, false
	}
	r := k.Runes[0]
	if r < ' ' || r == utf8.RuneError {
		return 0, false
	}
	return r, true
}

// SystemClock is a Clock backed by the runtime's monotonic clock, counting
// milliseconds since creation.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock whose tick zero is now.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Ticks returns the milliseconds elapsed since the clock was created.
func (c *SystemClock) Ticks() uint64 {
	return uint64(time.Since(c.start) / time.Millisecond)
}

// TicksPerSecond returns 1000.
func (c *SystemClock) TicksPerSecond() uint64 {
	return 1000
}

// SleepScheduler yields by sleeping for a fixed interval.
type SleepScheduler struct {
	Interval time.Duration
}

// Step sleeps for the configured interval.
func (s SleepScheduler) Step() {
	time.Sleep(s.Interval)
}
