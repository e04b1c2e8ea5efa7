// Package consoletest provides simulated console devices for tests.
//
// Screen keeps a cell grid with a per-cell attribute and a log of every
// print. Device is an Input, Clock and Scheduler in one: keys are scheduled
// at tick times and every Step advances the clock, so countdown logic runs
// deterministically without sleeping.
package consoletest

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ccboot/bootlogin/internal/console"
)

// Cell is one character position on the simulated screen.
type Cell struct {
	Ch   rune
	Attr console.Attr
}

// PrintOp records a single Print call.
type PrintOp struct {
	Row, Col int
	Attr     console.Attr
	Text     string
}

// Screen is an in-memory console.Screen.
type Screen struct {
	cols, lines int
	cells       [][]Cell
	row, col    int
	attr        console.Attr

	Prints []PrintOp
	Erases int
}

// NewScreen creates a blank screen of the given size.
func NewScreen(cols, lines int) *Screen {
	s := &Screen{cols: cols, lines: lines}
	s.clear()
	return s
}

func (s *Screen) clear() {
	s.cells = make([][]Cell, s.lines)
	for r := range s.cells {
		s.cells[r] = make([]Cell, s.cols)
		for c := range s.cells[r] {
			s.cells[r][c] = Cell{Ch: ' '}
		}
	}
}

// Size implements console.Screen.
func (s *Screen) Size() (int, int) { return s.cols, s.lines }

// MoveTo implements console.Screen.
func (s *Screen) MoveTo(row, col int) {
	s.row, s.col = row, col
}

// SetAttr implements console.Screen.
func (s *Screen) SetAttr(attr console.Attr) { s.attr = attr }

// Print implements console.Screen. Text past the right edge is dropped.
func (s *Screen) Print(text string) int {
	s.Prints = append(s.Prints, PrintOp{Row: s.row, Col: s.col, Attr: s.attr, Text: text})
	n := 0
	for _, r := range text {
		if s.row >= 0 && s.row < s.lines && s.col >= 0 && s.col < s.cols {
			s.cells[s.row][s.col] = Cell{Ch: r, Attr: s.attr}
		}
		s.col++
		n++
	}
	return n
}

// Erase implements console.Screen.
func (s *Screen) Erase() {
	s.Erases++
	s.clear()
	s.row, s.col = 0, 0
}

// Cursor returns the current cursor position.
func (s *Screen) Cursor() (int, int) { return s.row, s.col }

// Line returns the full text of a row.
func (s *Screen) Line(row int) string {
	var b strings.Builder
	for _, c := range s.cells[row] {
		b.WriteRune(c.Ch)
	}
	return b.String()
}

// Text returns the text of a row without trailing blanks.
func (s *Screen) Text(row int) string {
	return strings.TrimRight(s.Line(row), " ")
}

// AttrAt returns the attribute of one cell.
func (s *Screen) AttrAt(row, col int) console.Attr {
	return s.cells[row][col].Attr
}

// Find returns the first position of text on the screen.
func (s *Screen) Find(text string) (int, int, bool) {
	for r := 0; r < s.lines; r++ {
		if c := strings.Index(s.Line(r), text); c >= 0 {
			return r, len([]rune(s.Line(r)[:c])), true
		}
	}
	return 0, 0, false
}

// Dump renders the grid for failure messages.
func (s *Screen) Dump() string {
	var b strings.Builder
	for r := 0; r < s.lines; r++ {
		fmt.Fprintf(&b, "%2d|%s|\n", r, s.Line(r))
	}
	return b.String()
}

type scheduledKey struct {
	at  uint64
	key tea.KeyMsg
}

// DefaultIdleLimit is how many ticks Device tolerates with an empty queue
// before it panics, which turns a stuck loop into a test failure.
const DefaultIdleLimit = 1_000_000

// Device is a simulated Input, Clock and Scheduler.
type Device struct {
	tps       uint64
	stepTicks uint64
	now       uint64
	queue     []scheduledKey

	// Steps counts Scheduler.Step calls.
	Steps int
	// Reads counts consumed keys.
	Reads int
	// IdleLimit bounds ticks spent waiting on an empty queue.
	IdleLimit uint64
	idle      uint64
	closed    bool
}

// NewDevice creates a device with the given tick rate that advances
// stepTicks per Step.
func NewDevice(ticksPerSecond, stepTicks uint64) *Device {
	return &Device{tps: ticksPerSecond, stepTicks: stepTicks, IdleLimit: DefaultIdleLimit}
}

// Press queues keys that are available immediately.
func (d *Device) Press(keys ...tea.KeyMsg) {
	for _, k := range keys {
		d.PressAt(d.now, k)
	}
}

// PressAt queues a key that becomes available at the given tick.
func (d *Device) PressAt(tick uint64, k tea.KeyMsg) {
	d.queue = append(d.queue, scheduledKey{at: tick, key: k})
}

// Type queues one rune key per character of s.
func (d *Device) Type(s string) {
	for _, r := range s {
		d.Press(Rune(r))
	}
}

// CloseInput marks the input as ended once the queued keys are read.
func (d *Device) CloseInput() { d.closed = true }

// Closed reports whether input has ended and the queue is empty.
func (d *Device) Closed() bool { return d.closed && len(d.queue) == 0 }

// Pending returns the number of unread keys.
func (d *Device) Pending() int { return len(d.queue) }

// KeyReady implements console.Input.
func (d *Device) KeyReady() bool {
	return len(d.queue) > 0 && d.queue[0].at <= d.now
}

// ReadKey implements console.Input. It advances the clock to the key's
// arrival time if it is not yet due.
func (d *Device) ReadKey() tea.KeyMsg {
	if len(d.queue) == 0 {
		panic("consoletest: ReadKey with no keys queued")
	}
	k := d.queue[0]
	d.queue = d.queue[1:]
	if k.at > d.now {
		d.now = k.at
	}
	d.Reads++
	return k.key
}

// Ticks implements console.Clock.
func (d *Device) Ticks() uint64 { return d.now }

// TicksPerSecond implements console.Clock.
func (d *Device) TicksPerSecond() uint64 { return d.tps }

// Step implements console.Scheduler.
func (d *Device) Step() {
	d.Steps++
	d.now += d.stepTicks
	if len(d.queue) == 0 {
		d.idle += d.stepTicks
		if d.idle > d.IdleLimit {
			panic("consoletest: input exhausted while waiting for a key")
		}
		return
	}
	d.idle = 0
}

// NewConsole wires a screen and a device into a console.Console.
func NewConsole(cols, lines int, ticksPerSecond, stepTicks uint64) (*console.Console, *Screen, *Device) {
	screen := NewScreen(cols, lines)
	dev := NewDevice(ticksPerSecond, stepTicks)
	return &console.Console{
		Screen:    screen,
		Input:     dev,
		Clock:     dev,
		Scheduler: dev,
	}, screen, dev
}

// Key builds a symbolic key.
func Key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

// Rune builds a printable key.
func Rune(r rune) tea.KeyMsg {
	if r == ' ' {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}
