package menu

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ccboot/bootlogin/internal/console"
	"github.com/ccboot/bootlogin/internal/logging"
)

// Outcome is how a selection ended.
type Outcome int

const (
	// Confirmed means Menu.Selection holds the chosen row.
	Confirmed Outcome = iota
	// Cancelled means the operator backed out.
	Cancelled
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// State is the selector's position in its state machine.
type State int

const (
	StateCountingDown State = iota
	StateAwaitingInput
	StateConfirmed
	StateCancelled
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateCountingDown:
		return "counting-down"
	case StateAwaitingInput:
		return "awaiting-input"
	case StateConfirmed:
		return "confirmed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Options tune Select.
type Options struct {
	// AllowCancel lets Ctrl-C and Escape cancel the menu.
	AllowCancel bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{AllowCancel: true}
}

// keyMap defines key bindings for manual selection
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func newKeyMap(opts Options) keyMap {
	km := keyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "ctrl+j"),
			key.WithHelp("enter", "boot"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
	km.Cancel.SetEnabled(opts.AllowCancel)
	return km
}

// labelOffset is the width of the " A. " row prefix.
const labelOffset = 4

type selector struct {
	con  *console.Console
	menu *Menu
	keys keyMap

	state State

	// countdown
	remaining  int
	last       uint64
	annotation int
}

// Select shows m and lets the operator pick a row. On Confirmed,
// m.Selection holds the chosen row. The store is never touched.
//
// A zero timeout draws the menu and confirms the default. A positive timeout
// counts down once per second and confirms the default when it runs out; any
// key stops the countdown and is handled by manual selection. A negative
// timeout goes straight to manual selection.
func Select(ctx context.Context, con *console.Console, m *Menu, opts Options) (Outcome, error) {
	if err := m.Validate(); err != nil {
		return Cancelled, err
	}

	s := &selector{con: con, menu: m, keys: newKeyMap(opts)}
	s.drawMenu()

	switch {
	case m.Timeout == 0:
		s.state = StateConfirmed
	case m.Timeout > 0:
		s.state = StateCountingDown
		s.remaining = m.Timeout
		s.last = con.Clock.Ticks()
		s.drawAnnotation()
	default:
		s.state = StateAwaitingInput
	}

	for {
		if err := ctx.Err(); err != nil {
			return Cancelled, err
		}

		switch s.state {
		case StateCountingDown:
			s.countdown()
		case StateAwaitingInput:
			if err := s.awaitInput(ctx); err != nil {
				return Cancelled, err
			}
		case StateConfirmed:
			s.drawItem(m.Selection, true)
			logging.LogMenuOutcome(Confirmed.String(), m.Selection, m.Selected().Label)
			return Confirmed, nil
		case StateCancelled:
			logging.LogMenuOutcome(Cancelled.String(), m.Selection, m.Selected().Label)
			return Cancelled, nil
		}
	}
}

// countdown runs one pass of the countdown. It never blocks.
func (s *selector) countdown() {
	if s.con.Input.KeyReady() {
		// Leave the key queued for manual selection.
		s.eraseAnnotation()
		s.state = StateAwaitingInput
		return
	}

	now := s.con.Clock.Ticks()
	if now-s.last >= s.con.Clock.TicksPerSecond() {
		s.remaining--
		s.last = now
		s.eraseAnnotation()
		logging.LogCountdown(s.remaining)
		if s.remaining <= 0 {
			s.remaining = 0
			s.state = StateConfirmed
			return
		}
		s.drawAnnotation()
		return
	}

	s.con.Scheduler.Step()
}

// awaitInput redraws the rows, waits for one key and acts on it.
func (s *selector) awaitInput(ctx context.Context) error {
	s.drawItems()

	k, err := s.con.WaitKey(ctx)
	if err != nil {
		return err
	}
	logging.LogKey("menu", k.String())

	m := s.menu
	switch {
	case key.Matches(k, s.keys.Confirm):
		s.state = StateConfirmed
	case key.Matches(k, s.keys.Cancel):
		s.state = StateCancelled
	case key.Matches(k, s.keys.Up):
		if m.Selection > 0 {
			m.Selection--
		}
	case key.Matches(k, s.keys.Down):
		if m.Selection < len(m.Items)-1 {
			m.Selection++
		}
	default:
		if idx, ok := letterIndex(k); ok && idx < len(m.Items) {
			m.Selection = idx
			s.state = StateConfirmed
		}
	}
	return nil
}

// letterIndex maps a letter key to a row index, case-insensitively.
func letterIndex(k tea.KeyMsg) (int, bool) {
	r, ok := console.Printable(k)
	if !ok {
		return 0, false
	}
	idx := int(unicode.ToUpper(r) - 'A')
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// row returns the screen row of item i. Rows are anchored to the bottom.
func (s *selector) row(i int) int {
	_, lines := s.con.Screen.Size()
	return lines - len(s.menu.Items) + i - 1
}

func (s *selector) promptRow() int {
	_, lines := s.con.Screen.Size()
	return lines - len(s.menu.Items) - 3
}

func (s *selector) drawMenu() {
	scr := s.con.Screen
	scr.Erase()
	if s.menu.Prompt != "" {
		console.PrintAt(scr, s.promptRow(), 0, console.AttrNormal, s.menu.Prompt)
	}
	s.drawItems()
}

func (s *selector) drawItems() {
	for i := range s.menu.Items {
		s.drawItem(i, i == s.menu.Selection)
	}
}

// drawItem prints " <Letter>. <label>" padded to the console width.
func (s *selector) drawItem(i int, selected bool) {
	cols, _ := s.con.Screen.Size()
	text := fmt.Sprintf(" %c. %s", Letter(i), s.menu.Items[i].Label)
	if pad := cols - lipgloss.Width(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}

	attr := console.AttrNormal
	if selected {
		attr = console.AttrSelected
	}
	row := s.row(i)
	console.PrintAt(s.con.Screen, row, 0, attr, text)
	s.con.Screen.MoveTo(row, 1)
}

func (s *selector) annotationCol() int {
	return labelOffset + lipgloss.Width(s.menu.Selected().Label)
}

func (s *selector) drawAnnotation() {
	text := fmt.Sprintf(" (%d)", s.remaining)
	row := s.row(s.menu.Selection)
	s.annotation = console.PrintAt(s.con.Screen, row, s.annotationCol(), console.AttrSelected, text)
	s.con.Screen.MoveTo(row, 1)
}

func (s *selector) eraseAnnotation() {
	if s.annotation == 0 {
		return
	}
	row := s.row(s.menu.Selection)
	console.PrintAt(s.con.Screen, row, s.annotationCol(), console.AttrSelected, strings.Repeat(" ", s.annotation))
	s.annotation = 0
	s.con.Screen.MoveTo(row, 1)
}
