package menu

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	// MaxItems is the capacity of a menu.
	MaxItems = 8
	// LabelCapacity is the maximum label length in bytes.
	LabelCapacity = 31
	// PromptCapacity is the maximum prompt length in bytes.
	PromptCapacity = 31
)

// ErrMenuFull is returned by AddItem once MaxItems rows exist.
var ErrMenuFull = errors.New("menu is full")

// Item is one selectable row.
type Item struct {
	Label string
}

// Menu is a list of rows with a default selection.
type Menu struct {
	// Prompt is shown above the rows. It may be empty.
	Prompt string
	// Timeout is the countdown in seconds. Zero selects the default at once,
	// a negative value waits for the operator.
	Timeout int
	// Items are the rows, in display order.
	Items []Item
	// Selection is the 0-based highlighted row.
	Selection int
}

// AddItem appends a row, truncating the label to LabelCapacity bytes.
func (m *Menu) AddItem(label string) error {
	if len(m.Items) >= MaxItems {
		return fmt.Errorf("%w: %d items", ErrMenuFull, MaxItems)
	}
	m.Items = append(m.Items, Item{Label: Truncate(label, LabelCapacity)})
	return nil
}

// SetPrompt sets the prompt, truncating it to PromptCapacity bytes.
func (m *Menu) SetPrompt(prompt string) {
	m.Prompt = Truncate(prompt, PromptCapacity)
}

// Validate checks the row count and the selection bounds.
func (m *Menu) Validate() error {
	switch {
	case len(m.Items) == 0:
		return errors.New("menu has no items")
	case len(m.Items) > MaxItems:
		return fmt.Errorf("menu has %d items, maximum is %d", len(m.Items), MaxItems)
	case m.Selection < 0 || m.Selection >= len(m.Items):
		return fmt.Errorf("selection %d out of range [0,%d)", m.Selection, len(m.Items))
	}
	return nil
}

// Selected returns the highlighted row.
func (m *Menu) Selected() Item {
	return m.Items[m.Selection]
}

// Letter returns the shortcut letter of row i.
func Letter(i int) rune {
	return rune('A' + i)
}

// Truncate cuts s to at most n bytes without splitting a rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
