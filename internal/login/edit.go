package login

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ccboot/bootlogin/internal/console"
	"github.com/ccboot/bootlogin/internal/logging"
)

// Outcome is how editing ended.
type Outcome int

const (
	// Committed means both fields hold the operator's input.
	Committed Outcome = iota
	// Cancelled means the operator backed out.
	Cancelled
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// State is the form's position in its state machine.
type State int

const (
	StateEditingIdentity State = iota
	StateEditingSecret
	StateCommitted
	StateCancelled
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateEditingIdentity:
		return "editing-identity"
	case StateEditingSecret:
		return "editing-secret"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// keyMap defines key bindings for the credential form
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Enter  key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "computer name"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "ip address"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "next/login"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Enter, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Enter, k.Cancel},
	}
}

// stateFor maps the focus to the editing state.
func stateFor(f Field) State {
	if f == FieldSecret {
		return StateEditingSecret
	}
	return StateEditingIdentity
}

// Edit runs the form until it is committed or cancelled. Focus starts on the
// identity field. Each pass redraws the focused field and waits for one key:
// Down, Up and Tab move between fields, Enter advances and then commits, and
// Ctrl-C or Escape cancels. Every other key goes to the focused field.
func Edit(ctx context.Context, con *console.Console, form *Form) (Outcome, error) {
	form.SetFocus(FieldIdentity)
	drawForm(con.Screen, form)

	state := StateEditingIdentity
	for {
		if err := ctx.Err(); err != nil {
			return Cancelled, err
		}

		form.focused().Draw(con.Screen)

		k, err := con.WaitKey(ctx)
		if err != nil {
			return Cancelled, err
		}
		logging.LogKey("login", k.String())

		switch {
		case key.Matches(k, keys.Cancel):
			state = StateCancelled
		case key.Matches(k, keys.Down):
			form.SetFocus(FieldSecret)
		case key.Matches(k, keys.Up):
			form.SetFocus(FieldIdentity)
		case key.Matches(k, keys.Toggle):
			if form.Focus() == FieldIdentity {
				form.SetFocus(FieldSecret)
			} else {
				form.SetFocus(FieldIdentity)
			}
		case key.Matches(k, keys.Enter):
			if form.Focus() == FieldIdentity {
				form.SetFocus(FieldSecret)
			} else {
				state = StateCommitted
			}
		default:
			form.focused().Edit(k)
		}

		switch state {
		case StateCommitted:
			identity, secret := form.Values()
			logging.LogCredentialOutcome(Committed.String(), len(identity), len(secret))
			return Committed, nil
		case StateCancelled:
			logging.LogCredentialOutcome(Cancelled.String(), 0, 0)
			return Cancelled, nil
		default:
			state = stateFor(form.Focus())
		}
	}
}

// drawForm paints the whole form: labels, both fields and the key help.
func drawForm(s console.Screen, form *Form) {
	s.Erase()

	l := form.Layout
	console.PrintAt(s, l.IdentityLabelRow, l.LabelCol, console.AttrLabel, form.Labels.Identity)
	console.PrintAt(s, l.SecretLabelRow, l.LabelCol, console.AttrLabel, form.Labels.Secret)

	form.Secret.Draw(s)
	form.Identity.Draw(s)

	cols, _ := s.Size()
	console.PrintAt(s, l.HelpRow, 1, console.AttrHelp, helpView(cols-2))
}

// helpView renders the key help as plain text; the screen applies the
// help attribute.
func helpView(width int) string {
	h := help.New()
	h.Width = width
	plain := lipgloss.NewStyle()
	h.Styles = help.Styles{
		Ellipsis:       plain,
		ShortKey:       plain,
		ShortDesc:      plain,
		ShortSeparator: plain,
		FullKey:        plain,
		FullDesc:       plain,
		FullSeparator:  plain,
	}
	return h.View(keys)
}
