package login

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ccboot/bootlogin/internal/console"
	"github.com/ccboot/bootlogin/internal/field"
)

// FieldEditor edits one bounded text buffer.
type FieldEditor interface {
	// Edit applies one key to the buffer.
	Edit(k tea.KeyMsg)
	// Draw renders the field and leaves the cursor at the edit position.
	Draw(s console.Screen)
	// Value returns the current contents.
	Value() string
}

// Field identifies one of the two form fields.
type Field int

const (
	FieldIdentity Field = iota
	FieldSecret
)

// String returns the field name
func (f Field) String() string {
	switch f {
	case FieldIdentity:
		return "identity"
	case FieldSecret:
		return "secret"
	default:
		return "unknown"
	}
}

// Labels are the captions drawn above the fields.
type Labels struct {
	Identity string
	Secret   string
}

var (
	// DefaultLabels is the label set used by the boot agent.
	DefaultLabels = Labels{Identity: "Computer Name", Secret: "IP Address"}
	// AccountLabels is the alternative user/password label set.
	AccountLabels = Labels{Identity: "Username", Secret: "Password"}
)

// FieldWidth is the on-screen width of each field.
const FieldWidth = 20

// Layout holds the screen positions of the form. Everything is placed
// relative to the centre of the console.
type Layout struct {
	IdentityLabelRow int
	IdentityRow      int
	SecretLabelRow   int
	SecretRow        int
	LabelCol         int
	FieldCol         int
	FieldWidth       int
	HelpRow          int
}

// NewLayout computes the form layout for a console of the given size.
func NewLayout(cols, lines int) Layout {
	return Layout{
		IdentityLabelRow: lines/2 - 4,
		IdentityRow:      lines/2 - 2,
		SecretLabelRow:   lines/2 + 2,
		SecretRow:        lines/2 + 4,
		LabelCol:         cols/2 - 4,
		FieldCol:         cols/2 - 10,
		FieldWidth:       FieldWidth,
		HelpRow:          lines - 1,
	}
}

// FormOptions configure NewForm.
type FormOptions struct {
	// Labels default to DefaultLabels.
	Labels Labels
	// MaskSecret draws the secret field as asterisks.
	MaskSecret bool
}

// Form is the credential form: two field editors and the focus.
type Form struct {
	Identity FieldEditor
	Secret   FieldEditor
	Labels   Labels
	Layout   Layout

	focus Field
}

// NewForm builds a form sized for screen with both fields seeded.
func NewForm(screen console.Screen, identity, secret string, opts FormOptions) *Form {
	cols, lines := screen.Size()
	layout := NewLayout(cols, lines)

	labels := opts.Labels
	if labels.Identity == "" {
		labels.Identity = DefaultLabels.Identity
	}
	if labels.Secret == "" {
		labels.Secret = DefaultLabels.Secret
	}

	return &Form{
		Identity: field.New(identity, field.Options{
			Row:   layout.IdentityRow,
			Col:   layout.FieldCol,
			Width: layout.FieldWidth,
		}),
		Secret: field.New(secret, field.Options{
			Row:    layout.SecretRow,
			Col:    layout.FieldCol,
			Width:  layout.FieldWidth,
			Masked: opts.MaskSecret,
		}),
		Labels: labels,
		Layout: layout,
	}
}

// Focus returns the field receiving edits.
func (f *Form) Focus() Field {
	return f.focus
}

// SetFocus moves the focus.
func (f *Form) SetFocus(fl Field) {
	f.focus = fl
}

// Values returns the identity and secret.
func (f *Form) Values() (identity, secret string) {
	return f.Identity.Value(), f.Secret.Value()
}

func (f *Form) focused() FieldEditor {
	if f.focus == FieldSecret {
		return f.Secret
	}
	return f.Identity
}
