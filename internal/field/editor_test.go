package field

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/ccboot/bootlogin/internal/console"
	"github.com/ccboot/bootlogin/internal/console/consoletest"
)

func TestEditor_Typing(t *testing.T) {
	e := New("PC", Options{Row: 1, Col: 2, Width: 10})

	e.Edit(consoletest.Rune('7'))
	assert.Equal(t, "PC7", e.Value())

	e.Edit(consoletest.Key(tea.KeyBackspace))
	e.Edit(consoletest.Key(tea.KeyBackspace))
	assert.Equal(t, "P", e.Value())

	e.Edit(consoletest.Key(tea.KeyLeft))
	e.Edit(consoletest.Rune('X'))
	assert.Equal(t, "XP", e.Value())
	assert.Equal(t, 1, e.Position())
}

func TestEditor_IgnoresNavigationKeys(t *testing.T) {
	e := New("abc", Options{Width: 10})

	for _, k := range []tea.KeyType{tea.KeyUp, tea.KeyDown, tea.KeyEnter, tea.KeyEsc, tea.KeyF8} {
		e.Edit(consoletest.Key(k))
	}
	assert.Equal(t, "abc", e.Value())
}

func TestEditor_Capacity(t *testing.T) {
	e := New(strings.Repeat("a", Capacity+10), Options{Width: 20})
	assert.Len(t, e.Value(), Capacity)

	e.Edit(consoletest.Rune('b'))
	assert.Len(t, e.Value(), Capacity)
	assert.NotContains(t, e.Value(), "b")
}

func TestEditor_Draw(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		width      int
		masked     bool
		want       string
		wantCursor int
	}{
		{
			name:       "short value padded",
			value:      "PC7",
			width:      6,
			want:       "PC7   ",
			wantCursor: 3,
		},
		{
			name:       "long value scrolls to cursor",
			value:      "abcdefgh",
			width:      4,
			want:       "fgh ",
			wantCursor: 3,
		},
		{
			name:       "masked",
			value:      "secret",
			width:      8,
			masked:     true,
			want:       "******  ",
			wantCursor: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := consoletest.NewScreen(40, 5)
			e := New(tt.value, Options{Row: 2, Col: 5, Width: tt.width, Masked: tt.masked})

			e.Draw(screen)

			assert.Equal(t, tt.want, screen.Line(2)[5:5+tt.width])
			assert.Equal(t, console.AttrEdit, screen.AttrAt(2, 5))
			row, col := screen.Cursor()
			assert.Equal(t, 2, row)
			assert.Equal(t, 5+tt.wantCursor, col)
		})
	}
}
