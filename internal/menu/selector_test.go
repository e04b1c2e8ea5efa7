package menu

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccboot/bootlogin/internal/console"
	"github.com/ccboot/bootlogin/internal/console/consoletest"
)

const (
	testCols  = 40
	testLines = 20
	testTPS   = 1000
)

func newTestMenu(timeout int, labels ...string) *Menu {
	m := &Menu{Prompt: "Boot menu", Timeout: timeout}
	for _, l := range labels {
		_ = m.AddItem(l)
	}
	return m
}

// annotations returns the countdown values printed, in order.
func annotations(screen *consoletest.Screen) []string {
	var out []string
	for _, p := range screen.Prints {
		if strings.HasPrefix(p.Text, " (") {
			out = append(out, p.Text)
		}
	}
	return out
}

func TestSelect_ZeroTimeoutConfirmsDefault(t *testing.T) {
	con, screen, dev := consoletest.NewConsole(testCols, testLines, testTPS, 10)
	m := newTestMenu(0, "Windows", "Linux")
	m.Selection = 1

	outcome, err := Select(context.Background(), con, m, DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, Confirmed, outcome)
	assert.Equal(t, 1, m.Selection)
	assert.Zero(t, dev.Steps)
	assert.Equal(t, " B. Linux", screen.Text(testLines-2))
}

func TestSelect_CountdownExpiry(t *testing.T) {
	for _, step := range []uint64{1, 7, 100, 250} {
		t.Run(fmt.Sprintf("step %d", step), func(t *testing.T) {
			con, screen, dev := consoletest.NewConsole(testCols, testLines, testTPS, step)
			m := newTestMenu(3, "Windows", "Linux", "Tools")

			outcome, err := Select(context.Background(), con, m, DefaultOptions())

			require.NoError(t, err)
			assert.Equal(t, Confirmed, outcome)
			assert.Equal(t, 0, m.Selection)
			assert.Equal(t, []string{" (3)", " (2)", " (1)"}, annotations(screen))

			assert.GreaterOrEqual(t, dev.Ticks(), uint64(3*testTPS))
			assert.LessOrEqual(t, dev.Ticks(), uint64(3*testTPS)+3*step)

			row := testLines - 3 - 1
			assert.Equal(t, " A. Windows", screen.Text(row), screen.Dump())
		})
	}
}

func TestSelect_LetterDuringCountdown(t *testing.T) {
	con, screen, dev := consoletest.NewConsole(testCols, testLines, testTPS, 10)
	m := newTestMenu(5, "Windows", "Linux")
	dev.PressAt(1500, consoletest.Rune('b'))

	outcome, err := Select(context.Background(), con, m, DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, Confirmed, outcome)
	assert.Equal(t, 1, m.Selection)
	assert.Equal(t, 1, dev.Reads)
	assert.Less(t, dev.Ticks(), uint64(2*testTPS))
	assert.Equal(t, []string{" (5)", " (4)"}, annotations(screen))
	assert.NotContains(t, screen.Dump(), "(")
}

func TestSelect_NavigateAfterCountdownInterrupted(t *testing.T) {
	con, _, dev := consoletest.NewConsole(testCols, testLines, testTPS, 10)
	m := newTestMenu(3, "Windows", "Linux", "Tools")
	dev.PressAt(500, consoletest.Key(tea.KeyDown))
	dev.PressAt(600, consoletest.Key(tea.KeyDown))
	dev.PressAt(700, consoletest.Key(tea.KeyEnter))

	outcome, err := Select(context.Background(), con, m, DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, Confirmed, outcome)
	assert.Equal(t, 2, m.Selection)
}

func TestSelect_SelectionStaysInBounds(t *testing.T) {
	con, _, dev := consoletest.NewConsole(testCols, testLines, testTPS, 10)
	m := newTestMenu(-1, "A", "B", "C")

	dev.Press(consoletest.Key(tea.KeyUp), consoletest.Key(tea.KeyUp))
	for i := 0; i < 10; i++ {
		dev.Press(consoletest.Key(tea.KeyDown))
	}
	dev.Press(consoletest.Key(tea.KeyEnter))

	outcome, err := Select(context.Background(), con, m, DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, Confirmed, outcome)
	assert.Equal(t, 2, m.Selection)
}

func TestSelect_LetterKeys(t *testing.T) {
	tests := []struct {
		name  string
		keys  []tea.KeyMsg
		want  int
		reads int
	}{
		{
			name:  "upper case",
			keys:  []tea.KeyMsg{consoletest.Rune('B')},
			want:  1,
			reads: 1,
		},
		{
			name:  "lower case",
			keys:  []tea.KeyMsg{consoletest.Rune('c')},
			want:  2,
			reads: 1,
		},
		{
			name:  "out of range letters ignored",
			keys:  []tea.KeyMsg{consoletest.Rune('z'), consoletest.Rune('D'), consoletest.Rune('1'), consoletest.Rune('a')},
			want:  0,
			reads: 4,
		},
		{
			name:  "linefeed confirms",
			keys:  []tea.KeyMsg{consoletest.Key(tea.KeyDown), consoletest.Key(tea.KeyCtrlJ)},
			want:  1,
			reads: 2,
		},
		{
			name:  "function keys ignored",
			keys:  []tea.KeyMsg{consoletest.Key(tea.KeyF8), consoletest.Key(tea.KeyTab), consoletest.Key(tea.KeyEnter)},
			want:  0,
			reads: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			con, _, dev := consoletest.NewConsole(testCols, testLines, testTPS, 10)
			m := newTestMenu(-1, "A", "B", "C")
			dev.Press(tt.keys...)

			outcome, err := Select(context.Background(), con, m, DefaultOptions())

			require.NoError(t, err)
			assert.Equal(t, Confirmed, outcome)
			assert.Equal(t, tt.want, m.Selection)
			assert.Equal(t, tt.reads, dev.Reads)
		})
	}
}

func TestSelect_Cancel(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		t.Run(k.String(), func(t *testing.T) {
			con, _, dev := consoletest.NewConsole(testCols, testLines, testTPS, 10)
			m := newTestMenu(-1, "A", "B")
			dev.Press(consoletest.Key(k))

			outcome, err := Select(context.Background(), con, m, DefaultOptions())

			require.NoError(t, err)
			assert.Equal(t, Cancelled, outcome)
		})
	}
}

func TestSelect_CancelDisabled(t *testing.T) {
	con, _, dev := consoletest.NewConsole(testCols, testLines, testTPS, 10)
	m := newTestMenu(-1, "A", "B")
	dev.Press(consoletest.Key(tea.KeyEsc), consoletest.Key(tea.KeyDown), consoletest.Key(tea.KeyEnter))

	outcome, err := Select(context.Background(), con, m, Options{AllowCancel: false})

	require.NoError(t, err)
	assert.Equal(t, Confirmed, outcome)
	assert.Equal(t, 1, m.Selection)
}

func TestSelect_IgnoresModifiedKeys(t *testing.T) {
	for _, allowCancel := range []bool{true, false} {
		t.Run(fmt.Sprintf("allow cancel %v", allowCancel), func(t *testing.T) {
			con, _, dev := consoletest.NewConsole(testCols, testLines, testTPS, 10)
			m := newTestMenu(-1, "A", "B", "C")

			// ctrl+up, an unknown function key and alt+b
			keys, rest := console.DecodeKeys([]byte("\x1b[1;5A\x1b[25~\x1bb"))
			require.Empty(t, rest)
			dev.Press(keys...)
			dev.Press(consoletest.Key(tea.KeyEnter))

			outcome, err := Select(context.Background(), con, m, Options{AllowCancel: allowCancel})

			require.NoError(t, err)
			assert.Equal(t, Confirmed, outcome)
			assert.Equal(t, 0, m.Selection)
		})
	}
}

func TestSelect_RowsFillWidthWithMultibyteLabels(t *testing.T) {
	con, screen, dev := consoletest.NewConsole(testCols, testLines, testTPS, 10)
	m := newTestMenu(-1, "Système", "日本語")
	dev.Press(consoletest.Key(tea.KeyEnter))

	_, err := Select(context.Background(), con, m, DefaultOptions())
	require.NoError(t, err)

	for _, op := range screen.Prints {
		if strings.HasPrefix(op.Text, " A. ") || strings.HasPrefix(op.Text, " B. ") {
			assert.Equal(t, testCols, lipgloss.Width(op.Text), "row %q", op.Text)
		}
	}
}

func TestSelect_InputClosedWithCancelDisabled(t *testing.T) {
	con, _, dev := consoletest.NewConsole(testCols, testLines, testTPS, 10)
	m := newTestMenu(-1, "A", "B")
	dev.Press(consoletest.Key(tea.KeyDown))
	dev.CloseInput()

	_, err := Select(context.Background(), con, m, Options{AllowCancel: false})

	assert.ErrorIs(t, err, console.ErrInputClosed)
	assert.Zero(t, dev.Steps)
}

func TestSelect_Layout(t *testing.T) {
	con, screen, dev := consoletest.NewConsole(testCols, testLines, testTPS, 10)
	m := newTestMenu(-1, "Windows", "Linux", "Tools")
	dev.Press(consoletest.Key(tea.KeyDown), consoletest.Key(tea.KeyEnter))

	_, err := Select(context.Background(), con, m, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, screen.Erases)
	assert.Equal(t, "Boot menu", screen.Text(testLines-3-3))

	rows := map[int]string{16: " A. Windows", 17: " B. Linux", 18: " C. Tools"}
	for row, text := range rows {
		assert.Equal(t, fmt.Sprintf("%-*s", testCols, text), screen.Line(row))
	}

	assert.Equal(t, console.AttrNormal, screen.AttrAt(16, testCols-1))
	assert.Equal(t, console.AttrSelected, screen.AttrAt(17, testCols-1))
	assert.Equal(t, console.AttrNormal, screen.AttrAt(18, testCols-1))
}

func TestSelect_InvalidMenu(t *testing.T) {
	con, _, _ := consoletest.NewConsole(testCols, testLines, testTPS, 10)

	_, err := Select(context.Background(), con, &Menu{}, DefaultOptions())
	assert.Error(t, err)
}

func TestSelect_ContextCancelled(t *testing.T) {
	con, _, _ := consoletest.NewConsole(testCols, testLines, testTPS, 10)
	m := newTestMenu(-1, "A")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := Select(ctx, con, m, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Cancelled, outcome)
}
