package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm prints a warning box and asks the operator to type phrase.
// It reports whether the exact phrase was entered.
func Confirm(in io.Reader, out io.Writer, title string, warnings []string, phrase string) bool {
	width := GetTerminalWidth()

	lines := []string{
		"",
		WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, title)),
		"",
	}
	bullet := lipgloss.NewStyle().Foreground(TextColor)
	for _, w := range warnings {
		lines = append(lines, bullet.Render("   • "+w))
	}
	lines = append(lines, "")

	_, _ = fmt.Fprintln(out, boxStyle(width, WarningColor).Render(strings.Join(lines, "\n")))
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprint(out, WarningTitleStyle.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", phrase)))

	input, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if err != nil && input == "" {
		return false
	}
	if strings.TrimSpace(input) == phrase {
		return true
	}

	_, _ = fmt.Fprintln(out, lipgloss.NewStyle().Foreground(MutedColor).Render("  Operation cancelled."))
	return false
}
