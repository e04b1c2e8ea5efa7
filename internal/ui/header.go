package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header is a command banner: title, invoked command and the parameters
// the command is acting on.
type Header struct {
	Title   string
	Command string
	Params  []Detail
	Width   int
}

// NewHeader creates a header sized to the terminal.
func NewHeader(title, command string) *Header {
	return &Header{Title: title, Command: command, Width: GetTerminalWidth()}
}

// SetWidth sets the width used for rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// AddParam appends a parameter line.
func (h *Header) AddParam(key, value string) *Header {
	h.Params = append(h.Params, Detail{Key: key, Value: value})
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(h.Command),
	)

	content := top
	if len(h.Params) > 0 {
		divider := lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Render(strings.Repeat("─", width-6))

		keyWidth := 0
		for _, p := range h.Params {
			if len(p.Key) > keyWidth {
				keyWidth = len(p.Key)
			}
		}

		params := make([]string, len(h.Params))
		for i, p := range h.Params {
			key := HeaderParamKeyStyle.Render(p.Key + ":" + strings.Repeat(" ", keyWidth-len(p.Key)))
			params[i] = key + " " + HeaderParamValueStyle.Render(p.Value)
		}
		content = lipgloss.JoinVertical(lipgloss.Left, top, divider, strings.Join(params, "\n"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
