// Package ui renders the non-interactive output of the ccboot-login CLI.
//
// The interactive login screens live in the menu and login packages and
// draw through a console.Screen. This package covers everything printed
// after the console is released: command headers, result boxes and
// confirmation prompts, styled with Lipgloss.
//
//   - Header: banner naming the command and the settings store in use
//   - Result: success, warning or failure box with ordered details
//   - FlowReport: Result for a completed login flow, with troubleshooting
//     tips taken from bootflow.Hint
//   - Confirm: typed confirmation before destructive store operations
//
// Logging is controlled through CCBOOT_LOG_LEVEL. When it is unset zap is
// silent and only this package's output reaches the terminal.
package ui
