// Package console defines the character-cell devices the boot prompt talks to.
//
// The interactive parts of the boot prompt (the multi-boot menu and the
// credential form) never touch a terminal directly. They are written against
// four small interfaces that mirror what a pre-boot environment offers:
//
//   - Screen: cursor positioning, an attribute (colour pair) selector,
//     printing and erasing.
//   - Input: a non-blocking "is a key ready" check plus a consuming read.
//     Keys are bubbletea KeyMsg values, so key names ("up", "enter",
//     "ctrl+c") and bubbles key bindings work unchanged.
//   - Clock: a monotonic tick counter with a fixed ticks-per-second rate.
//   - Scheduler: a cooperative yield used between polls.
//
// # Polling
//
// All waiting is expressed as "poll, then yield":
//
//	for !c.Input.KeyReady() {
//	    c.Scheduler.Step()
//	}
//	key := c.Input.ReadKey()
//
// Console.WaitKey wraps that loop and also honours context cancellation.
// Nothing in the interactive core blocks in a way that would starve the
// countdown bookkeeping, which makes the core deterministic under the
// simulated devices in package consoletest.
//
// # Terminal
//
// Terminal is the production implementation of Screen and Input. It puts the
// tty into raw mode (golang.org/x/term), drives the cursor through termenv,
// renders attributes with lipgloss, and decodes raw input bytes into KeyMsg
// values on a single reader goroutine.
package console
