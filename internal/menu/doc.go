// Package menu implements the timed multiple-choice selector shown before
// booting.
//
// A Menu holds up to MaxItems labelled rows, one of which is the default.
// Select draws the rows anchored to the bottom of the screen and either
// counts down towards the default or waits for the operator:
//
//	m := &menu.Menu{Prompt: "Choose", Timeout: 3}
//	_ = m.AddItem("Windows")
//	_ = m.AddItem("Linux")
//	outcome, err := menu.Select(ctx, con, m, menu.DefaultOptions())
//
// Any key pressed during the countdown stops it and is then handled as a
// normal selection key, so pressing a row letter picks that row at once.
package menu
