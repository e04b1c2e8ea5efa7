package bootflow

import (
	"context"

	"github.com/ccboot/bootlogin/internal/console"
	"github.com/ccboot/bootlogin/internal/login"
	"github.com/ccboot/bootlogin/internal/menu"
)

var _ UI = (*ConsoleUI)(nil)

// ConsoleUI runs the menu and the credential form on a console.
//
// When Console is nil, Open is called on the first SelectTarget or
// EditCredentials, so a flow that never reaches the UI never touches the
// terminal.
type ConsoleUI struct {
	Console     *console.Console
	Open        func() (*console.Console, error)
	MenuOptions menu.Options
	FormOptions login.FormOptions
}

func (u *ConsoleUI) console() (*console.Console, error) {
	if u.Console == nil {
		con, err := u.Open()
		if err != nil {
			return nil, err
		}
		u.Console = con
	}
	return u.Console, nil
}

// SelectTarget implements UI.
func (u *ConsoleUI) SelectTarget(ctx context.Context, m *menu.Menu) (menu.Outcome, error) {
	con, err := u.console()
	if err != nil {
		return menu.Cancelled, err
	}
	return menu.Select(ctx, con, m, u.MenuOptions)
}

// EditCredentials implements UI.
func (u *ConsoleUI) EditCredentials(ctx context.Context, identity, secret string) (login.Outcome, string, string, error) {
	con, err := u.console()
	if err != nil {
		return login.Cancelled, "", "", err
	}
	form := login.NewForm(con.Screen, identity, secret, u.FormOptions)
	outcome, err := login.Edit(ctx, con, form)
	if err != nil {
		return login.Cancelled, "", "", err
	}
	identity, secret = form.Values()
	return outcome, identity, secret, nil
}
