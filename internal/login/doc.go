// Package login implements the two-field credential form.
//
// The form has an identity field and a secret field, labelled "Computer
// Name" and "IP Address" by default. Edit runs the form until the operator
// commits with Enter on the secret field or cancels with Ctrl-C or Escape:
//
//	form := login.NewForm(con.Screen, identity, secret, login.FormOptions{})
//	outcome, err := login.Edit(ctx, con, form)
//	if outcome == login.Committed {
//	    identity, secret = form.Values()
//	}
package login
