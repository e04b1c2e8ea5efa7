package bootflow

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ccboot/bootlogin/internal/logging"
	"github.com/ccboot/bootlogin/internal/login"
	"github.com/ccboot/bootlogin/internal/menu"
	"github.com/ccboot/bootlogin/internal/settings"
)

const (
	// MultiBootPrefix marks a username that is a multi-boot descriptor.
	MultiBootPrefix = "iscsi:"
	// PlaceholderIdentity replaces the username after a multi-boot choice.
	PlaceholderIdentity = "ccboot_multiboot"
	// PlaceholderSecret replaces the password after every flow. The iSCSI
	// initiator rejects secrets shorter than 12 characters.
	PlaceholderSecret = "123456789012"
	// DefaultMultiBootTimeout is the countdown used when none is stored.
	DefaultMultiBootTimeout = 3
	// MenuPrompt is shown above the boot images.
	MenuPrompt = "CCBoot Multiple Boot System"
)

// UI runs the interactive part of the flow.
type UI interface {
	// SelectTarget shows m and leaves the chosen row in m.Selection.
	SelectTarget(ctx context.Context, m *menu.Menu) (menu.Outcome, error)
	// EditCredentials lets the operator edit the identity and secret.
	EditCredentials(ctx context.Context, identity, secret string) (login.Outcome, string, string, error)
}

// Branch says which half of the flow ran.
type Branch int

const (
	BranchNone Branch = iota
	BranchMultiBoot
	BranchCredentials
)

// String returns the branch name
func (b Branch) String() string {
	switch b {
	case BranchMultiBoot:
		return "multi-boot"
	case BranchCredentials:
		return "credentials"
	default:
		return "none"
	}
}

// Result describes what a flow did.
type Result struct {
	Branch Branch

	// Multi-boot branch
	Selection int
	Label     string
	RootPath  string

	// Credentials branch
	Identity string
	Hostname string
}

// Flow reads the login settings, runs the matching UI and writes the
// outcome back.
type Flow struct {
	Store settings.Store
	UI    UI
	// DefaultTimeout is the countdown used when the timeout setting is zero
	// or unset. Zero means DefaultMultiBootTimeout.
	DefaultTimeout int
}

// Run executes the flow once. Errors from the flow itself are *FlowError;
// ResultCode maps any returned error to the boot agent's result code.
//
// Writes happen only after the UI has finished, one at a time, and stop at
// the first failure. Nothing is written when the operator cancels.
func (f *Flow) Run(ctx context.Context) (Result, error) {
	identity, err := settings.Fetch(ctx, f.Store, settings.Username)
	if err != nil {
		return Result{}, err
	}
	if identity == "" {
		return Result{}, NewMissingInputError(settings.Username)
	}

	secret, err := settings.Fetch(ctx, f.Store, settings.Password)
	if err != nil {
		return Result{}, err
	}

	if strings.HasPrefix(identity, MultiBootPrefix) {
		return f.runMultiBoot(ctx, identity, secret)
	}
	return f.runCredentials(ctx, identity, secret)
}

func (f *Flow) defaultTimeout() int {
	if f.DefaultTimeout > 0 {
		return f.DefaultTimeout
	}
	return DefaultMultiBootTimeout
}

func (f *Flow) runMultiBoot(ctx context.Context, descriptor, labelList string) (Result, error) {
	res := Result{Branch: BranchMultiBoot}

	target, parseErr := ParseTarget(descriptor)
	if parseErr == nil {
		raw, err := settings.Fetch(ctx, f.Store, settings.MultiBootTimeout)
		if err != nil {
			logging.Warn("Failed to read multi-boot timeout, using default",
				zap.Error(err),
				zap.Int("default", f.defaultTimeout()),
			)
		}

		m := BuildMenu(target, ParseLabels(labelList), ParseTimeout(raw, f.defaultTimeout()))
		outcome, err := f.UI.SelectTarget(ctx, m)
		if err != nil {
			return res, err
		}
		if outcome == menu.Cancelled {
			return res, NewCancelledError("boot menu cancelled")
		}

		res.Selection = m.Selection
		res.Label = m.Selected().Label
		res.RootPath = target.RootPath(m.Selection)
		if err := f.set(ctx, settings.RootPath, res.RootPath); err != nil {
			return res, err
		}
	} else {
		logging.Warn("Malformed multi-boot target", zap.Error(parseErr))
	}

	// The placeholders go in even for a malformed target: the initiator
	// must never see the label list as a password.
	if err := f.writePlaceholders(ctx); err != nil {
		return res, err
	}
	if parseErr != nil {
		return res, parseErr
	}
	return res, nil
}

func (f *Flow) writePlaceholders(ctx context.Context) error {
	if err := f.clear(ctx, settings.Username); err != nil {
		return err
	}
	if err := f.clear(ctx, settings.Password); err != nil {
		return err
	}
	if err := f.set(ctx, settings.Username, PlaceholderIdentity); err != nil {
		return err
	}
	return f.set(ctx, settings.Password, PlaceholderSecret)
}

func (f *Flow) runCredentials(ctx context.Context, identity, secret string) (Result, error) {
	res := Result{Branch: BranchCredentials}

	hostname, err := settings.Fetch(ctx, f.Store, settings.Hostname)
	if err != nil {
		return res, err
	}
	suffix := ""
	if i := strings.IndexByte(hostname, '('); i >= 0 {
		suffix = hostname[i:]
	}

	outcome, identity, secret, err := f.UI.EditCredentials(ctx, identity, secret)
	if err != nil {
		return res, err
	}
	if outcome == login.Cancelled {
		return res, NewCancelledError("credential entry cancelled")
	}

	res.Identity = identity
	res.Hostname = identity + suffix

	if err := f.set(ctx, settings.Username, identity+":"+secret); err != nil {
		return res, err
	}
	if err := f.set(ctx, settings.Password, PlaceholderSecret); err != nil {
		return res, err
	}
	if err := f.set(ctx, settings.Hostname, res.Hostname); err != nil {
		return res, err
	}
	return res, nil
}

func (f *Flow) set(ctx context.Context, name, value string) error {
	if err := f.Store.Set(ctx, name, value); err != nil {
		return NewConfigWriteError(name, err)
	}
	return nil
}

func (f *Flow) clear(ctx context.Context, name string) error {
	if err := f.Store.Clear(ctx, name); err != nil {
		return NewConfigWriteError(name, err)
	}
	return nil
}
