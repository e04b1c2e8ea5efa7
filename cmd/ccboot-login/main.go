// Ccboot-login is the pre-boot console login for diskless CCBoot clients.
//
// It reads the login settings left by the boot agent and either shows the
// multi-boot menu, writing the chosen iSCSI root path, or lets the operator
// edit the computer name and address. Results are written back to the
// settings store.
//
// Usage:
//
//	ccboot-login [command] [flags]
//
// Running without arguments starts the login on the current terminal.
// See 'ccboot-login --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccboot/bootlogin/internal/logging"
	"github.com/ccboot/bootlogin/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// exitError carries an exit status for an error that has already been
// reported to the operator.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "ccboot-login",
	Short: "CCBoot pre-boot console login",
	Long: `Console login and multi-boot menu for CCBoot diskless clients.

With a multi-boot target in the username setting, a menu of boot images is
shown and the chosen image's iSCSI root path is written back. Otherwise the
computer name and address are edited on a two-field form.

If no command is specified, the login runs on the current terminal.
Exit status is 0 on success, 2 when the operator cancels and 1 otherwise.`,
	Version:           version.Version,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runLogin,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ccboot-login %s\n", version.Full())
	},
}
