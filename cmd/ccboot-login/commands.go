package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccboot/bootlogin/internal/bootflow"
	"github.com/ccboot/bootlogin/internal/config"
	"github.com/ccboot/bootlogin/internal/console"
	"github.com/ccboot/bootlogin/internal/logging"
	"github.com/ccboot/bootlogin/internal/login"
	"github.com/ccboot/bootlogin/internal/menu"
	"github.com/ccboot/bootlogin/internal/settings"
	"github.com/ccboot/bootlogin/internal/ui"
)

// Exit status for an operator cancel.
const exitCancelled = 2

// Global flags
var (
	configPath string
	quiet      bool
	logLevel   string
	logFile    string

	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/ccboot/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the result box")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config and CCBOOT_LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(configCmd)

	// version works without a readable config
	versionCmd.PersistentPreRunE = func(*cobra.Command, []string) error { return nil }
}

// setup loads the app config and starts logging. Flags win over the config
// file, which wins over the environment.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	level, file := logLevel, logFile
	if level == "" {
		level = cfg.Log.Level
	}
	if file == "" {
		file = cfg.Log.File
	}
	if err := logging.Initialize(level, file); err != nil {
		return err
	}

	logging.Debug("Configuration loaded",
		zap.String("store_backend", cfg.Store.Backend),
		zap.Int("default_timeout", cfg.Menu.DefaultTimeout),
		zap.Bool("allow_cancel", cfg.Menu.AllowCancel),
	)
	return nil
}

// openStore opens the configured settings backend with write logging.
func openStore() (settings.Backend, string, error) {
	path, err := cfg.StorePath()
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve settings path: %w", err)
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, "", fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	store, err := settings.Open(cfg.Store.Backend, path)
	if err != nil {
		return nil, "", err
	}
	return settings.WithLogging(store), path, nil
}

func closeStore(store settings.Backend) {
	if err := store.Close(); err != nil {
		logging.Warn("Failed to close settings store", zap.Error(err))
	}
}

// runLogin runs the login flow against the configured store.
func runLogin(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	return runFlow(cmd, store)
}

// runFlow runs one flow and reports it. The terminal is opened only when
// the flow needs the menu or the form, and is released before anything is
// printed.
func runFlow(cmd *cobra.Command, store settings.Store) error {
	var term *console.Terminal
	open := func() (*console.Console, error) {
		t, err := console.OpenTerminal(os.Stdin, os.Stdout)
		if err != nil {
			return nil, err
		}
		term = t
		return &console.Console{
			Screen:    t,
			Input:     t,
			Clock:     console.NewSystemClock(),
			Scheduler: console.SleepScheduler{Interval: cfg.Console.PollInterval},
		}, nil
	}

	flow := &bootflow.Flow{
		Store:          store,
		UI:             newConsoleUI(open),
		DefaultTimeout: cfg.Menu.DefaultTimeout,
	}
	res, runErr := flow.Run(cmd.Context())

	if term != nil {
		if err := term.Close(); err != nil {
			logging.Warn("Failed to restore terminal", zap.Error(err))
		}
	}

	return report(res, runErr)
}

func newConsoleUI(open func() (*console.Console, error)) *bootflow.ConsoleUI {
	return &bootflow.ConsoleUI{
		Open:        open,
		MenuOptions: menu.Options{AllowCancel: cfg.Menu.AllowCancel},
		FormOptions: login.FormOptions{
			Labels: login.Labels{
				Identity: cfg.Login.IdentityLabel,
				Secret:   cfg.Login.SecretLabel,
			},
			MaskSecret: cfg.Login.MaskSecret,
		},
	}
}

// report prints the result box and maps the flow error to an exit status.
func report(res bootflow.Result, err error) error {
	if !quiet {
		fmt.Println(ui.FlowReport(res, err).Render())
	}
	if err == nil {
		return nil
	}

	code := 1
	if bootflow.IsCancelled(err) {
		code = exitCancelled
	}
	return &exitError{code: code, err: err}
}

// settingsCmd groups store maintenance commands
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect or change boot settings",
	Long: `Inspect or change the settings the boot agent shares with ccboot-login.

Known settings:
  username                    identity, or the iscsi: multi-boot target
  password                    secret, or the ';'-terminated image labels
  hostname                    display hostname, may carry a (...) suffix
  root-path                   iSCSI root path chosen from the menu
  ccboot-multi-boot-timeout   menu countdown in seconds, 0 for the default`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		value, err := store.Get(cmd.Context(), args[0])
		if settings.IsNotSet(err) {
			return fmt.Errorf("%s is not set", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Set one setting",
	Example: `  # Normal login
  ccboot-login settings set username PC7

  # Multi-boot with three images
  ccboot-login settings set username iscsi:10.0.0.1::::iqn.2008-12.com.ccboot.211:3
  ccboot-login settings set password 'Win10;Win11;Linux;'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if err := checkSettingName(args[0]); err != nil {
			return err
		}
		if args[0] == settings.MultiBootTimeout {
			if _, err := strconv.ParseUint(args[1], 10, 8); err != nil {
				return fmt.Errorf("%s must be a number from 0 to %d", args[0], config.MaxTimeout)
			}
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		return store.Set(cmd.Context(), args[0], args[1])
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear <name>",
	Short: "Remove one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if err := checkSettingName(args[0]); err != nil {
			return err
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		return store.Clear(cmd.Context(), args[0])
	},
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every stored setting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		store, path, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		values, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		if !quiet {
			header := ui.NewHeader("Boot settings", "ccboot-login settings list").
				AddParam("Backend", cfg.Store.Backend)
			if path != "" {
				header.AddParam("Path", path)
			}
			fmt.Println(header.Render())
		}

		if len(values) == 0 {
			fmt.Println("No settings stored.")
			return nil
		}
		for _, name := range slices.Sorted(maps.Keys(values)) {
			fmt.Printf("%-27s %s\n", name, values[name])
		}
		return nil
	},
}

var resetYes bool

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every known setting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if !resetYes && !ui.Confirm(os.Stdin, os.Stdout, "Reset boot settings", []string{
			"username, password, hostname and root-path are removed",
			"The next boot shows the login form with empty fields",
		}, "RESET") {
			return nil
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		var errs []error
		for _, name := range settings.Names {
			if err := store.Clear(cmd.Context(), name); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	},
}

func init() {
	settingsResetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip the confirmation prompt")

	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsClearCmd)
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}

func checkSettingName(name string) error {
	if !slices.Contains(settings.Names, name) {
		return fmt.Errorf("unknown setting %q (expected one of %v)", name, settings.Names)
	}
	return nil
}

// Select command flags
var (
	selectTarget  string
	selectLabels  string
	selectTimeout int
)

// selectCmd runs the multi-boot menu against a throwaway store
var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Try the multi-boot menu without writing settings",
	Long: `Show the multi-boot menu for a target descriptor and print the root
path that would be written. The configured settings store is not touched.`,
	Example: `  # Three images, default countdown
  ccboot-login select --target iscsi:10.0.0.1::::iqn.2008-12.com.ccboot.211:3 --labels 'Win10;Win11;Linux;'

  # Longest countdown the boot agent can store
  ccboot-login select --target iscsi:10.0.0.1::::iqn.2008-12.com.ccboot.211:2 --timeout 255`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		initial, err := selectSettings(selectTarget, selectLabels, selectTimeout)
		if err != nil {
			return err
		}
		return runFlow(cmd, settings.WithLogging(settings.NewMemoryStore(initial)))
	},
}

// selectSettings builds the throwaway store contents for a dry run. A zero
// timeout leaves the setting unset so the configured default applies.
func selectSettings(target, labels string, timeout int) (map[string]string, error) {
	if timeout < 0 || timeout > config.MaxTimeout {
		return nil, fmt.Errorf("--timeout must be between 0 and %d seconds, got %d", config.MaxTimeout, timeout)
	}
	initial := map[string]string{
		settings.Username: target,
		settings.Password: labels,
	}
	if timeout > 0 {
		initial[settings.MultiBootTimeout] = strconv.Itoa(timeout)
	}
	return initial, nil
}

func init() {
	selectCmd.Flags().StringVar(&selectTarget, "target", "", "Multi-boot target descriptor (iscsi:...:<count>)")
	selectCmd.Flags().StringVar(&selectLabels, "labels", "", "Image labels, each terminated by ';'")
	selectCmd.Flags().IntVar(&selectTimeout, "timeout", 0, "Countdown in seconds, 1 to 255 (default from config)")
	_ = selectCmd.MarkFlagRequired("target")
}

// configCmd manages the application config file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the ccboot-login configuration file",
}

var configForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		path := configPath
		if path == "" {
			var err error
			if path, err = config.GetConfigPath(); err != nil {
				return err
			}
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		written, err := config.Save(config.Default(), path)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", written)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
