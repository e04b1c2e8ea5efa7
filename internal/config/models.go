package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"
)

// Config is the application configuration for ccboot-login.
type Config struct {
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Menu    MenuConfig    `mapstructure:"menu" yaml:"menu"`
	Login   LoginConfig   `mapstructure:"login" yaml:"login"`
	Console ConsoleConfig `mapstructure:"console" yaml:"console"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// StoreConfig selects where boot settings live.
type StoreConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"` // file, bolt, sqlite or memory
	Path    string `mapstructure:"path" yaml:"path"`       // Empty means inside the config directory
}

// MenuConfig tunes the multi-boot menu.
type MenuConfig struct {
	AllowCancel    bool `mapstructure:"allow_cancel" yaml:"allow_cancel"`       // Ctrl-C / Escape cancel the menu
	DefaultTimeout int  `mapstructure:"default_timeout" yaml:"default_timeout"` // Seconds when the timeout setting is 0
}

// LoginConfig tunes the credential form.
type LoginConfig struct {
	IdentityLabel string `mapstructure:"identity_label" yaml:"identity_label"`
	SecretLabel   string `mapstructure:"secret_label" yaml:"secret_label"`
	MaskSecret    bool   `mapstructure:"mask_secret" yaml:"mask_secret"`
}

// ConsoleConfig tunes the terminal polling loop.
type ConsoleConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

// LogConfig mirrors the logging flags.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // Empty means silent
	File  string `mapstructure:"file" yaml:"file"`   // Empty means stderr
}

// Store backends, as accepted by settings.Open.
var storeBackends = []string{"file", "bolt", "sqlite", "memory"}

// MaxTimeout is the largest countdown the boot agent can store.
const MaxTimeout = 255

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: "file",
		},
		Menu: MenuConfig{
			AllowCancel:    true,
			DefaultTimeout: 3,
		},
		Login: LoginConfig{
			IdentityLabel: "Computer Name",
			SecretLabel:   "IP Address",
		},
		Console: ConsoleConfig{
			PollInterval: 10 * time.Millisecond,
		},
	}
}

// Validate checks values that would otherwise fail later.
func (c *Config) Validate() error {
	if !slices.Contains(storeBackends, c.Store.Backend) {
		return fmt.Errorf("store.backend %q is not one of %v", c.Store.Backend, storeBackends)
	}
	if c.Menu.DefaultTimeout < 1 || c.Menu.DefaultTimeout > MaxTimeout {
		return fmt.Errorf("menu.default_timeout must be between 1 and %d, got %d", MaxTimeout, c.Menu.DefaultTimeout)
	}
	if c.Console.PollInterval <= 0 {
		return fmt.Errorf("console.poll_interval must be positive, got %s", c.Console.PollInterval)
	}
	return nil
}

// defaultStoreFiles names the store file per backend.
var defaultStoreFiles = map[string]string{
	"file":   "settings.yaml",
	"bolt":   "settings.db",
	"sqlite": "settings.sqlite",
}

// StorePath returns the configured store path, or the backend's default file
// inside the config directory.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return expandPath(c.Store.Path), nil
	}
	name, ok := defaultStoreFiles[c.Store.Backend]
	if !ok {
		return "", nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
