package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	appName    = "ccboot"
	configFile = "config.yaml"
	envPrefix  = "CCBOOT"
)

// Mutex for thread-safe file operations
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/ccboot or $HOME/.config/ccboot
//   - macOS: $HOME/.config/ccboot
//   - Windows: %LOCALAPPDATA%\ccboot
func GetConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(userProfile, "AppData", "Local", appName), nil

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil

	default:
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			return filepath.Join(xdgConfigHome, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads the configuration. An empty path means config.yaml in the
// config directory, which may be absent. CCBOOT_* environment variables
// override file values, e.g. CCBOOT_STORE_BACKEND or
// CCBOOT_MENU_DEFAULT_TIMEOUT.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := GetConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so environment overrides apply to keys
// that are missing from the file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("menu.allow_cancel", d.Menu.AllowCancel)
	v.SetDefault("menu.default_timeout", d.Menu.DefaultTimeout)
	v.SetDefault("login.identity_label", d.Login.IdentityLabel)
	v.SetDefault("login.secret_label", d.Login.SecretLabel)
	v.SetDefault("login.mask_secret", d.Login.MaskSecret)
	v.SetDefault("console.poll_interval", d.Console.PollInterval)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// Save writes cfg to path, or to the default location when path is empty.
// Performs an atomic write to prevent corruption on crash.
func Save(cfg *Config, path string) (string, error) {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return "", fmt.Errorf("failed to get config path: %w", err)
		}
	}

	// Create directory with user-only permissions (0700)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return "", err
	}

	header := []byte(`# ccboot-login configuration
#
# Boot settings themselves (username, password, root-path, ...) live in the
# settings store selected below, not in this file.
#
# Location: ` + path + `

`)
	data = append(header, data...)

	// Write to temporary file first (atomic write)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Clean up temp file on error
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to save config file: %w", err)
	}

	return path, nil
}

// Marshal renders cfg in the YAML form Load accepts.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(toFile(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// fileConfig is Config with the duration written in its string form.
type fileConfig struct {
	Store   StoreConfig `yaml:"store"`
	Menu    MenuConfig  `yaml:"menu"`
	Login   LoginConfig `yaml:"login"`
	Console struct {
		PollInterval string `yaml:"poll_interval"`
	} `yaml:"console"`
	Log LogConfig `yaml:"log"`
}

func toFile(cfg *Config) fileConfig {
	fc := fileConfig{
		Store: cfg.Store,
		Menu:  cfg.Menu,
		Login: cfg.Login,
		Log:   cfg.Log,
	}
	fc.Console.PollInterval = cfg.Console.PollInterval.String()
	return fc
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}
