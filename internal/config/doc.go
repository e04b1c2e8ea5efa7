// Package config loads the ccboot-login application configuration.
//
// The configuration chooses the settings store backend and tunes the menu,
// the credential form, the console polling loop and logging. It is read with
// viper from a YAML file, with CCBOOT_* environment overrides and built-in
// defaults for every key.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/ccboot/config.yaml or $HOME/.config/ccboot/config.yaml
//   - macOS: $HOME/.config/ccboot/config.yaml
//   - Windows: %LOCALAPPDATA%\ccboot\config.yaml
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	path, err := cfg.StorePath()
//
// Boot settings themselves never live in this file.
package config
