package settings

import (
	"context"
	"errors"
)

// Setting names used by the boot agent.
const (
	Username         = "username"
	Password         = "password"
	Hostname         = "hostname"
	RootPath         = "root-path"
	MultiBootTimeout = "ccboot-multi-boot-timeout"
)

// Names lists the well-known settings in display order.
var Names = []string{Username, Password, Hostname, RootPath, MultiBootTimeout}

// ErrNotSet is returned by Get for a setting with no value.
var ErrNotSet = errors.New("setting not set")

// Store reads and writes named settings.
type Store interface {
	// Get returns the value of name, or ErrNotSet.
	Get(ctx context.Context, name string) (string, error)
	// Set stores value under name, replacing any previous value.
	Set(ctx context.Context, name, value string) error
	// Clear removes name. Clearing an unset setting is not an error.
	Clear(ctx context.Context, name string) error
}

// Lister enumerates every stored setting.
type Lister interface {
	List(ctx context.Context) (map[string]string, error)
}

// Backend is a Store that can be listed and must be closed.
type Backend interface {
	Store
	Lister
	Close() error
}

// Fetch returns the value of name, or "" if it is not set.
func Fetch(ctx context.Context, s Store, name string) (string, error) {
	v, err := s.Get(ctx, name)
	if errors.Is(err, ErrNotSet) {
		return "", nil
	}
	return v, err
}
