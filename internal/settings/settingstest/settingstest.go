// Package settingstest provides a recording settings store for tests.
package settingstest

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/ccboot/bootlogin/internal/settings"
)

// OpKind is the kind of a recorded write.
type OpKind string

const (
	OpSet   OpKind = "set"
	OpClear OpKind = "clear"
)

// Op is one write applied to the store.
type Op struct {
	Kind  OpKind
	Name  string
	Value string
}

// ErrInjected is returned by the failing write unless Err is set.
var ErrInjected = errors.New("injected write failure")

var _ settings.Backend = (*Store)(nil)

// Store is an in-memory settings.Backend that records every write and can
// be told to fail one of them.
type Store struct {
	mu     sync.Mutex
	values map[string]string
	ops    []Op
	writes int

	// FailAt makes the Nth write (1-based, sets and clears counted together)
	// fail without being applied. Zero disables.
	FailAt int
	// Err is returned by the failing write.
	Err error
}

// New creates a store seeded with initial. Seeding is not recorded.
func New(initial map[string]string) *Store {
	values := make(map[string]string, len(initial))
	maps.Copy(values, initial)
	return &Store{values: values}
}

func (s *Store) Get(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[name]
	if !ok {
		return "", settings.ErrNotSet
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail(); err != nil {
		return err
	}
	s.values[name] = value
	s.ops = append(s.ops, Op{Kind: OpSet, Name: name, Value: value})
	return nil
}

func (s *Store) Clear(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail(); err != nil {
		return err
	}
	delete(s.values, name)
	s.ops = append(s.ops, Op{Kind: OpClear, Name: name})
	return nil
}

func (s *Store) List(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return maps.Clone(s.values), nil
}

func (s *Store) Close() error { return nil }

func (s *Store) fail() error {
	s.writes++
	if s.FailAt == 0 || s.writes != s.FailAt {
		return nil
	}
	if s.Err != nil {
		return s.Err
	}
	return ErrInjected
}

// Ops returns the applied writes in order.
func (s *Store) Ops() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Op(nil), s.ops...)
}

// Values returns a copy of the current contents.
func (s *Store) Values() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return maps.Clone(s.values)
}
