package settings

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const fileVersion = 1

var _ Backend = (*FileStore)(nil)

// fileDocument is the on-disk layout of a FileStore.
type fileDocument struct {
	Version  int               `yaml:"version"`
	Settings map[string]string `yaml:"settings"`
}

// FileStore keeps settings in a YAML file. Every write rewrites the whole
// file through a temporary file and a rename.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens a YAML settings file, creating its directory if needed.
// The file itself is created on first write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, newStoreError("file", "open", "", errors.New("no path given"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, newStoreError("file", "open", "", fmt.Errorf("failed to create directory: %w", err))
	}

	s := &FileStore{path: path}
	// Fail early on an unreadable or corrupt file.
	if _, err := s.load(); err != nil {
		return nil, newStoreError("file", "open", "", err)
	}
	return s, nil
}

// Path returns the file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if doc.Version != 0 && doc.Version != fileVersion {
		return nil, fmt.Errorf("unsupported settings version: %d (expected %d)", doc.Version, fileVersion)
	}
	if doc.Settings == nil {
		doc.Settings = map[string]string{}
	}
	return doc.Settings, nil
}

func (s *FileStore) save(values map[string]string) error {
	data, err := yaml.Marshal(fileDocument{Version: fileVersion, Settings: values})
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	header := []byte("# ccboot settings\n# Values are read by the boot agent at startup.\n\n")
	data = append(header, data...)

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary settings file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save settings file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", newStoreError("file", "get", name, err)
	}
	v, ok := values[name]
	if !ok {
		return "", ErrNotSet
	}
	return v, nil
}

func (s *FileStore) Set(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return newStoreError("file", "set", name, err)
	}
	values[name] = value
	if err := s.save(values); err != nil {
		return newStoreError("file", "set", name, err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return newStoreError("file", "clear", name, err)
	}
	if _, ok := values[name]; !ok {
		return nil
	}
	delete(values, name)
	if err := s.save(values); err != nil {
		return newStoreError("file", "clear", name, err)
	}
	return nil
}

func (s *FileStore) List(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return nil, newStoreError("file", "list", "", err)
	}
	return maps.Clone(values), nil
}

func (s *FileStore) Close() error { return nil }
