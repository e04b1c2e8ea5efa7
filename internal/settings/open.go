package settings

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ccboot/bootlogin/internal/logging"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists the names accepted by Open.
var Backends = []string{BackendFile, BackendBolt, BackendSQLite, BackendMemory}

// Open creates the named backend at path. The memory backend ignores path.
func Open(backend, path string) (Backend, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(path)
	case BackendBolt:
		return NewBoltStore(path)
	case BackendSQLite:
		return NewSQLStore(path)
	case BackendMemory:
		return NewMemoryStore(nil), nil
	default:
		return nil, fmt.Errorf("unknown settings backend %q (expected one of %v)", backend, Backends)
	}
}

// WithLogging wraps b so that every write and clear is logged.
func WithLogging(b Backend) Backend {
	return &loggedBackend{Backend: b}
}

type loggedBackend struct {
	Backend
}

func (l *loggedBackend) Set(ctx context.Context, name, value string) error {
	if err := l.Backend.Set(ctx, name, value); err != nil {
		logging.Error("Setting write failed", zap.String("setting", name), zap.Error(err))
		return err
	}
	logging.LogSettingWrite(name, value)
	return nil
}

func (l *loggedBackend) Clear(ctx context.Context, name string) error {
	if err := l.Backend.Clear(ctx, name); err != nil {
		logging.Error("Setting clear failed", zap.String("setting", name), zap.Error(err))
		return err
	}
	logging.LogSettingClear(name)
	return nil
}
