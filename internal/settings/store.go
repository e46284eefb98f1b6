package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Store.Get when the key has no value
var ErrNotFound = errors.New("setting not found")

// Store persists string keys to opaque values
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Backends understood by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend at path. An empty path selects the
// default location of that backend.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		if path == "" {
			path = filepath.Join(ConfigDir(), "preferences.toml")
		}
		return NewFileStore(path), nil
	case BackendSQLite:
		if path == "" {
			path = filepath.Join(ConfigDir(), "preferences.db")
		}
		store, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown settings backend: %s", backend)
	}
}

// ConfigDir returns the per-user directory of the application, honouring
// XDG_CONFIG_HOME
func ConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "zhuyin")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "zhuyin")
}
