// Package preference remembers small per-profile settings, such as the last
// selected project, across runs.
package preference

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// SelectedProjectKey is the flat key holding the selected project id. It is
// shared across organizations.
const SelectedProjectKey = "selectedProject"

// Store is a key-value persistence shim. Implementations never fail: reads
// fall back to the default and writes that cannot be persisted are dropped.
type Store interface {
	Get(key, def string) string
	Set(key, value string)
}

// Open returns a File store at path, or Nop when no persistent medium is
// available (empty path or a directory that cannot be created).
func Open(path string, logger *slog.Logger) Store {
	if path == "" {
		return Nop{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		if logger != nil {
			logger.Warn("preference storage unavailable", "path", path, "error", err)
		}
		return Nop{}
	}
	return NewFile(path, logger)
}

// Nop is used when no persistent medium exists.
type Nop struct{}

// Get returns def, or "" when no default is supplied.
func (Nop) Get(_, def string) string { return def }

// Set drops the value.
func (Nop) Set(string, string) {}

// Memory keeps values for the lifetime of the process.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key, def string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok && v != "" {
		return v
	}
	return def
}

func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}
