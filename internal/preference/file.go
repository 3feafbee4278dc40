package preference

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// File persists values as a YAML mapping. The whole file is rewritten on
// every Set.
type File struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewFile creates a store backed by the file at path. The file need not
// exist yet.
func NewFile(path string, logger *slog.Logger) *File {
	return &File{path: path, logger: logger}
}

func (f *File) Get(key, def string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		f.debug("preference read failed", err)
		return def
	}
	if v := values[key]; v != "" {
		return v
	}
	return def
}

func (f *File) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		// A corrupt file is replaced rather than blocking writes forever.
		f.debug("preference read failed", err)
		values = map[string]string{}
	}
	values[key] = value

	if err := f.save(values); err != nil {
		f.debug("preference write dropped", err)
	}
}

func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse preferences: %w", err)
	}
	return values, nil
}

func (f *File) save(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}

func (f *File) debug(msg string, err error) {
	if f.logger != nil {
		f.logger.Debug(msg, "path", f.path, "error", err)
	}
}
