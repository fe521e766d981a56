package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Manager owns the current configuration and its backing file.
type Manager struct {
	path string
	mu   sync.RWMutex
	cfg  *Config
}

// NewManager loads the configuration at path.
func NewManager(path string) (*Manager, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Manager{path: path, cfg: cfg}, nil
}

// Path returns the backing file path.
func (m *Manager) Path() string {
	return m.path
}

// Current returns a copy of the current configuration.
func (m *Manager) Current() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Clone()
}

// Reload re-reads the file and environment. On error the current
// configuration is kept.
func (m *Manager) Reload() error {
	cfg, err := Load(m.path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	return nil
}

// Update applies fn to a copy of the configuration and swaps it in if the
// result validates. It does not write the file; call Save for that.
func (m *Manager) Update(fn func(*Config) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.cfg.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	m.cfg = next
	return nil
}

// Save writes the current configuration to the backing file.
func (m *Manager) Save() error {
	m.mu.RLock()
	data, err := yaml.Marshal(m.cfg)
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(m.path, data, 0o600)
}
