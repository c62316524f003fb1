// Package storage holds the durable session-token slot. One string
// value under a fixed location; absent means logged out.
package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
)

// TokenStore is the single durable slot for the session token.
type TokenStore interface {
	// Load returns the stored token and whether one is present.
	Load() (string, bool, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore persists the token to a single file. Writes go
// through an atomic replace so a crash never leaves a torn file.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates the parent directory if missing.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("token store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create token dir: %w", err)
	}
	return &FileTokenStore{path: path}, nil
}

func (f *FileTokenStore) Load() (string, bool, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false, nil
	}
	return token, true, nil
}

func (f *FileTokenStore) Save(token string) error {
	if err := atomic.WriteFile(f.path, bytes.NewReader([]byte(token+"\n"))); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Chmod(f.path, 0o600); err != nil {
		return fmt.Errorf("chmod token file: %w", err)
	}
	return nil
}

func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// MemTokenStore is an in-memory TokenStore for tests.
type MemTokenStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

func (m *MemTokenStore) Load() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.set, nil
}

func (m *MemTokenStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.set = true
	return nil
}

func (m *MemTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.set = false
	return nil
}
