package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Fixed keys under which session state is persisted.
const (
	AuthTokenKey = "authToken"
	UsernameKey  = "username"
)

// SessionStore persists small string values across calls (and, for
// FileStore, across processes). Implementations must be safe for concurrent
// use: a 401 on one call may clear the token while another call reads it.
type SessionStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

var (
	_ SessionStore = (*MemoryStore)(nil)
	_ SessionStore = (*FileStore)(nil)
)

// MemoryStore is a SessionStore that lives for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// DefaultSessionPath is where the CLI keeps its session.
const DefaultSessionPath = "~/.config/anvaya/session.toml"

// FileStore keeps session values in a TOML file. Every write replaces the
// file atomically and leaves it readable by the owner only.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a FileStore at path, expanding a leading "~". An
// empty path means DefaultSessionPath. The file is created on first write.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultSessionPath
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("session file: %w", err)
	}
	return &FileStore{path: resolved}, nil
}

// Path returns the resolved file location.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(values)
}

func (f *FileStore) load() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", f.path, err)
	}
	return values, nil
}

func (f *FileStore) save(values map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.toml")
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

// ---- Token operations ----

// SetAuthToken persists token for subsequent calls.
func (c *Client) SetAuthToken(token string) error {
	return c.store.Set(AuthTokenKey, token)
}

// ClearAuthToken removes the persisted token. The username is kept.
func (c *Client) ClearAuthToken() error {
	return c.store.Delete(AuthTokenKey)
}

// AuthToken returns the persisted token, or "" when there is none.
func (c *Client) AuthToken() (string, error) {
	token, _, err := c.store.Get(AuthTokenKey)
	return token, err
}

// IsAuthenticated reports whether a token is persisted. It says nothing
// about whether the server still accepts it.
func (c *Client) IsAuthenticated() bool {
	token, ok, err := c.store.Get(AuthTokenKey)
	return err == nil && ok && token != ""
}

// CurrentUser returns the username stored at login, or "" when unknown.
func (c *Client) CurrentUser() (string, error) {
	name, _, err := c.store.Get(UsernameKey)
	return name, err
}

// Logout forgets the token and the username.
func (c *Client) Logout() error {
	if err := c.store.Delete(AuthTokenKey); err != nil {
		return err
	}
	return c.store.Delete(UsernameKey)
}
