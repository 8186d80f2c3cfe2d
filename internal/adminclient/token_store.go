package adminclient

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	TokenFileName = "admin_token"
	configDirName = "portfolio-admin"
)

// TokenStore keeps the most recent admin token between CLI invocations.
// Load returns an empty token when none is stored.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

var _ TokenStore = (*FileTokenStore)(nil)

type FileTokenStore struct {
	path string
}

func NewFileTokenStore(dir string) *FileTokenStore {
	return &FileTokenStore{
		path: filepath.Join(dir, TokenFileName),
	}
}

// DefaultTokenStore keeps the token under the user config dir,
// e.g. ~/.config/portfolio-admin/admin_token on linux.
func DefaultTokenStore() (*FileTokenStore, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("user config dir: %w", err)
	}
	return NewFileTokenStore(filepath.Join(configDir, configDirName)), nil
}

func (s *FileTokenStore) Path() string {
	return s.path
}

func (s *FileTokenStore) Load() (string, error) {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	// an older file keeps its mode on write
	return os.Chmod(s.path, 0o600)
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
