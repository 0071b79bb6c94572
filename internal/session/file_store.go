package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
)

// FileStore keeps the single CLI session in a JSON file
type FileStore struct {
	path string
	mu   sync.Mutex
}

// DefaultFilePath returns the per-user session file, e.g. ~/.config/pessoas/session.json
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "pessoas", "session.json"), nil
}

// NewFileStore creates a store backed by path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the session file location
func (s *FileStore) Path() string {
	return s.path
}

// Save replaces the stored session; the ttl is kept in the session expiry
func (s *FileStore) Save(_ context.Context, sess *Session, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Load returns the stored session when its id matches
func (s *FileStore) Load(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.read()
	if err != nil {
		return nil, err
	}
	if sess.ID != id {
		return nil, models.ErrSessionNotFound
	}
	return sess, nil
}

// Current returns whatever session the file holds
func (s *FileStore) Current() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Delete removes the file when it holds the session id
func (s *FileStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.read()
	if errors.Is(err, models.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if sess.ID != id {
		return false, nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to remove session file: %w", err)
	}
	return true, nil
}

func (s *FileStore) read() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	return &sess, nil
}
