package sessions

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
)

var _ Store = (*FileStore)(nil)

// FileStore persists the token as the sole content of a file, which plays
// the part of browser local storage for command line use.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", apperrors.ErrNoToken
	}
	if err != nil {
		return "", apperrors.Wrapf(err, "reading session file %s", s.path)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", apperrors.ErrNoToken
	}
	return token, nil
}

// Set writes to a temporary file and renames it over the old one so a
// reader never sees a partially written token.
func (s *FileStore) Set(_ context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidToken, "empty token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return apperrors.Wrapf(err, "creating session directory")
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return apperrors.Wrapf(err, "creating session file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		return apperrors.Wrapf(err, "writing session file")
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrapf(err, "closing session file")
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return apperrors.Wrapf(err, "securing session file")
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrapf(err, "removing session file")
	}
	return nil
}
