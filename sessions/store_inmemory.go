package sessions

import (
	"context"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
)

var _ Store = (*InMemoryStore)(nil)

// InMemoryStore keeps the token in process memory
type InMemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewInMemoryStore creates a store, optionally seeded with a token
func NewInMemoryStore(token ...string) *InMemoryStore {
	s := &InMemoryStore{}
	if len(token) > 0 {
		s.token = token[0]
	}
	return s
}

func (s *InMemoryStore) Get(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", apperrors.ErrNoToken
	}
	return s.token, nil
}

func (s *InMemoryStore) Set(_ context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidToken, "empty token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
