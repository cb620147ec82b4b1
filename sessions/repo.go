package sessions

import "context"

// Store holds the single persisted bearer token for a session. At most one
// token is held at a time: Set replaces it wholesale and Clear removes it.
// Get returns errors.ErrNoToken when nothing is persisted.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// HasToken reports whether the store currently holds a token. Store errors
// are treated as no token.
func HasToken(ctx context.Context, store Store) bool {
	token, err := store.Get(ctx)
	return err == nil && token != ""
}
