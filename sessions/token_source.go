package sessions

import (
	"context"

	"golang.org/x/oauth2"
)

var _ oauth2.TokenSource = (*storeTokenSource)(nil)

type storeTokenSource struct {
	ctx   context.Context
	store Store
}

// NewTokenSource exposes the persisted token as an oauth2.TokenSource. The
// token is re-read from the store on every call.
func NewTokenSource(ctx context.Context, store Store) oauth2.TokenSource {
	return &storeTokenSource{ctx: ctx, store: store}
}

func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	raw, err := s.store.Get(s.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}, nil
}
