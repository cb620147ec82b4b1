package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/clinic-gateway/gateway"
	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
	"github.com/jrsteele09/clinic-gateway/sessions"
	"github.com/jrsteele09/clinic-gateway/token/jwt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const LoginPath = "/api/auth/login"

// Token field names accepted in a login response, first match wins
var tokenFields = []string{"token", "accessToken", "access_token"}

// Credentials are posted to the login endpoint
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service owns the write side of the session: login persists the issued
// token and logout clears it.
type Service struct {
	gateway *gateway.Gateway
	store   sessions.Store
	baseURL string
	logger  zerolog.Logger
}

func NewService(gw *gateway.Gateway, store sessions.Store, baseURL string) *Service {
	return &Service{
		gateway: gw,
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.Logger,
	}
}

// Login exchanges credentials for a token, persists it (replacing any
// previous one) and returns its claims.
func (s *Service) Login(ctx context.Context, creds Credentials) (jwt.Claims, error) {
	if err := validateCredentials(creds); err != nil {
		return nil, err
	}

	body, err := gateway.JSONBody(creds)
	if err != nil {
		return nil, err
	}

	var resp map[string]any
	err = s.gateway.DoInto(ctx, gateway.Request{
		URL:    s.baseURL + LoginPath,
		Method: http.MethodPost,
		Body:   body,
	}, &resp)
	if err != nil {
		return nil, err
	}

	token := tokenFromResponse(resp)
	if token == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "login response carried no token")
	}

	claims, ok := jwt.DecodeToken(token)
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "login response carried a malformed token")
	}

	if err := s.store.Set(ctx, token); err != nil {
		return nil, apperrors.Wrapf(err, "persisting session")
	}

	s.logger.Info().Str("email", creds.Email).Msg("logged in")
	return claims, nil
}

// Logout removes the persisted token
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return apperrors.Wrapf(err, "clearing session")
	}
	s.logger.Info().Msg("logged out")
	return nil
}

func validateCredentials(creds Credentials) error {
	if strings.TrimSpace(creds.Email) == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "email is required")
	}
	if creds.Password == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "password is required")
	}
	return nil
}

func tokenFromResponse(resp map[string]any) string {
	for _, field := range tokenFields {
		if s, ok := resp[field].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
