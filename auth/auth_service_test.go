package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/clinic-gateway/auth"
	"github.com/jrsteele09/clinic-gateway/gateway"
	institutionrepofakes "github.com/jrsteele09/clinic-gateway/institutions/repofakes"
	"github.com/jrsteele09/clinic-gateway/internal/config"
	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
	"github.com/jrsteele09/clinic-gateway/server"
	"github.com/jrsteele09/clinic-gateway/sessions"
	"github.com/jrsteele09/clinic-gateway/token/jwt"
	fakeuserrepo "github.com/jrsteele09/clinic-gateway/users/repofake"
	"github.com/stretchr/testify/require"
)

func newDevServer(t *testing.T) *httptest.Server {
	t.Helper()
	t.Setenv("DEV_SEED_PASSWORD", "password123")
	s, err := server.New(config.New(), fakeuserrepo.NewFakeUserRepo(), institutionrepofakes.NewFakeInstitutionRepo())
	require.NoError(t, err)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

func TestLoginLogout(t *testing.T) {
	ts := newDevServer(t)
	store := sessions.NewInMemoryStore("stale-token")
	svc := auth.NewService(gateway.New(store), store, ts.URL+"/")
	ctx := context.Background()

	claims, err := svc.Login(ctx, auth.Credentials{Email: server.DemoEmail(jwt.RoleLab), Password: "password123"})
	require.NoError(t, err)
	role, ok := claims.Role()
	require.True(t, ok)
	require.Equal(t, jwt.RoleLab, role)

	token, err := store.Get(ctx)
	require.NoError(t, err)
	require.NotEqual(t, "stale-token", token)

	reader := jwt.NewReader(store)
	id, ok := reader.InstitutionID(ctx)
	require.True(t, ok)
	require.Equal(t, server.DemoInstitutionID, id)
	require.False(t, reader.IsExpired(ctx))

	require.NoError(t, svc.Logout(ctx))
	require.False(t, sessions.HasToken(ctx, store))
	require.True(t, reader.IsExpired(ctx))

	// Logging out twice is harmless
	require.NoError(t, svc.Logout(ctx))
}

func TestLogin_Failures(t *testing.T) {
	ts := newDevServer(t)
	ctx := context.Background()

	t.Run("bad credentials keep the old token", func(t *testing.T) {
		store := sessions.NewInMemoryStore("old")
		svc := auth.NewService(gateway.New(store), store, ts.URL)

		_, err := svc.Login(ctx, auth.Credentials{Email: server.DemoEmail(jwt.RoleDoctor), Password: "wrong"})
		var gwErr *gateway.Error
		require.ErrorAs(t, err, &gwErr)
		require.Equal(t, http.StatusUnauthorized, gwErr.Status)
		require.Equal(t, "Invalid email or password", gwErr.Error())

		token, err := store.Get(ctx)
		require.NoError(t, err)
		require.Equal(t, "old", token)
	})

	t.Run("missing fields", func(t *testing.T) {
		store := sessions.NewInMemoryStore()
		svc := auth.NewService(gateway.New(store), store, ts.URL)

		_, err := svc.Login(ctx, auth.Credentials{Password: "x"})
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
		_, err = svc.Login(ctx, auth.Credentials{Email: "a@b.c"})
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})
}

func TestLogin_ResponseShapes(t *testing.T) {
	const token = "eyJhbGciOiJIUzI1NiJ9.eyJyb2xlIjoibnVyc2UiLCJob3NwaXRhbElkIjo0fQ.sig"

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "token", body: `{"token":"` + token + `"}`},
		{name: "access_token", body: `{"access_token":"` + token + `"}`},
		{name: "no token", body: `{"ok":true}`, wantErr: apperrors.ErrInvalidToken},
		{name: "malformed token", body: `{"token":"not-a-jwt"}`, wantErr: apperrors.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, auth.LoginPath, r.URL.Path)
				require.Equal(t, http.MethodPost, r.Method)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			store := sessions.NewInMemoryStore()
			svc := auth.NewService(gateway.New(store), store, ts.URL)
			claims, err := svc.Login(context.Background(), auth.Credentials{Email: "n@clinic.test", Password: "pw"})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.False(t, sessions.HasToken(context.Background(), store))
				return
			}
			require.NoError(t, err)
			id, ok := claims.InstitutionID()
			require.True(t, ok)
			require.Equal(t, int64(4), id)
		})
	}
}
