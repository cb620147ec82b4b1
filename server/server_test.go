package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	institutionrepofakes "github.com/jrsteele09/clinic-gateway/institutions/repofakes"
	"github.com/jrsteele09/clinic-gateway/internal/config"
	"github.com/jrsteele09/clinic-gateway/server"
	"github.com/jrsteele09/clinic-gateway/token/jwt"
	fakeuserrepo "github.com/jrsteele09/clinic-gateway/users/repofake"
	"github.com/stretchr/testify/require"
)

const seedPassword = "password123"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	t.Setenv("DEV_SEED_PASSWORD", seedPassword)
	t.Setenv("DEV_SIGNING_SECRET", "test-secret")

	s, err := server.New(config.New(), fakeuserrepo.NewFakeUserRepo(), institutionrepofakes.NewFakeInstitutionRepo())
	require.NoError(t, err)

	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func login(t *testing.T, baseURL string, role jwt.Role) string {
	t.Helper()
	resp, body := call(t, http.MethodPost, baseURL+server.RouteLogin, "", map[string]string{
		"email":    server.DemoEmail(role),
		"password": seedPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func staffURL(baseURL string, institutionID int64) string {
	return fmt.Sprintf("%s/api/institutions/%d/staff", baseURL, institutionID)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	t.Run("issues token with institution claims", func(t *testing.T) {
		token := login(t, ts.URL, jwt.RoleDoctor)
		claims, ok := jwt.DecodeToken(token)
		require.True(t, ok)

		id, ok := claims.InstitutionID()
		require.True(t, ok)
		require.Equal(t, server.DemoInstitutionID, id)
		role, ok := claims.Role()
		require.True(t, ok)
		require.Equal(t, jwt.RoleDoctor, role)
		exp, ok := claims.ExpiresAt()
		require.True(t, ok)
		require.Greater(t, exp, time.Now().Unix())
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, body := call(t, http.MethodPost, ts.URL+server.RouteLogin, "", map[string]string{
			"email":    server.DemoEmail(jwt.RoleDoctor),
			"password": "nope",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "Invalid email or password", body["message"])
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, body := call(t, http.MethodPost, ts.URL+server.RouteLogin, "", map[string]any{"unexpected": 1})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Contains(t, body["message"], "invalid JSON body")
	})
}

func TestLogin_ClinicClaimStyle(t *testing.T) {
	t.Setenv("DEV_CLAIM_STYLE", "clinic")
	ts := newTestServer(t)

	token := login(t, ts.URL, jwt.RoleNurse)
	claims, ok := jwt.DecodeToken(token)
	require.True(t, ok)
	require.Contains(t, claims, "clinic_id")
	require.Contains(t, claims, "userRole")

	id, ok := claims.InstitutionID()
	require.True(t, ok)
	require.Equal(t, server.DemoInstitutionID, id)

	// The server reads its own alias style back when authorising
	resp, _ := call(t, http.MethodGet, staffURL(ts.URL, server.DemoInstitutionID)+"/1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStaffAuthorisation(t *testing.T) {
	ts := newTestServer(t)
	doctor := login(t, ts.URL, jwt.RoleDoctor)
	sysadmin := login(t, ts.URL, jwt.RoleSystemAdmin)

	tests := []struct {
		name   string
		method string
		url    string
		token  string
		body   any
		status int
	}{
		{name: "missing token", method: http.MethodGet, url: staffURL(ts.URL, 1), status: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, url: staffURL(ts.URL, 1), token: "a.b.c", status: http.StatusUnauthorized},
		{name: "own institution", method: http.MethodGet, url: staffURL(ts.URL, 1), token: doctor, status: http.StatusOK},
		{name: "other institution", method: http.MethodGet, url: staffURL(ts.URL, 2), token: doctor, status: http.StatusForbidden},
		{name: "system admin crosses institutions", method: http.MethodGet, url: staffURL(ts.URL, 2), token: sysadmin, status: http.StatusOK},
		{name: "doctor may not create", method: http.MethodPost, url: staffURL(ts.URL, 1), token: doctor, body: map[string]string{"name": "x", "email": "x@y.z", "role": "nurse"}, status: http.StatusForbidden},
		{name: "bad institution id", method: http.MethodGet, url: ts.URL + "/api/institutions/abc/staff", token: doctor, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := call(t, tt.method, tt.url, tt.token, tt.body)
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.status >= 400 {
				require.NotEmpty(t, body["message"])
			}
		})
	}
}

func TestStaffCRUD(t *testing.T) {
	ts := newTestServer(t)
	admin := login(t, ts.URL, jwt.RoleClinicAdmin)
	base := staffURL(ts.URL, server.DemoInstitutionID)

	resp, created := call(t, http.MethodPost, base, admin, map[string]string{
		"name": "Grace", "email": "grace@clinic.test", "role": "lab", "password": "labwork42",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := int64(created["id"].(float64))
	require.NotContains(t, created, "passwordHash")

	resp, body := call(t, http.MethodPost, base, admin, map[string]string{
		"name": "Grace again", "email": "grace@clinic.test", "role": "lab",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NotEmpty(t, body["message"])

	resp, body = call(t, http.MethodPost, base, admin, map[string]string{
		"name": "Nobody", "email": "n@clinic.test", "role": "janitor",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body["message"], "unknown role")

	resp, updated := call(t, http.MethodPut, fmt.Sprintf("%s/%d", base, id), admin, map[string]string{"department": "Haematology"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Haematology", updated["department"])
	require.Equal(t, "Grace", updated["name"])

	// The new account can log in
	resp, _ = call(t, http.MethodPost, ts.URL+server.RouteLogin, "", map[string]string{"email": "grace@clinic.test", "password": "labwork42"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, http.MethodDelete, fmt.Sprintf("%s/%d", base, id), admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = call(t, http.MethodGet, fmt.Sprintf("%s/%d", base, id), admin, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Not found", body["message"])
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	resp, body := call(t, http.MethodGet, ts.URL+server.RouteHealth, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "healthy", body["status"])

	resp, err := http.Get(ts.URL + server.RouteMetrics)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	t.Setenv("DEV_ALLOWED_ORIGINS", "http://dashboard.test")
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, staffURL(ts.URL, 1), nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://dashboard.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "http://dashboard.test", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestInstitutions(t *testing.T) {
	ts := newTestServer(t)
	doctor := login(t, ts.URL, jwt.RoleDoctor)
	sysadmin := login(t, ts.URL, jwt.RoleSystemAdmin)

	t.Run("system admin lists institutions", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.URL+server.RouteInstitutions+"?limit=2", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+sysadmin)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		require.Len(t, list, 2)
		require.Equal(t, "hospital", list[0]["kind"])
	})

	t.Run("other roles may not list", func(t *testing.T) {
		resp, _ := call(t, http.MethodGet, ts.URL+server.RouteInstitutions, doctor, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("own institution", func(t *testing.T) {
		resp, body := call(t, http.MethodGet, fmt.Sprintf("%s/api/institutions/%d", ts.URL, server.DemoInstitutionID), doctor, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "Demo General Hospital", body["name"])
	})

	t.Run("unknown institution", func(t *testing.T) {
		resp, body := call(t, http.MethodGet, ts.URL+"/api/institutions/99/staff", sysadmin, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.Equal(t, "Not found", body["message"])
	})
}
