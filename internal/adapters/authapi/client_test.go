package authapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/observability/metrics"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"

	mockauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/mocks/auth"
)

func newTestClient(t *testing.T, srv *httptest.Server, redirector ports.LoginRedirector) *Client {
	t.Helper()
	if redirector == nil {
		redirector = &mockauth.RecordingRedirector{}
	}
	c, err := NewClient(Config{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		Redirector: redirector,
	})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_Validation(t *testing.T) {
	redirector := &mockauth.RecordingRedirector{}

	_, err := NewClient(Config{BaseURL: "", Redirector: redirector})
	require.Error(t, err)

	_, err = NewClient(Config{BaseURL: "/relative", Redirector: redirector})
	require.Error(t, err)

	_, err = NewClient(Config{BaseURL: "http://auth.local"})
	require.Error(t, err)

	_, err = NewClient(Config{
		BaseURL:    "http://auth.local",
		Redirector: redirector,
		Identity:   IdentityMapping{RootExpr: "user[["},
	})
	require.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://auth.local/", Redirector: redirector})
	require.NoError(t, err)
	assert.Equal(t, DefaultCSRFCookieName, c.csrfCookie)
	assert.Equal(t, DefaultCSRFHeaderName, c.csrfHeader)
	assert.NotNil(t, c.http.Jar)
}

func TestClient_LoginStoresCookies(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+PathLogin, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s-1", Path: "/", HttpOnly: true})
		http.SetCookie(w, &http.Cookie{Name: DefaultCSRFCookieName, Value: "tok-1", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	res := c.Login(context.Background(), ports.LoginInput{Identifier: "alice", Password: "pw", RememberMe: true})

	require.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.Equal(t, "alice", gotBody["identifier"])
	assert.Equal(t, "pw", gotBody["password"])
	assert.Equal(t, true, gotBody["remember_me"])

	token, ok := c.CSRFToken()
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
}

func TestClient_FailureMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "json error field", status: http.StatusUnauthorized, body: `{"error":"Invalid credentials"}`, wantErr: "Invalid credentials"},
		{name: "json message field", status: http.StatusBadRequest, body: `{"message":"Email taken"}`, wantErr: "Email taken"},
		{name: "structured error object", status: http.StatusUnauthorized, body: `{"error":{"code":1},"message":"bad creds"}`, wantErr: "bad creds"},
		{name: "plain text", status: http.StatusForbidden, body: "Account locked", wantErr: "Account locked"},
		{name: "empty body", status: http.StatusInternalServerError, body: "", wantErr: "Login failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			res := newTestClient(t, srv, nil).Login(context.Background(), ports.LoginInput{Identifier: "a", Password: "b"})
			assert.False(t, res.Success)
			assert.Equal(t, tt.wantErr, res.Error)
		})
	}
}

func TestClient_FallbackMessagePerOperation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()
	c := newTestClient(t, srv, nil)
	ctx := context.Background()

	assert.Equal(t, "Registration failed", c.Register(ctx, ports.RegisterInput{Username: "u"}).Error)
	assert.Equal(t, "Profile update failed", c.UpdateProfile(ctx, ports.ProfileInput{Username: "u"}).Error)
	assert.Equal(t, "Password change failed", c.ChangePassword(ctx, ports.ChangePasswordInput{Email: "e"}).Error)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	reg := prometheus.NewRegistry()
	rec := metrics.NewSession(reg)
	c, err := NewClient(Config{BaseURL: srv.URL, Redirector: &mockauth.RecordingRedirector{}, Metrics: rec})
	require.NoError(t, err)
	srv.Close()

	ctx := context.Background()
	res := c.Login(ctx, ports.LoginInput{Identifier: "a", Password: "b"})
	assert.False(t, res.Success)
	assert.Equal(t, "Network error", res.Error)
	assert.Nil(t, c.GetUserInfo(ctx))
	assert.False(t, c.RefreshSession(ctx))

	count, err := testutil.GatherAndCount(reg, "opscenter_gateway_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestClient_GetUserInfo(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantNil   bool
		wantUser  string
		wantPerms []string
		wantRoles []string
	}{
		{
			name:      "wrapped with role permissions",
			status:    http.StatusOK,
			body:      `{"user":{"id":7,"username":"alice","email":"a@x","roles":[{"name":"analyst","permissions":["cop.view","rfi.view"]},{"name":"viewer","permissions":["cop.view"]}]}}`,
			wantUser:  "alice",
			wantPerms: []string{"cop.view", "rfi.view"},
			wantRoles: []string{"analyst", "viewer"},
		},
		{
			name:      "flat permissions",
			status:    http.StatusOK,
			body:      `{"id":"u1","username":"root","roles":["admin"],"permissions":["*"]}`,
			wantUser:  "root",
			wantPerms: []string{"*"},
			wantRoles: []string{"admin"},
		},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"no session"}`, wantNil: true},
		{name: "empty object", status: http.StatusOK, body: `{}`, wantNil: true},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, PathUser, r.URL.Path)
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			got := newTestClient(t, srv, nil).GetUserInfo(context.Background())
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantUser, got.Username)
			assert.ElementsMatch(t, tt.wantPerms, got.Permissions)
			assert.Equal(t, tt.wantRoles, got.RoleNames())
		})
	}
}

func TestClient_CustomIdentityMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"id":       "u9",
				"username": "ops",
				"grants":   []string{"targeting.view"},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(Config{
		BaseURL:    srv.URL,
		Redirector: &mockauth.RecordingRedirector{},
		Identity:   IdentityMapping{RootExpr: "data", PermissionsExpr: "grants"},
	})
	require.NoError(t, err)

	got := c.GetUserInfo(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, "u9", got.ID)
	assert.Equal(t, []string{"targeting.view"}, got.Permissions)
}

func TestClient_MutationsEchoCSRFHeader(t *testing.T) {
	var refreshHeader, profileHeader string
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+PathLogin, func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: DefaultCSRFCookieName, Value: "tok-2", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST "+PathRefresh, func(w http.ResponseWriter, r *http.Request) {
		refreshHeader = r.Header.Get(DefaultCSRFHeaderName)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PUT "+PathProfile, func(w http.ResponseWriter, r *http.Request) {
		profileHeader = r.Header.Get(DefaultCSRFHeaderName)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": "u1", "username": body["username"]}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv, nil)
	ctx := context.Background()
	require.True(t, c.Login(ctx, ports.LoginInput{Identifier: "a", Password: "b"}).Success)

	assert.True(t, c.RefreshSession(ctx))
	assert.Equal(t, "tok-2", refreshHeader)

	res := c.UpdateProfile(ctx, ports.ProfileInput{Username: "renamed"})
	require.True(t, res.Success)
	assert.Equal(t, "tok-2", profileHeader)
	require.NotNil(t, res.Identity)
	assert.Equal(t, "renamed", res.Identity.Username)
}

func TestClient_LogoutRedirectsEvenWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	redirector := &mockauth.RecordingRedirector{}
	c := newTestClient(t, srv, redirector)
	srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := c.Logout(ctx)
	// Cancelling the caller must not abort the background request.
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("logout did not finish")
	}
	assert.Equal(t, []string{"logout"}, redirector.Reasons())
}

func TestClient_LogoutPostsWithCSRF(t *testing.T) {
	got := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+PathLogin, func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: DefaultCSRFCookieName, Value: "tok-3", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST "+PathLogout, func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get(DefaultCSRFHeaderName)
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	redirector := &mockauth.RecordingRedirector{}
	c := newTestClient(t, srv, redirector)
	require.True(t, c.Login(context.Background(), ports.LoginInput{Identifier: "a", Password: "b"}).Success)

	<-c.Logout(context.Background())
	assert.Equal(t, "tok-3", <-got)
	assert.Equal(t, []string{"logout"}, redirector.Reasons())
}

func TestServerMessage(t *testing.T) {
	assert.Equal(t, "", serverMessage(nil))
	assert.Equal(t, "boom", serverMessage([]byte(`"boom"`)))
	assert.Equal(t, "x", serverMessage([]byte(`{"detail":"x"}`)))
	assert.Equal(t, `{"code":4}`, serverMessage([]byte(`{"code":4}`)))
	assert.Equal(t, "[1,2]", serverMessage([]byte(`[1,2]`)))

	// Non-string fields are skipped in favour of the next string one.
	assert.Equal(t, "bad creds", serverMessage([]byte(`{"error":{"code":1},"message":"bad creds"}`)))
	assert.Equal(t, "late", serverMessage([]byte(`{"error":"","message":7,"detail":"late"}`)))
	assert.Equal(t, `{"error":true}`, serverMessage([]byte(`{"error":true}`)))
}
