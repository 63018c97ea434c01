package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbrevik/plan-targeting-assessment-sub003/config"
)

func newTestContext(cfg config.AppConfig) (*commandContext, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: cfg,
		Out:    &out,
		Err:    &errOut,
	}, &out, &errOut
}

func TestPrintUsage_ListsCommandsSorted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))
	out := buf.String()
	assert.Contains(t, out, "Usage: opscenter-admin")
	nav := bytes.Index(buf.Bytes(), []byte("  nav"))
	tpl := bytes.Index(buf.Bytes(), []byte("  templates"))
	who := bytes.Index(buf.Bytes(), []byte("  whoami"))
	require.True(t, nav >= 0 && tpl >= 0 && who >= 0)
	assert.Less(t, nav, tpl)
	assert.Less(t, tpl, who)
}

func TestParseNavOptions(t *testing.T) {
	opts, err := parseNavOptions([]string{"-role", "analyst", "cop.view, rfi.view", "ontology.view"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "analyst", opts.Role)
	assert.Equal(t, []string{"cop.view", "rfi.view", "ontology.view"}, opts.Permissions)

	_, err = parseNavOptions(nil, io.Discard)
	require.Error(t, err)
}

func TestRunNav_PrintsTree(t *testing.T) {
	ctx, out, _ := newTestContext(config.AppConfig{})
	require.NoError(t, runNav(ctx, []string{"cop.view"}))

	s := out.String()
	assert.Contains(t, s, "Template: analyst")
	assert.Contains(t, s, "/cop")
	assert.Contains(t, s, "/profile")
	assert.NotContains(t, s, "/targeting")
}

func TestRunNav_JSON(t *testing.T) {
	ctx, out, _ := newTestContext(config.AppConfig{})
	require.NoError(t, runNav(ctx, []string{"-json", "im.dashboard.view,ontology.view"}))
	assert.Contains(t, out.String(), `"/ontology"`)
}

func TestRunNav_Unmatched(t *testing.T) {
	ctx, out, _ := newTestContext(config.AppConfig{})
	require.NoError(t, runNav(ctx, []string{"rfi.view"}))
	assert.Contains(t, out.String(), "No template matches")
}

func TestRunTemplates(t *testing.T) {
	ctx, out, _ := newTestContext(config.AppConfig{})
	require.NoError(t, runTemplates(ctx, nil))
	s := out.String()
	assert.Contains(t, s, "Priority")
	assert.Contains(t, s, "superuser")
	assert.Contains(t, s, "targeting.view")
}

func TestParseWhoamiOptions(t *testing.T) {
	_, err := parseWhoamiOptions([]string{"-identifier", "  "}, io.Discard)
	require.Error(t, err)

	opts, err := parseWhoamiOptions([]string{"-identifier", "alice", "-timeout", "0s"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, defaultWhoamiTimeout, opts.Timeout)
	assert.Equal(t, defaultPasswordEnv, opts.PasswordEnv)
}

func whoamiBackend(t *testing.T, logouts *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: "csrf_token", Value: "tok", Path: "/"})
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{}`)
	})
	mux.HandleFunc("GET /api/auth/user", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session"); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"user":{"id":"7","username":"alice","email":"alice@example.com","roles":[{"name":"analyst","permissions":["cop.view"]}]}}`)
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		logouts.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunWhoami(t *testing.T) {
	var logouts atomic.Int32
	backend := whoamiBackend(t, &logouts)
	t.Setenv("TEST_WHOAMI_PASSWORD", "pw")

	cfg := config.AppConfig{Auth: config.AuthConfig{BackendURL: backend.URL}}
	cfg.Sanitize()
	ctx, out, _ := newTestContext(cfg)

	require.NoError(t, runWhoami(ctx, []string{"-identifier", "alice", "-password-env", "TEST_WHOAMI_PASSWORD"}))
	s := out.String()
	assert.Contains(t, s, "Username:    alice")
	assert.Contains(t, s, "Roles:       analyst")
	assert.Contains(t, s, "Template: analyst")
	assert.Contains(t, s, "/cop")
	assert.Equal(t, int32(1), logouts.Load())
}

func TestRunWhoami_MissingPassword(t *testing.T) {
	t.Setenv("TEST_WHOAMI_EMPTY", "")
	ctx, _, _ := newTestContext(config.AppConfig{})
	err := runWhoami(ctx, []string{"-identifier", "alice", "-password-env", "TEST_WHOAMI_EMPTY"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_WHOAMI_EMPTY")
}

func TestRunWhoami_LoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("TEST_WHOAMI_PASSWORD", "bad")

	cfg := config.AppConfig{Auth: config.AuthConfig{BackendURL: srv.URL}}
	cfg.Sanitize()
	ctx, _, _ := newTestContext(cfg)
	err := runWhoami(ctx, []string{"-identifier", "alice", "-password-env", "TEST_WHOAMI_PASSWORD"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")
}
