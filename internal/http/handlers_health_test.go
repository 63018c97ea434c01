package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/auth"
	mockauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/mocks/auth"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/service"
)

func healthProvider(t *testing.T, user *domainauth.Identity) *service.SessionProvider {
	t.Helper()
	p, err := service.NewSessionProvider(service.SessionProviderOptions{
		Gateway:        mockauth.NewFakeGateway(user),
		WarningTimeout: time.Minute,
		LogoutTimeout:  2 * time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestHealthHandler_ReportsSessionState(t *testing.T) {
	p := healthProvider(t, &domainauth.Identity{ID: "1", Username: "alice"})

	w := serve(healthHandler(p), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok","session":"uninitialized"}`, w.Body.String())

	p.CheckAuth(context.Background())
	w = serve(healthHandler(p), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.JSONEq(t, `{"status":"ok","session":"authenticated"}`, w.Body.String())
}

func TestHealthHandler_Head(t *testing.T) {
	w := serve(healthHandler(nil), httptest.NewRequest(http.MethodHead, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHealthHandler_NoService(t *testing.T) {
	w := serve(healthHandler(nil), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.JSONEq(t, `{"status":"ok","session":""}`, w.Body.String())
}
