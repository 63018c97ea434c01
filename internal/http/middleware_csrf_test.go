package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTokenHandler(cfg CSRFConfig) http.Handler {
	return CSRFProtection(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	}))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func shellCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == DefaultCSRFCookieName {
			return c
		}
	}
	t.Fatal("shell CSRF cookie not issued")
	return nil
}

func TestCSRFProtection_IssuesReadableCookie(t *testing.T) {
	w := serve(echoTokenHandler(CSRFConfig{CookieDomain: "ops.example"}), httptest.NewRequest(http.MethodGet, "/api/shell/session", nil))
	require.Equal(t, http.StatusOK, w.Code)

	c := shellCookie(t, w)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, c.Value, w.Body.String(), "the issued token is available in the request context")
	assert.False(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, "ops.example", c.Domain)
	assert.Equal(t, int(DefaultCSRFMaxAge/time.Second), c.MaxAge)
}

func TestCSRFProtection_KeepsExistingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "existing"})
	w := serve(echoTokenHandler(CSRFConfig{}), req)

	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, "existing", w.Body.String())
}

func TestCSRFProtection_UnsafeMethods(t *testing.T) {
	tests := []struct {
		name   string
		method string
		cookie string
		header string
		want   int
	}{
		{name: "missing cookie and header", method: http.MethodPost, want: http.StatusForbidden},
		{name: "missing header", method: http.MethodPost, cookie: "tok", want: http.StatusForbidden},
		{name: "mismatch", method: http.MethodPut, cookie: "tok", header: "other", want: http.StatusForbidden},
		{name: "match post", method: http.MethodPost, cookie: "tok", header: "tok", want: http.StatusOK},
		{name: "match delete", method: http.MethodDelete, cookie: "tok", header: "tok", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/shell/login", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(DefaultCSRFHeaderName, tt.header)
			}
			assert.Equal(t, tt.want, serve(echoTokenHandler(CSRFConfig{}), req).Code)
		})
	}
}

func TestCSRFProtection_SafeMethodsPass(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
		w := serve(echoTokenHandler(CSRFConfig{}), httptest.NewRequest(method, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code, method)
	}
}

func TestCSRFProtection_SecureBehindProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "http, https")
	assert.True(t, shellCookie(t, serve(echoTokenHandler(CSRFConfig{}), req)).Secure)
}

func TestCSRFProtection_Exempt(t *testing.T) {
	h := echoTokenHandler(CSRFConfig{Exempt: probePaths("/healthz", "")})

	w := serve(h, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies(), "exempt paths get no cookie")

	w = serve(h, httptest.NewRequest(http.MethodPost, "/api/shell/logout", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCSRFProtection_CustomNames(t *testing.T) {
	h := echoTokenHandler(CSRFConfig{CookieName: "c", HeaderName: "X-C", TokenLength: 8})
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "c", Value: "v"})
	req.Header.Set("X-C", "v")
	assert.Equal(t, http.StatusOK, serve(h, req).Code)
}
