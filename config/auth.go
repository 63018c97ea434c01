package config

import (
	"strings"
	"time"
)

// AuthConfig describes the cookie-authenticated backend the credential gateway talks to.
type AuthConfig struct {
	// BackendURL is the origin of the authentication service (e.g. "https://ops.example.com").
	BackendURL string `env:"AUTH_BACKEND_URL,required,notEmpty"`

	// RequestTimeout bounds each gateway call.
	RequestTimeout time.Duration `env:"AUTH_REQUEST_TIMEOUT" envDefault:"10s"`

	// LogoutTimeout bounds the background logout request.
	LogoutTimeout time.Duration `env:"AUTH_LOGOUT_TIMEOUT" envDefault:"5s"`

	// LoginPath is where UIs are sent when a login redirect is signalled.
	LoginPath string `env:"AUTH_LOGIN_PATH" envDefault:"/login"`

	CSRFCookie string `env:"AUTH_CSRF_COOKIE" envDefault:"csrf_token"`
	CSRFHeader string `env:"AUTH_CSRF_HEADER" envDefault:"X-CSRF-Token"`

	// IdentityRoot and IdentityPermissions are JMESPath expressions that locate the
	// identity object and its flattened permission list in GET /api/auth/user.
	IdentityRoot        string `env:"AUTH_IDENTITY_ROOT"        envDefault:"user || @"`
	IdentityPermissions string `env:"AUTH_IDENTITY_PERMISSIONS" envDefault:"permissions || roles[].permissions[]"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	a.BackendURL = strings.TrimRight(strings.TrimSpace(a.BackendURL), "/")
	if a.RequestTimeout <= 0 {
		a.RequestTimeout = 10 * time.Second
	}
	if a.LogoutTimeout <= 0 {
		a.LogoutTimeout = a.RequestTimeout
	}
	if a.LoginPath = strings.TrimSpace(a.LoginPath); a.LoginPath == "" {
		a.LoginPath = "/login"
	}
	if a.CSRFCookie = strings.TrimSpace(a.CSRFCookie); a.CSRFCookie == "" {
		a.CSRFCookie = "csrf_token"
	}
	if a.CSRFHeader = strings.TrimSpace(a.CSRFHeader); a.CSRFHeader == "" {
		a.CSRFHeader = "X-CSRF-Token"
	}
}
