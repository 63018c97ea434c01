package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultCSRFCookieName is the shell's anti-forgery cookie. It is distinct from the
	// backend's csrf_token, which the credential gateway keeps in its own cookie jar.
	DefaultCSRFCookieName = "shell_csrf"
	// DefaultCSRFHeaderName is the header the UI echoes the token in (canonical form).
	DefaultCSRFHeaderName = "X-Csrf-Token"
	// DefaultCSRFTokenLength is the number of random bytes per token.
	DefaultCSRFTokenLength = 32
	// DefaultCSRFMaxAge bounds the cookie lifetime; a new token is issued afterwards.
	DefaultCSRFMaxAge = 12 * time.Hour
)

// CSRFConfig configures CSRFProtection. Zero values take the defaults above.
type CSRFConfig struct {
	CookieName   string
	HeaderName   string
	CookieDomain string
	TokenLength  int
	MaxAge       time.Duration
	// Exempt reports requests that bypass the check entirely (probes, scrapers).
	Exempt func(*http.Request) bool
}

func (c CSRFConfig) withDefaults() CSRFConfig {
	if c.CookieName == "" {
		c.CookieName = DefaultCSRFCookieName
	}
	if c.HeaderName == "" {
		c.HeaderName = DefaultCSRFHeaderName
	}
	if c.TokenLength <= 0 {
		c.TokenLength = DefaultCSRFTokenLength
	}
	if c.MaxAge <= 0 {
		c.MaxAge = DefaultCSRFMaxAge
	}
	return c
}

type csrfGuard struct{ cfg CSRFConfig }

// CSRFProtection guards the shell API with a double-submit cookie. Every response
// carries a readable token cookie; unsafe methods must send the same value in the
// header. The token is also placed in the request context for GetCSRFToken.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	g := &csrfGuard{cfg: cfg.withDefaults()}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.cfg.Exempt != nil && g.cfg.Exempt(r) {
				next.ServeHTTP(w, r)
				return
			}
			token, err := g.ensureToken(w, r)
			if err != nil {
				http.Error(w, "unable to issue CSRF token", http.StatusInternalServerError)
				return
			}
			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

			if !isSafeMethod(r.Method) && !g.verify(r, token) {
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ensureToken returns the token from the request cookie, issuing a new one when absent.
func (g *csrfGuard) ensureToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(g.cfg.CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	token, err := randomToken(g.cfg.TokenLength)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     g.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   g.cfg.CookieDomain,
		HttpOnly: false, // read by the UI to fill the header
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(g.cfg.MaxAge / time.Second),
	})
	return token, nil
}

func (g *csrfGuard) verify(r *http.Request, token string) bool {
	sent := r.Header.Get(g.cfg.HeaderName)
	if sent == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sent), []byte(token)) == 1
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// randomToken fails closed; there is no fallback to a weaker source.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// isSecureRequest reports TLS, directly or via any hop in X-Forwarded-Proto.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

type csrfTokenKey struct{}

// GetCSRFToken returns the token CSRFProtection stored on the request, or "".
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
