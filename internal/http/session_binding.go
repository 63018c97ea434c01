package httpx

import (
	"crypto/subtle"
	"net/http"
	"sync"

	domainauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/auth"
	apperrors "github.com/vbrevik/plan-targeting-assessment-sub003/internal/errors"
)

// SessionCookieName holds the token that binds one browser to the backend session.
const SessionCookieName = "shell_session"

const sessionTokenLength = 32

// sessionBinding ties the single backend session to the browser that created it.
// The token is issued on a successful login or registration and revoked whenever
// the session stops being authenticated or changes hands.
type sessionBinding struct {
	svc          ShellService
	cookieDomain string

	mu     sync.Mutex
	token  string
	userID string
}

func newSessionBinding(svc ShellService, cookieDomain string) *sessionBinding {
	return &sessionBinding{svc: svc, cookieDomain: cookieDomain}
}

// issue binds the current session to the caller. It is a no-op unless the
// session is authenticated.
func (b *sessionBinding) issue(w http.ResponseWriter, r *http.Request) error {
	s := b.svc.Session()
	if !s.IsAuthenticated || s.User == nil {
		return nil
	}
	token, err := randomToken(sessionTokenLength)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.token = token
	b.userID = s.User.ID
	b.mu.Unlock()

	http.SetCookie(w, b.cookie(r, token, 0))
	return nil
}

// bound reports whether r carries the live binding token.
func (b *sessionBinding) bound(r *http.Request) bool {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return false
	}
	b.mu.Lock()
	token := b.token
	b.mu.Unlock()
	if token == "" || subtle.ConstantTimeCompare([]byte(c.Value), []byte(token)) != 1 {
		return false
	}
	return b.svc.Session().IsAuthenticated
}

func (b *sessionBinding) reset() {
	b.mu.Lock()
	b.token = ""
	b.userID = ""
	b.mu.Unlock()
}

// onTransition revokes the binding when the session ends or another user takes it
// over. A late delivery can only revoke, never extend, a binding.
func (b *sessionBinding) onTransition(s domainauth.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.token == "" {
		return
	}
	ended := s.State == domainauth.StateUnauthenticated
	handedOver := s.IsAuthenticated && s.User != nil && s.User.ID != b.userID
	if ended || handedOver {
		b.token, b.userID = "", ""
	}
}

// clearCookie expires the binding cookie when the request still carries one.
func (b *sessionBinding) clearCookie(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(SessionCookieName); err != nil {
		return
	}
	http.SetCookie(w, b.cookie(r, "", -1))
}

func (b *sessionBinding) cookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   b.cookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteStrictMode,
	}
}

// require rejects callers that do not hold the binding with 401.
func (b *sessionBinding) require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !b.bound(r) {
			b.clearCookie(w, r)
			WriteAppError(w, apperrors.Unauthorized("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
