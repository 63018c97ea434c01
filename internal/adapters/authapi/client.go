// Package authapi implements the credential gateway against the cookie-authenticated
// REST authentication service.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/auth"
	obserrors "github.com/vbrevik/plan-targeting-assessment-sub003/internal/observability/errors"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/observability/metrics"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"
	"golang.org/x/net/publicsuffix"
)

// Endpoints of the authentication service.
const (
	PathLogin          = "/api/auth/login"
	PathRegister       = "/api/auth/register"
	PathUser           = "/api/auth/user"
	PathLogout         = "/api/auth/logout"
	PathRefresh        = "/api/auth/refresh"
	PathProfile        = "/api/auth/profile"
	PathChangePassword = "/api/change-password"
)

const (
	// DefaultCSRFCookieName is the readable cookie holding the anti-forgery token.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the header the token is echoed in.
	DefaultCSRFHeaderName = "X-CSRF-Token"

	networkError   = "Network error"
	maxBodyBytes   = 1 << 20
	defaultTimeout = 10 * time.Second
)

// Config controls the gateway. BaseURL and Redirector are required.
type Config struct {
	BaseURL        string
	Timeout        time.Duration // per request; default 10s
	LogoutTimeout  time.Duration // background logout request; defaults to Timeout
	CSRFCookieName string
	CSRFHeaderName string
	// HTTPClient is copied; a public-suffix aware cookie jar is installed when it has none.
	HTTPClient *http.Client
	Redirector ports.LoginRedirector
	Identity   IdentityMapping
	Metrics    metrics.Recorder
	Logger     *slog.Logger
}

// Client implements ports.CredentialGateway over HTTP with cookie-based credentials.
type Client struct {
	baseURL       *url.URL
	http          *http.Client
	csrfCookie    string
	csrfHeader    string
	logoutTimeout time.Duration
	redirector    ports.LoginRedirector
	identity      IdentityMapping
	metrics       metrics.Recorder
	logger        *slog.Logger
}

var _ ports.CredentialGateway = (*Client)(nil)

// NewClient validates cfg and builds a gateway client.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse auth base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("auth base url must be absolute, got %q", cfg.BaseURL)
	}
	if cfg.Redirector == nil {
		return nil, errors.New("login redirector is required")
	}
	mapping := cfg.Identity.withDefaults()
	if err = mapping.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logoutTimeout := cfg.LogoutTimeout
	if logoutTimeout <= 0 {
		logoutTimeout = timeout
	}

	hc := &http.Client{Timeout: timeout}
	if cfg.HTTPClient != nil {
		cp := *cfg.HTTPClient
		hc = &cp
	}
	if hc.Jar == nil {
		jar, jarErr := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if jarErr != nil {
			return nil, fmt.Errorf("create cookie jar: %w", jarErr)
		}
		hc.Jar = jar
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:       base,
		http:          hc,
		csrfCookie:    fallbackString(cfg.CSRFCookieName, DefaultCSRFCookieName),
		csrfHeader:    fallbackString(cfg.CSRFHeaderName, DefaultCSRFHeaderName),
		logoutTimeout: logoutTimeout,
		redirector:    cfg.Redirector,
		identity:      mapping,
		metrics:       metrics.OrNoop(cfg.Metrics),
		logger:        logger,
	}, nil
}

func fallbackString(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// Login posts credentials. Session cookies set by the server land in the jar.
func (c *Client) Login(ctx context.Context, in ports.LoginInput) domainauth.Result {
	body := map[string]any{
		"identifier":  in.Identifier,
		"password":    in.Password,
		"remember_me": in.RememberMe,
	}
	res, _ := c.submit(ctx, request{op: "login", method: http.MethodPost, path: PathLogin, body: body}, "Login failed")
	return res
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) domainauth.Result {
	body := map[string]string{
		"username": in.Username,
		"email":    in.Email,
		"password": in.Password,
	}
	res, _ := c.submit(ctx, request{op: "register", method: http.MethodPost, path: PathRegister, body: body}, "Registration failed")
	return res
}

// Logout fires the invalidation request on a detached context and then signals the
// login redirect whatever the outcome. It never blocks the caller.
func (c *Client) Logout(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	bg := context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		reqCtx, cancel := context.WithTimeout(bg, c.logoutTimeout)
		resp, err := c.do(reqCtx, request{op: "logout", method: http.MethodPost, path: PathLogout, csrf: true})
		cancel()
		switch {
		case err != nil:
			c.logger.WarnContext(bg, "logout request failed", "error", err)
		case !resp.ok():
			c.logger.WarnContext(bg, "logout rejected", "status", resp.status)
		default:
			c.logger.DebugContext(bg, "logout acknowledged")
		}
		c.redirector.RedirectToLogin(bg, "logout")
	}()
	return done
}

// RefreshSession asks the server to renew the session cookies.
func (c *Client) RefreshSession(ctx context.Context) bool {
	resp, err := c.do(ctx, request{op: "refresh", method: http.MethodPost, path: PathRefresh, csrf: true})
	return err == nil && resp.ok()
}

// GetUserInfo fetches the current identity, or nil when there is none to report.
func (c *Client) GetUserInfo(ctx context.Context) *domainauth.Identity {
	resp, err := c.do(ctx, request{op: "user", method: http.MethodGet, path: PathUser})
	if err != nil || !resp.ok() {
		return nil
	}
	id, err := c.identity.decodeIdentity(resp.body)
	if err != nil {
		c.logger.DebugContext(ctx, "discarding unreadable identity payload", "error", err)
		return nil
	}
	return id
}

// CSRFToken returns the anti-forgery token from the readable cookie, if present.
func (c *Client) CSRFToken() (string, bool) {
	if c.http.Jar == nil {
		return "", false
	}
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == c.csrfCookie && ck.Value != "" {
			return ck.Value, true
		}
	}
	return "", false
}

// UpdateProfile changes the username and returns the identity the server reports back.
func (c *Client) UpdateProfile(ctx context.Context, in ports.ProfileInput) domainauth.Result {
	req := request{
		op:     "profile",
		method: http.MethodPut,
		path:   PathProfile,
		body:   map[string]string{"username": in.Username},
		csrf:   true,
	}
	res, resp := c.submit(ctx, req, "Profile update failed")
	if res.Success && resp != nil {
		if id, err := c.identity.decodeIdentity(resp.body); err == nil {
			res.Identity = id
		}
	}
	return res
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) domainauth.Result {
	req := request{
		op:     "change_password",
		method: http.MethodPost,
		path:   PathChangePassword,
		body: map[string]string{
			"email":            in.Email,
			"current_password": in.CurrentPassword,
			"new_password":     in.NewPassword,
		},
		csrf: true,
	}
	res, _ := c.submit(ctx, req, "Password change failed")
	return res
}

type request struct {
	op     string
	method string
	path   string
	body   any
	csrf   bool
}

type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool { return r.status >= 200 && r.status < 300 }

// submit runs req and folds every failure into a Result.
func (c *Client) submit(ctx context.Context, req request, fallback string) (domainauth.Result, *response) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return domainauth.Failed(networkError), nil
	}
	if !resp.ok() {
		msg := serverMessage(resp.body)
		if msg == "" {
			msg = fallback
		}
		return domainauth.Failed(msg), resp
	}
	return domainauth.Succeeded(), resp
}

// do performs one request. Only transport and encoding problems are returned as errors.
func (c *Client) do(ctx context.Context, req request) (*response, error) {
	resp, err := c.roundTrip(ctx, req)
	switch {
	case err != nil:
		c.metrics.GatewayCall(req.op, metrics.OutcomeNetwork, obserrors.Classify(err))
		c.logger.DebugContext(ctx, "auth request failed", "op", req.op, "error", err)
	case !resp.ok():
		c.metrics.GatewayCall(req.op, metrics.OutcomeRejected, "")
	default:
		c.metrics.GatewayCall(req.op, metrics.OutcomeSuccess, "")
	}
	return resp, err
}

func (c *Client) roundTrip(ctx context.Context, req request) (*response, error) {
	var payload io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", req.op, err)
		}
		payload = bytes.NewReader(b)
	}

	target := c.baseURL.JoinPath(req.path)
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.csrf {
		if token, ok := c.CSRFToken(); ok {
			httpReq.Header.Set(c.csrfHeader, token)
		}
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", req.op, err)
	}
	defer func() {
		if cerr := httpResp.Body.Close(); cerr != nil {
			c.logger.DebugContext(ctx, "close auth response body", "op", req.op, "error", cerr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", req.op, err)
	}
	return &response{status: httpResp.StatusCode, body: body}, nil
}
