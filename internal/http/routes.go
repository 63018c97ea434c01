// Package httpx exposes the session shell over HTTP: a JSON API under /api/shell,
// a server-sent event stream, health and metrics endpoints.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Shell  ShellService
	Events EventSource
	// CurrentEvent supplies the first event of each stream; optional.
	CurrentEvent func() service.Event

	CookieDomain string
	// LoginRate and LoginBurst throttle login and registration per client.
	LoginRate  float64
	LoginBurst int

	// Metrics is mounted at MetricsPath when both are set.
	Metrics     http.Handler
	MetricsPath string

	Logger *slog.Logger
}

// NewRouter creates and configures the HTTP router with its middleware chain.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	binding := newSessionBinding(services.Shell, services.CookieDomain)
	services.Shell.Subscribe(binding.onTransition)
	shell := &ShellHandlers{Svc: services.Shell, Logger: logger, binding: binding}
	limiter := NewClientRateLimiter(services.LoginRate, services.LoginBurst)
	registerShellRoutes(mux, shell, limiter)

	if services.Events != nil {
		mux.Handle("GET /api/shell/events", binding.require(&EventStreamHandler{
			Source:  services.Events,
			Current: services.CurrentEvent,
			Logger:  logger,
		}))
	}

	mux.Handle("GET /healthz", healthHandler(services.Shell))
	mux.Handle("HEAD /healthz", healthHandler(services.Shell))
	if services.Metrics != nil && services.MetricsPath != "" {
		mux.Handle("GET "+services.MetricsPath, services.Metrics)
	}

	var handler http.Handler = mux
	handler = CSRFProtection(CSRFConfig{
		CookieDomain: services.CookieDomain,
		Exempt:       probePaths("/healthz", services.MetricsPath),
	})(handler)
	handler = Recover(logger)(handler)
	return Logging(logger)(handler)
}

func registerShellRoutes(mux *http.ServeMux, h *ShellHandlers, limiter *ClientRateLimiter) {
	mux.HandleFunc("GET /api/shell/session", h.Session)
	mux.Handle("POST /api/shell/login", limiter.Middleware(http.HandlerFunc(h.Login)))
	mux.Handle("POST /api/shell/register", limiter.Middleware(http.HandlerFunc(h.Register)))

	bound := func(fn http.HandlerFunc) http.Handler { return h.binding.require(fn) }
	mux.Handle("POST /api/shell/logout", bound(h.Logout))
	mux.Handle("PUT /api/shell/profile", bound(h.Profile))
	mux.Handle("POST /api/shell/password", bound(h.Password))
	mux.Handle("POST /api/shell/activity", bound(h.Activity))
	mux.Handle("POST /api/shell/extend", bound(h.Extend))
	mux.Handle("GET /api/shell/navigation", bound(h.Navigation))
}

// probePaths exempts health and metrics endpoints, which scrapers call without cookies.
func probePaths(paths ...string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p != "" {
			set[p] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.URL.Path]
		return ok
	}
}
