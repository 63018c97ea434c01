package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vbrevik/plan-targeting-assessment-sub003/config"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/adapters/authapi"
	redisadapter "github.com/vbrevik/plan-targeting-assessment-sub003/internal/adapters/redis"
	httpx "github.com/vbrevik/plan-targeting-assessment-sub003/internal/http"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/observability/metrics"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/service"
)

// ShellOptions contains dependencies for BuildShell.
type ShellOptions struct {
	Config *config.AppConfig
	Logger *slog.Logger
	// RedisClient overrides the connection built from Config.Redis when sync is enabled.
	RedisClient redis.UniversalClient
}

// Shell is a fully wired session shell.
type Shell struct {
	Provider *service.SessionProvider
	Gateway  *authapi.Client
	Events   *service.EventHub
	Handler  http.Handler

	redis     redis.UniversalClient
	ownsRedis bool
}

// Close releases the provider subscription and any Redis connection the shell opened.
func (s *Shell) Close() error {
	s.Provider.Close()
	if s.ownsRedis && s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return fmt.Errorf("close redis client: %w", err)
		}
	}
	return nil
}

// BuildShell creates the gateway, provider and HTTP handler described by the config.
func BuildShell(ctx context.Context, opts ShellOptions) (*Shell, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	recorder, metricsHandler := buildMetrics(cfg.Observability.Metrics)

	hub := service.NewEventHub(logger).WithLoginPath(cfg.Auth.LoginPath)
	gateway, err := BuildGateway(GatewayOptions{
		Auth:       cfg.Auth,
		Redirector: hub,
		Metrics:    recorder,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	shell := &Shell{Gateway: gateway, Events: hub}

	var bus ports.SyncBus
	if cfg.Sync.Enabled {
		client := opts.RedisClient
		if client == nil {
			client, err = ConnectRedis(ctx, RedisOptions{Redis: cfg.Redis, Logger: logger})
			if err != nil {
				return nil, fmt.Errorf("connect session sync: %w", err)
			}
			shell.ownsRedis = true
		}
		shell.redis = client
		bus = redisadapter.NewSyncBusWithChannel(client, cfg.Sync.Channel, logger)
	}

	provider, err := service.NewSessionProvider(service.SessionProviderOptions{
		Gateway:        gateway,
		Events:         hub,
		Sync:           bus,
		SyncKeys:       cfg.Sync.Keys,
		WarningTimeout: cfg.Idle.WarningTimeout,
		LogoutTimeout:  cfg.Idle.LogoutTimeout,
		Metrics:        recorder,
		Logger:         logger,
	})
	if err != nil {
		if shell.ownsRedis {
			_ = shell.redis.Close()
		}
		return nil, fmt.Errorf("create session provider: %w", err)
	}
	shell.Provider = provider

	shell.Handler = httpx.NewRouter(httpx.RouterServices{
		Shell:        provider,
		Events:       hub,
		CurrentEvent: func() service.Event { return service.SessionEvent(provider.Session()) },
		CookieDomain: cfg.HTTP.CookieDomain,
		LoginRate:    cfg.HTTP.LoginRate,
		LoginBurst:   cfg.HTTP.LoginBurst,
		Metrics:      metricsHandler,
		MetricsPath:  cfg.Observability.Metrics.Path,
		Logger:       logger,
	})

	logger.Info("session shell configured",
		"backend", cfg.Auth.BackendURL,
		"sync", cfg.Sync.Enabled,
		"metrics", metricsHandler != nil,
		"idle_warning", cfg.Idle.WarningTimeout,
		"idle_logout", cfg.Idle.LogoutTimeout,
	)
	return shell, nil
}

// GatewayOptions contains configuration for the credential gateway.
type GatewayOptions struct {
	Auth       config.AuthConfig
	Redirector ports.LoginRedirector
	Metrics    metrics.Recorder
	Logger     *slog.Logger
}

// BuildGateway creates the HTTP credential gateway for the configured backend.
func BuildGateway(opts GatewayOptions) (*authapi.Client, error) {
	client, err := authapi.NewClient(authapi.Config{
		BaseURL:        opts.Auth.BackendURL,
		Timeout:        opts.Auth.RequestTimeout,
		LogoutTimeout:  opts.Auth.LogoutTimeout,
		CSRFCookieName: opts.Auth.CSRFCookie,
		CSRFHeaderName: opts.Auth.CSRFHeader,
		Redirector:     opts.Redirector,
		Identity: authapi.IdentityMapping{
			RootExpr:        opts.Auth.IdentityRoot,
			PermissionsExpr: opts.Auth.IdentityPermissions,
		},
		Metrics: opts.Metrics,
		Logger:  opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create credential gateway: %w", err)
	}
	return client, nil
}

// buildMetrics returns a nil recorder and handler when metrics are disabled.
func buildMetrics(cfg config.ObservabilityMetricsConfig) (metrics.Recorder, http.Handler) {
	if !cfg.IsEnabled() {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.NewSession(reg), promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
