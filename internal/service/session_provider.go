package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/auth"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/navigation"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/observability/metrics"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"
)

// SyncKeyAuth is the key published after local login, logout and registration.
const SyncKeyAuth = "auth"

// ErrSyncBusClosed is returned by Run when the sync subscription ends before its context.
var ErrSyncBusClosed = errors.New("sync bus closed")

// SessionProviderOptions groups dependencies for SessionProvider.
type SessionProviderOptions struct {
	Gateway    ports.CredentialGateway
	Navigation *NavigationResolver
	Events     *EventHub

	// Sync is optional; without it only local transitions are observed.
	Sync ports.SyncBus
	// SyncKeys restricts which signal keys trigger a re-check. Empty accepts any key.
	SyncKeys []string
	// Origin identifies this instance on the sync bus; a random id when empty.
	Origin string

	WarningTimeout time.Duration
	LogoutTimeout  time.Duration
	Clock          ports.Clock

	Metrics metrics.Recorder
	Logger  *slog.Logger
}

// SessionProvider is the single owner of the session and idle state for one shell
// instance. It keeps the idle monitor running exactly while the session is
// authenticated and reconciles with other instances over the sync bus.
type SessionProvider struct {
	sessions *SessionManager
	idle     *IdleMonitor
	nav      *NavigationResolver
	events   *EventHub
	gateway  ports.CredentialGateway
	sync     ports.SyncBus
	syncKeys []string
	origin   string
	logger   *slog.Logger

	unsubscribe func()
}

// NewSessionProvider wires the session manager, idle monitor and resolver together.
func NewSessionProvider(opts SessionProviderOptions) (*SessionProvider, error) {
	if opts.Gateway == nil {
		return nil, errors.New("credential gateway is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nav := opts.Navigation
	if nav == nil {
		nav = NewNavigationResolver()
	}
	events := opts.Events
	if events == nil {
		events = NewEventHub(logger)
	}
	origin := opts.Origin
	if origin == "" {
		origin = uuid.NewString()
	}

	p := &SessionProvider{
		nav:      nav,
		events:   events,
		gateway:  opts.Gateway,
		sync:     opts.Sync,
		syncKeys: slices.Clone(opts.SyncKeys),
		origin:   origin,
		logger:   logger.With("component", "provider", "origin", origin),
	}
	p.sessions = NewSessionManager(SessionManagerOptions{
		Gateway: opts.Gateway,
		Metrics: opts.Metrics,
		Logger:  logger,
	})

	idle, err := NewIdleMonitor(IdleMonitorOptions{
		WarningTimeout: opts.WarningTimeout,
		LogoutTimeout:  opts.LogoutTimeout,
		Clock:          opts.Clock,
		OnWarning:      p.onIdleWarning,
		OnLogout:       p.onIdleLogout,
		Refresh:        opts.Gateway.RefreshSession,
		Metrics:        opts.Metrics,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create idle monitor: %w", err)
	}
	p.idle = idle
	p.unsubscribe = p.sessions.Subscribe(p.onTransition)
	return p, nil
}

// Run performs the initial auth check and then follows sync signals until ctx ends.
// A subscription that closes while ctx is live is reported as ErrSyncBusClosed.
// On return the idle monitor is stopped and no timers remain.
func (p *SessionProvider) Run(ctx context.Context) error {
	defer p.idle.Stop()

	p.sessions.CheckAuth(ctx)

	if p.sync == nil {
		<-ctx.Done()
		return nil
	}
	signals, err := p.sync.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to sync bus: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-signals:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrSyncBusClosed
			}
			if !p.acceptSignal(sig) {
				continue
			}
			p.logger.DebugContext(ctx, "sync signal; re-checking session", "key", sig.Key, "from", sig.Origin)
			p.sessions.CheckAuth(ctx)
		}
	}
}

// Close detaches the provider from its session manager and stops the idle monitor.
func (p *SessionProvider) Close() {
	p.unsubscribe()
	p.idle.Stop()
}

func (p *SessionProvider) acceptSignal(sig ports.SyncSignal) bool {
	if sig.Origin == p.origin {
		return false
	}
	return len(p.syncKeys) == 0 || slices.Contains(p.syncKeys, sig.Key)
}

// Session returns the current session snapshot.
func (p *SessionProvider) Session() domainauth.Session { return p.sessions.Snapshot() }

// Sessions exposes the owned session manager.
func (p *SessionProvider) Sessions() *SessionManager { return p.sessions }

// Subscribe registers fn for every session transition.
func (p *SessionProvider) Subscribe(fn func(domainauth.Session)) (cancel func()) {
	return p.sessions.Subscribe(fn)
}

// Idle returns the idle monitor snapshot.
func (p *SessionProvider) Idle() IdleSnapshot { return p.idle.Snapshot() }

// Events returns the hub session and idle events are published to.
func (p *SessionProvider) Events() *EventHub { return p.events }

// Origin is this instance's id on the sync bus.
func (p *SessionProvider) Origin() string { return p.origin }

// CheckAuth re-validates the session against the server.
func (p *SessionProvider) CheckAuth(ctx context.Context) domainauth.Session {
	return p.sessions.CheckAuth(ctx)
}

// HasPermission reports whether the current user holds capability.
func (p *SessionProvider) HasPermission(capability string) bool {
	return p.sessions.HasPermission(capability)
}

// Navigation resolves the sidebar for the current user.
func (p *SessionProvider) Navigation() navigation.Tree {
	return p.nav.ResolveSession(p.sessions.Snapshot())
}

// Login signs in and tells other instances to re-check.
func (p *SessionProvider) Login(ctx context.Context, in ports.LoginInput) domainauth.Result {
	res := p.sessions.Login(ctx, in)
	if res.Success {
		p.announce(ctx)
	}
	return res
}

// Register creates an account and signs in.
func (p *SessionProvider) Register(ctx context.Context, in ports.RegisterInput) domainauth.Result {
	res := p.sessions.Register(ctx, in)
	if res.Success {
		p.announce(ctx)
	}
	return res
}

// Logout signs out locally at once and tells other instances.
func (p *SessionProvider) Logout(ctx context.Context) {
	p.sessions.Logout(ctx)
	p.announce(ctx)
}

// UpdateProfile changes the username.
func (p *SessionProvider) UpdateProfile(ctx context.Context, in ports.ProfileInput) domainauth.Result {
	return p.sessions.UpdateProfile(ctx, in)
}

// ChangePassword rotates the account password.
func (p *SessionProvider) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) domainauth.Result {
	return p.sessions.ChangePassword(ctx, in)
}

// Activity records user interaction.
func (p *SessionProvider) Activity() { p.idle.OnActivity() }

// Extend is the explicit "stay signed in" action.
func (p *SessionProvider) Extend(ctx context.Context) bool { return p.idle.Extend(ctx) }

func (p *SessionProvider) onTransition(s domainauth.Session) {
	// Reconcile against the latest state, not s: notifications from concurrent
	// transitions may arrive out of order.
	if p.sessions.Snapshot().IsAuthenticated {
		p.idle.Start()
	} else {
		p.idle.Stop()
	}
	p.events.Publish(SessionEvent(s))
}

func (p *SessionProvider) onIdleWarning(remaining time.Duration) {
	p.events.Publish(idleWarningEvent(remaining))
}

func (p *SessionProvider) onIdleLogout() {
	ctx := context.Background()
	p.events.Publish(Event{Type: EventIdleLogout, Reason: "idle"})
	p.Logout(ctx)
}

func (p *SessionProvider) announce(ctx context.Context) {
	if p.sync == nil {
		return
	}
	if err := p.sync.Publish(ctx, ports.SyncSignal{Key: SyncKeyAuth, Origin: p.origin}); err != nil {
		p.logger.WarnContext(ctx, "publish sync signal", "error", err)
	}
}
