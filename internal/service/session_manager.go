package service

import (
	"context"
	"log/slog"
	"sync"

	domainauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/auth"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/observability/metrics"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"
)

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Gateway ports.CredentialGateway
	Metrics metrics.Recorder
	Logger  *slog.Logger
}

// SessionManager owns the session state machine. It is the only writer of the Session;
// every other component reads snapshots or requests transitions through its methods.
//
// Each CheckAuth takes a sequence number when it starts. Its response is applied only
// if no later transition has been applied in the meantime, so a slow check can never
// overwrite a newer login or logout.
type SessionManager struct {
	gateway ports.CredentialGateway
	metrics metrics.Recorder
	logger  *slog.Logger

	mu      sync.Mutex
	session domainauth.Session
	perms   domainauth.PermissionSet
	issued  uint64
	applied uint64

	subMu   sync.Mutex
	subs    map[int]func(domainauth.Session)
	nextSub int
}

// NewSessionManager constructs a SessionManager in the application-start state.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		gateway: opts.Gateway,
		metrics: metrics.OrNoop(opts.Metrics),
		logger:  logger.With("component", "session"),
		session: domainauth.NewSession(),
		subs:    make(map[int]func(domainauth.Session)),
	}
}

// Snapshot returns a copy of the current session.
func (m *SessionManager) Snapshot() domainauth.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *SessionManager) snapshotLocked() domainauth.Session {
	s := m.session
	s.User = m.session.User.Clone()
	return s
}

// CheckAuth asks the server who is logged in and applies the answer. Any failure
// resolves to unauthenticated. Safe to call repeatedly and concurrently.
func (m *SessionManager) CheckAuth(ctx context.Context) domainauth.Session {
	m.mu.Lock()
	m.issued++
	seq := m.issued
	entered := m.session.State == domainauth.StateUninitialized
	if entered {
		m.session.State = domainauth.StateLoading
	}
	loading := m.snapshotLocked()
	m.mu.Unlock()
	if entered {
		m.transitioned(loading)
	}

	user := m.gateway.GetUserInfo(ctx)

	m.mu.Lock()
	if seq <= m.applied {
		current, applied := m.snapshotLocked(), m.applied
		m.mu.Unlock()
		m.logger.DebugContext(ctx, "discarding superseded auth check", "seq", seq, "applied", applied)
		return current
	}
	m.applied = seq
	m.setUserLocked(user)
	next := m.snapshotLocked()
	m.mu.Unlock()

	m.transitioned(next)
	return next
}

// Login delegates to the gateway and, on success, re-reads the identity from the server.
// The gateway result is returned unchanged.
func (m *SessionManager) Login(ctx context.Context, in ports.LoginInput) domainauth.Result {
	res := m.gateway.Login(ctx, in)
	if !res.Success {
		m.logger.InfoContext(ctx, "login rejected", "error", res.Error)
		return res
	}
	m.CheckAuth(ctx)
	return res
}

// Register delegates to the gateway and, on success, re-reads the identity from the server.
func (m *SessionManager) Register(ctx context.Context, in ports.RegisterInput) domainauth.Result {
	res := m.gateway.Register(ctx, in)
	if !res.Success {
		m.logger.InfoContext(ctx, "registration rejected", "error", res.Error)
		return res
	}
	m.CheckAuth(ctx)
	return res
}

// Logout moves to unauthenticated immediately and starts the server-side invalidation
// in the background. Checks already in flight are fenced off and will not resurrect
// the session.
func (m *SessionManager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.applied = m.issued
	m.setUserLocked(nil)
	next := m.snapshotLocked()
	m.mu.Unlock()

	m.transitioned(next)
	_ = m.gateway.Logout(ctx)
}

// UpdateProfile changes the username; on success the session is refreshed from the server.
func (m *SessionManager) UpdateProfile(ctx context.Context, in ports.ProfileInput) domainauth.Result {
	res := m.gateway.UpdateProfile(ctx, in)
	if res.Success {
		m.CheckAuth(ctx)
	}
	return res
}

// ChangePassword is a pass-through; the session itself is not affected.
func (m *SessionManager) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) domainauth.Result {
	return m.gateway.ChangePassword(ctx, in)
}

// HasPermission reports whether the current user holds capability, directly or via "*".
func (m *SessionManager) HasPermission(capability string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.session.IsAuthenticated {
		return false
	}
	return m.perms.Has(capability)
}

// Subscribe registers fn for every applied transition. fn runs outside the session lock
// and may call back into the manager. The returned func unsubscribes.
func (m *SessionManager) Subscribe(fn func(domainauth.Session)) (cancel func()) {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

// setUserLocked applies a terminal transition. IsAuthenticated is derived from user here
// and nowhere else.
func (m *SessionManager) setUserLocked(user *domainauth.Identity) {
	m.session.User = user.Clone()
	m.session.IsAuthenticated = user != nil
	m.session.IsLoading = false
	if user != nil {
		m.session.State = domainauth.StateAuthenticated
		m.perms = domainauth.NewPermissionSet(user.Permissions...)
	} else {
		m.session.State = domainauth.StateUnauthenticated
		m.perms = nil
	}
}

func (m *SessionManager) transitioned(s domainauth.Session) {
	m.metrics.SessionTransition(s.State.String())
	attrs := []any{"state", s.State.String()}
	if s.User != nil {
		attrs = append(attrs, "user", s.User.Username)
	}
	m.logger.Debug("session transition", attrs...)

	m.subMu.Lock()
	fns := make([]func(domainauth.Session), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
