package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/observability/metrics"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"
)

// IdleState is the idle monitor position within one inactivity cycle.
type IdleState int

const (
	IdleStopped IdleState = iota
	IdleActive
	IdleWarning
	IdleExpired
)

func (s IdleState) String() string {
	switch s {
	case IdleStopped:
		return "stopped"
	case IdleActive:
		return "active"
	case IdleWarning:
		return "warning"
	case IdleExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name.
func (s IdleState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a state name produced by MarshalText.
func (s *IdleState) UnmarshalText(text []byte) error {
	for st := IdleStopped; st <= IdleExpired; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown idle state %q", text)
}

// IdleSnapshot is a read-only view of the monitor.
type IdleSnapshot struct {
	State        IdleState `json:"state"`
	LastActivity time.Time `json:"lastActivity"`
	Deadline     time.Time `json:"deadline"`
	WarningFired bool      `json:"warningFired"`
	LogoutFired  bool      `json:"logoutFired"`
}

// IdleMonitorOptions configures an IdleMonitor. Both timeouts are measured from the
// last activity. OnLogout and Refresh are required.
type IdleMonitorOptions struct {
	WarningTimeout time.Duration
	LogoutTimeout  time.Duration
	Clock          ports.Clock

	// OnWarning receives the time left before the forced logout.
	OnWarning func(remaining time.Duration)
	OnLogout  func()
	// Refresh renews the server session when the user explicitly extends.
	Refresh func(ctx context.Context) bool

	Metrics metrics.Recorder
	Logger  *slog.Logger
}

// ErrInvalidIdleTimeouts is returned when the logout timeout does not exceed the warning timeout.
var ErrInvalidIdleTimeouts = errors.New("idle logout timeout must be greater than warning timeout")

// IdleMonitor raises one warning and one logout per inactivity cycle.
//
// Every (re)arm bumps a generation counter and stops the previous timers; a timer
// callback that arrives for an older generation is ignored, so at most one warning and
// one logout can be pending at any time.
type IdleMonitor struct {
	warningTimeout time.Duration
	logoutTimeout  time.Duration
	clock          ports.Clock
	onWarning      func(time.Duration)
	onLogout       func()
	refresh        func(context.Context) bool
	metrics        metrics.Recorder
	logger         *slog.Logger

	mu           sync.Mutex
	running      bool
	state        IdleState
	gen          uint64
	lastActivity time.Time
	warningFired bool
	logoutFired  bool
	warnTimer    ports.Timer
	logoutTimer  ports.Timer
}

// NewIdleMonitor validates opts and returns a stopped monitor.
func NewIdleMonitor(opts IdleMonitorOptions) (*IdleMonitor, error) {
	if opts.WarningTimeout <= 0 {
		return nil, fmt.Errorf("idle warning timeout must be positive, got %s", opts.WarningTimeout)
	}
	if opts.LogoutTimeout <= opts.WarningTimeout {
		return nil, fmt.Errorf("%w: warning=%s logout=%s", ErrInvalidIdleTimeouts, opts.WarningTimeout, opts.LogoutTimeout)
	}
	if opts.OnLogout == nil {
		return nil, errors.New("idle logout callback is required")
	}
	if opts.Refresh == nil {
		return nil, errors.New("idle refresh func is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	onWarning := opts.OnWarning
	if onWarning == nil {
		onWarning = func(time.Duration) {}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &IdleMonitor{
		warningTimeout: opts.WarningTimeout,
		logoutTimeout:  opts.LogoutTimeout,
		clock:          clock,
		onWarning:      onWarning,
		onLogout:       opts.OnLogout,
		refresh:        opts.Refresh,
		metrics:        metrics.OrNoop(opts.Metrics),
		logger:         logger.With("component", "idle"),
	}, nil
}

// Start begins a fresh cycle. Calling Start on a running monitor is a no-op.
func (m *IdleMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.armLocked()
	m.logger.Debug("idle monitor started", "warning", m.warningTimeout, "logout", m.logoutTimeout)
}

// Stop cancels all pending timers. Late callbacks from before Stop are discarded.
func (m *IdleMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	m.gen++
	m.stopTimersLocked()
	m.state = IdleStopped
	m.warningFired, m.logoutFired = false, false
	m.logger.Debug("idle monitor stopped")
}

// OnActivity restarts the cycle, including from the warning state. It has no effect
// while stopped or once the cycle has expired.
func (m *IdleMonitor) OnActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running || m.state == IdleExpired {
		return
	}
	m.armLocked()
}

// Extend restarts the cycle and renews the server session. When renewal fails the
// extension is void and the logout callback fires immediately. Returns whether the
// session was extended.
func (m *IdleMonitor) Extend(ctx context.Context) bool {
	m.mu.Lock()
	if !m.running || m.state == IdleExpired {
		m.mu.Unlock()
		return false
	}
	m.armLocked()
	m.mu.Unlock()

	if m.refresh(ctx) {
		m.metrics.IdleEvent(metrics.IdleExtend)
		return true
	}

	m.mu.Lock()
	if !m.running || m.logoutFired {
		m.mu.Unlock()
		return false
	}
	m.gen++
	m.stopTimersLocked()
	m.state = IdleExpired
	m.logoutFired = true
	m.mu.Unlock()

	m.logger.WarnContext(ctx, "session refresh failed; forcing logout")
	m.metrics.IdleEvent(metrics.IdleVoided)
	m.onLogout()
	return false
}

// State returns the current cycle position.
func (m *IdleMonitor) State() IdleState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns the current idle state.
func (m *IdleMonitor) Snapshot() IdleSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := IdleSnapshot{
		State:        m.state,
		LastActivity: m.lastActivity,
		WarningFired: m.warningFired,
		LogoutFired:  m.logoutFired,
	}
	if m.running {
		snap.Deadline = m.lastActivity.Add(m.logoutTimeout)
	}
	return snap
}

func (m *IdleMonitor) armLocked() {
	m.gen++
	m.stopTimersLocked()
	m.state = IdleActive
	m.lastActivity = m.clock.Now()
	m.warningFired, m.logoutFired = false, false

	gen := m.gen
	m.warnTimer = m.clock.AfterFunc(m.warningTimeout, func() { m.fireWarning(gen) })
	m.logoutTimer = m.clock.AfterFunc(m.logoutTimeout, func() { m.fireLogout(gen) })
}

func (m *IdleMonitor) stopTimersLocked() {
	if m.warnTimer != nil {
		m.warnTimer.Stop()
		m.warnTimer = nil
	}
	if m.logoutTimer != nil {
		m.logoutTimer.Stop()
		m.logoutTimer = nil
	}
}

func (m *IdleMonitor) fireWarning(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || !m.running || m.warningFired || m.logoutFired {
		m.mu.Unlock()
		return
	}
	m.warningFired = true
	m.state = IdleWarning
	m.warnTimer = nil
	remaining := m.logoutTimeout - m.warningTimeout
	m.mu.Unlock()

	m.logger.Info("idle warning", "remaining", remaining)
	m.metrics.IdleEvent(metrics.IdleWarning)
	m.onWarning(remaining)
}

func (m *IdleMonitor) fireLogout(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || !m.running || m.logoutFired {
		m.mu.Unlock()
		return
	}
	m.logoutFired = true
	m.state = IdleExpired
	m.stopTimersLocked()
	m.mu.Unlock()

	m.logger.Info("idle timeout reached; logging out")
	m.metrics.IdleEvent(metrics.IdleLogout)
	m.onLogout()
}
