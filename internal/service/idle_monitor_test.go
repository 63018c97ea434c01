package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/observability/metrics"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/testutil"
)

type idleProbe struct {
	mu       sync.Mutex
	warnings []time.Duration
	logouts  int
	refresh  bool
	refreshN int
}

func (p *idleProbe) onWarning(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.warnings = append(p.warnings, d)
}

func (p *idleProbe) onLogout() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logouts++
}

func (p *idleProbe) doRefresh(context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshN++
	return p.refresh
}

func (p *idleProbe) counts() (warnings, logouts int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.warnings), p.logouts
}

func newTestMonitor(t *testing.T, clock ports.Clock, warning, logout time.Duration) (*IdleMonitor, *idleProbe) {
	t.Helper()
	probe := &idleProbe{refresh: true}
	m, err := NewIdleMonitor(IdleMonitorOptions{
		WarningTimeout: warning,
		LogoutTimeout:  logout,
		Clock:          clock,
		OnWarning:      probe.onWarning,
		OnLogout:       probe.onLogout,
		Refresh:        probe.doRefresh,
	})
	require.NoError(t, err)
	return m, probe
}

func TestNewIdleMonitor_Validation(t *testing.T) {
	noop := func() {}
	refresh := func(context.Context) bool { return true }
	tests := []struct {
		name string
		opts IdleMonitorOptions
	}{
		{name: "zero warning", opts: IdleMonitorOptions{WarningTimeout: 0, LogoutTimeout: time.Second, OnLogout: noop, Refresh: refresh}},
		{name: "logout equal to warning", opts: IdleMonitorOptions{WarningTimeout: time.Second, LogoutTimeout: time.Second, OnLogout: noop, Refresh: refresh}},
		{name: "logout before warning", opts: IdleMonitorOptions{WarningTimeout: 2 * time.Second, LogoutTimeout: time.Second, OnLogout: noop, Refresh: refresh}},
		{name: "missing logout callback", opts: IdleMonitorOptions{WarningTimeout: time.Second, LogoutTimeout: 2 * time.Second, Refresh: refresh}},
		{name: "missing refresh", opts: IdleMonitorOptions{WarningTimeout: time.Second, LogoutTimeout: 2 * time.Second, OnLogout: noop}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIdleMonitor(tt.opts)
			require.Error(t, err)
		})
	}

	_, err := NewIdleMonitor(IdleMonitorOptions{WarningTimeout: time.Second, LogoutTimeout: time.Second, OnLogout: noop, Refresh: refresh})
	require.ErrorIs(t, err, ErrInvalidIdleTimeouts)
}

func TestIdleMonitor_WarningThenLogoutFireOnce(t *testing.T) {
	clock := testutil.NewManualClock(time.Time{})
	m, probe := newTestMonitor(t, clock, 30*time.Millisecond, 35*time.Millisecond)
	m.Start()
	assert.Equal(t, IdleActive, m.State())

	clock.Advance(29 * time.Millisecond)
	w, l := probe.counts()
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, l)

	clock.Advance(time.Millisecond)
	w, l = probe.counts()
	assert.Equal(t, 1, w)
	assert.Equal(t, 0, l)
	assert.Equal(t, IdleWarning, m.State())
	assert.Equal(t, []time.Duration{5 * time.Millisecond}, probe.warnings)

	clock.Advance(5 * time.Millisecond)
	w, l = probe.counts()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, l)
	assert.Equal(t, IdleExpired, m.State())

	clock.Advance(time.Hour)
	w, l = probe.counts()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, l)
	assert.Equal(t, 0, clock.Pending())
}

func TestIdleMonitor_ActivityBeforeWarningSuppressesBoth(t *testing.T) {
	clock := testutil.NewManualClock(time.Time{})
	m, probe := newTestMonitor(t, clock, 30*time.Millisecond, 35*time.Millisecond)
	m.Start()

	clock.Advance(20 * time.Millisecond)
	m.OnActivity()
	clock.Advance(29 * time.Millisecond)

	w, l := probe.counts()
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, l)
	assert.Equal(t, 2, clock.Pending(), "re-arming must not leave duplicate timers")
}

func TestIdleMonitor_ActivityDuringWarningCancelsLogout(t *testing.T) {
	clock := testutil.NewManualClock(time.Time{})
	m, probe := newTestMonitor(t, clock, 30*time.Millisecond, 35*time.Millisecond)
	m.Start()

	clock.Advance(32 * time.Millisecond)
	require.Equal(t, IdleWarning, m.State())
	m.OnActivity()
	assert.Equal(t, IdleActive, m.State())
	assert.False(t, m.Snapshot().WarningFired)

	clock.Advance(10 * time.Millisecond)
	w, l := probe.counts()
	assert.Equal(t, 1, w)
	assert.Equal(t, 0, l)

	// A fresh cycle warns again.
	clock.Advance(20 * time.Millisecond)
	w, _ = probe.counts()
	assert.Equal(t, 2, w)
}

func TestIdleMonitor_ExtendRefreshes(t *testing.T) {
	clock := testutil.NewManualClock(time.Time{})
	m, probe := newTestMonitor(t, clock, 100*time.Millisecond, 200*time.Millisecond)
	m.Start()

	clock.Advance(150 * time.Millisecond)
	require.Equal(t, IdleWarning, m.State())

	assert.True(t, m.Extend(context.Background()))
	assert.Equal(t, 1, probe.refreshN)
	assert.Equal(t, IdleActive, m.State())

	clock.Advance(199 * time.Millisecond)
	_, l := probe.counts()
	assert.Equal(t, 0, l)
	clock.Advance(time.Millisecond)
	_, l = probe.counts()
	assert.Equal(t, 1, l)
}

func TestIdleMonitor_ExtendFailureForcesLogout(t *testing.T) {
	clock := testutil.NewManualClock(time.Time{})
	m, probe := newTestMonitor(t, clock, 100*time.Millisecond, 200*time.Millisecond)
	rec := &recordingMetrics{}
	m.metrics = rec
	probe.refresh = false
	m.Start()

	clock.Advance(120 * time.Millisecond)
	assert.False(t, m.Extend(context.Background()))

	_, l := probe.counts()
	assert.Equal(t, 1, l, "a failed refresh must log out immediately")
	assert.Equal(t, IdleExpired, m.State())
	assert.Equal(t, 0, clock.Pending(), "no timer may survive a voided extension")

	clock.Advance(time.Hour)
	_, l = probe.counts()
	assert.Equal(t, 1, l)
	assert.Equal(t, []string{metrics.IdleWarning, metrics.IdleVoided}, rec.idleEvents())
}

func TestIdleMonitor_StoppedIgnoresInput(t *testing.T) {
	clock := testutil.NewManualClock(time.Time{})
	m, probe := newTestMonitor(t, clock, 30*time.Millisecond, 35*time.Millisecond)

	m.OnActivity()
	assert.False(t, m.Extend(context.Background()))
	assert.Equal(t, 0, probe.refreshN)
	assert.Equal(t, 0, clock.Pending())
	assert.Equal(t, IdleStopped, m.State())

	m.Start()
	m.Start()
	assert.Equal(t, 2, clock.Pending())

	m.Stop()
	assert.Equal(t, 0, clock.Pending())
	assert.Equal(t, IdleStopped, m.State())
	clock.Advance(time.Hour)
	w, l := probe.counts()
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, l)
}

func TestIdleMonitor_ExpiredIgnoresActivity(t *testing.T) {
	clock := testutil.NewManualClock(time.Time{})
	m, probe := newTestMonitor(t, clock, 30*time.Millisecond, 35*time.Millisecond)
	m.Start()
	clock.Advance(35 * time.Millisecond)
	require.Equal(t, IdleExpired, m.State())

	m.OnActivity()
	assert.Equal(t, IdleExpired, m.State())
	assert.Equal(t, 0, clock.Pending())

	// Restart after a new login opens a new cycle.
	m.Stop()
	m.Start()
	clock.Advance(35 * time.Millisecond)
	_, l := probe.counts()
	assert.Equal(t, 2, l)
}

// leakyClock never cancels timers, so stale callbacks still run.
type leakyClock struct{ *testutil.ManualClock }

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (c leakyClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.ManualClock.AfterFunc(d, f)
	return leakyTimer{}
}

func TestIdleMonitor_StaleCallbacksIgnored(t *testing.T) {
	clock := leakyClock{testutil.NewManualClock(time.Time{})}
	m, probe := newTestMonitor(t, clock, 30*time.Millisecond, 35*time.Millisecond)
	m.Start()

	clock.Advance(20 * time.Millisecond)
	m.OnActivity() // old timers keep running but belong to an old generation

	clock.Advance(20 * time.Millisecond) // old warning (30) and old logout (35) fire here
	w, l := probe.counts()
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, l)

	clock.Advance(15 * time.Millisecond) // new cycle: warning at 50, logout at 55
	w, l = probe.counts()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, l)
}

func TestIdleMonitor_Snapshot(t *testing.T) {
	clock := testutil.NewManualClock(time.Time{})
	m, _ := newTestMonitor(t, clock, 30*time.Millisecond, 35*time.Millisecond)
	start := clock.Now()
	m.Start()

	clock.Advance(31 * time.Millisecond)
	snap := m.Snapshot()
	assert.Equal(t, IdleWarning, snap.State)
	assert.Equal(t, start, snap.LastActivity)
	assert.Equal(t, start.Add(35*time.Millisecond), snap.Deadline)
	assert.True(t, snap.WarningFired)
	assert.False(t, snap.LogoutFired)
}

func TestIdleState_TextRoundTrip(t *testing.T) {
	var s IdleState
	require.NoError(t, s.UnmarshalText([]byte("warning")))
	assert.Equal(t, IdleWarning, s)
	assert.Error(t, s.UnmarshalText([]byte("asleep")))
}
