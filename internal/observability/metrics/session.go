package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome constants for gateway call labels.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeNetwork  = "network"
)

// Idle event kinds.
const (
	IdleWarning = "warning"
	IdleLogout  = "logout"
	IdleExtend  = "extend"
	IdleVoided  = "extend_failed"
)

// Recorder receives session shell lifecycle metrics. All methods must be safe on a nil receiver.
type Recorder interface {
	SessionTransition(to string)
	GatewayCall(op, outcome, errorClass string)
	IdleEvent(kind string)
}

// Session emits shell metrics to a Prometheus registry.
type Session struct {
	transitions *prometheus.CounterVec
	gateway     *prometheus.CounterVec
	idle        *prometheus.CounterVec
}

var _ Recorder = (*Session)(nil)

// NewSession registers the shell collectors on reg. A nil reg uses a private registry,
// which keeps tests from colliding on the global default.
func NewSession(reg prometheus.Registerer) *Session {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s := &Session{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "opscenter",
			Subsystem: "session",
			Name:      "transitions_total",
			Help:      "Applied session state transitions by target state.",
		}, []string{"state"}),
		gateway: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "opscenter",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Authentication service calls by operation and outcome.",
		}, []string{"op", "outcome", "error_class"}),
		idle: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "opscenter",
			Subsystem: "idle",
			Name:      "events_total",
			Help:      "Idle monitor events by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(s.transitions, s.gateway, s.idle)
	return s
}

// SessionTransition counts an applied transition into state.
func (s *Session) SessionTransition(state string) {
	if s == nil {
		return
	}
	s.transitions.WithLabelValues(state).Inc()
}

// GatewayCall counts a credential gateway call.
func (s *Session) GatewayCall(op, outcome, errorClass string) {
	if s == nil {
		return
	}
	s.gateway.WithLabelValues(op, outcome, errorClass).Inc()
}

// IdleEvent counts an idle monitor event.
func (s *Session) IdleEvent(kind string) {
	if s == nil {
		return
	}
	s.idle.WithLabelValues(kind).Inc()
}

type noop struct{}

func (noop) SessionTransition(string) {}
func (noop) GatewayCall(string, string, string) {}
func (noop) IdleEvent(string) {}

// OrNoop returns r, or a recorder that discards everything when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return noop{}
	}
	return r
}
