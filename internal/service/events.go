package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/auth"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"
)

// Event types pushed to UI subscribers.
const (
	EventSession     = "session"
	EventIdleWarning = "idle_warning"
	EventIdleLogout  = "idle_logout"
	EventRedirect    = "redirect"
)

// Event is a shell notification for the UI.
type Event struct {
	ID               string              `json:"id"`
	Type             string              `json:"type"`
	Session          *domainauth.Session `json:"session,omitempty"`
	RemainingSeconds int64               `json:"remainingSeconds,omitempty"`
	Reason           string              `json:"reason,omitempty"`
	// Location is where a redirect event sends the UI.
	Location string `json:"location,omitempty"`
}

const eventBuffer = 16

// EventHub fans events out to live subscribers. Slow subscribers lose events rather
// than block publishers. It also serves as the gateway's LoginRedirector.
type EventHub struct {
	mu        sync.Mutex
	subs      map[string]chan Event
	loginPath string
	logger    *slog.Logger
}

var _ ports.LoginRedirector = (*EventHub)(nil)

// NewEventHub creates an empty hub.
func NewEventHub(logger *slog.Logger) *EventHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHub{subs: make(map[string]chan Event), loginPath: "/login", logger: logger.With("component", "events")}
}

// WithLoginPath sets the location carried by redirect events.
func (h *EventHub) WithLoginPath(path string) *EventHub {
	if path != "" {
		h.loginPath = path
	}
	return h
}

// Subscribe returns a subscriber id and a channel that is closed when ctx ends.
func (h *EventHub) Subscribe(ctx context.Context) (string, <-chan Event) {
	id := uuid.NewString()
	ch := make(chan Event, eventBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		close(ch)
		h.mu.Unlock()
	}()
	return id, ch
}

// Publish delivers ev to every subscriber without blocking.
func (h *EventHub) Publish(ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.logger.Debug("dropping event for slow subscriber", "subscriber", id, "type", ev.Type)
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (h *EventHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// RedirectToLogin tells every connected UI to navigate to the login view.
func (h *EventHub) RedirectToLogin(_ context.Context, reason string) {
	h.Publish(Event{Type: EventRedirect, Reason: reason, Location: h.loginPath})
}

// SessionEvent wraps a session snapshot for subscribers.
func SessionEvent(s domainauth.Session) Event {
	return Event{Type: EventSession, Session: &s}
}

func idleWarningEvent(remaining time.Duration) Event {
	return Event{Type: EventIdleWarning, RemainingSeconds: int64(remaining.Round(time.Second) / time.Second)}
}
