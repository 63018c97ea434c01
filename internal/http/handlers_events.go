package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/vbrevik/plan-targeting-assessment-sub003/internal/errors"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/service"
)

const defaultKeepAlive = 15 * time.Second

// EventSource is the subscription side of the shell event hub.
type EventSource interface {
	Subscribe(ctx context.Context) (string, <-chan service.Event)
}

// EventStreamHandler streams shell events as server-sent events.
type EventStreamHandler struct {
	Source EventSource
	// Current supplies the session event sent when a stream opens.
	Current   func() service.Event
	KeepAlive time.Duration
	Logger    *slog.Logger
}

// ServeHTTP GET /api/shell/events.
func (h *EventStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteAppError(w, apperrors.Internal("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	id, events := h.Source.Subscribe(ctx)
	logger.Debug("event stream opened", "subscriber", id)
	defer logger.Debug("event stream closed", "subscriber", id)

	if h.Current != nil {
		if err := writeEvent(w, h.Current()); err != nil {
			return
		}
	}
	flusher.Flush()

	keepAlive := h.KeepAlive
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				logger.Debug("event stream write failed", "subscriber", id, "error", err)
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev service.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if ev.ID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", ev.ID); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
	return err
}
