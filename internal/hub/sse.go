package hub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/murmur-dev/murmur/internal/domain"
	"github.com/murmur-dev/murmur/internal/logger"
)

// ServeSSE streams the user's events over a long-lived HTTP connection as
// server-sent events. It returns when the client disconnects, the hub shuts
// down, or a write fails; the subscription is always released.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request, userId domain.UserId, keepAlive time.Duration) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	conn := h.Subscribe(userId)
	defer h.Unsubscribe(conn)

	logger.Log.Info("sse stream opened", "component", "hub", "user_id", userId)
	defer logger.Log.Info("sse stream closed", "component", "hub", "user_id", userId)

	// Initial comment so proxies and clients see bytes immediately.
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-conn.Events():
			if !ok { // hub shut down
				return
			}
			if err := writeSSEEvent(w, event); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			// No-op comment: detects dead connections, defeats idle timeouts.
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, event domain.Event) error {
	data, err := json.Marshal(event.Payload)
	if err != nil {
		logger.Log.Error("can't marshal event payload",
			"component", "hub",
			"event_type", event.Type,
			"error", err)
		return nil // skip the event, keep the stream alive
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	return err
}
