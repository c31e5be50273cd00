package handler

import (
	"net/http"
)

// Events streams the authenticated user's live events over SSE.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	h.hub.ServeSSE(w, r, user.Id, h.cfg.Public.KeepAliveInterval)
}

// EventsWS streams the same events over a websocket.
func (h *Handler) EventsWS(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	h.hub.ServeWS(w, r, user.Id)
}
