package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/murmur-dev/murmur/internal/config"
	"github.com/murmur-dev/murmur/internal/hub"
	"github.com/murmur-dev/murmur/internal/logger"
	"github.com/murmur-dev/murmur/internal/service"
)

// HealthChecker is what the readiness probe needs from the durable store.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth      service.AuthService
	users     service.UserService
	message   service.MessageService
	typing    service.TypingService
	broadcast service.BroadcastService
	hub       *hub.Hub
	health    HealthChecker
	cfg       *config.Config
}

func New(
	auth service.AuthService,
	users service.UserService,
	message service.MessageService,
	typing service.TypingService,
	broadcast service.BroadcastService,
	eventHub *hub.Hub,
	health HealthChecker,
	cfg *config.Config,
) *Handler {
	return &Handler{auth, users, message, typing, broadcast, eventHub, health, cfg}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
