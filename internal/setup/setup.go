package setup

import (
	"context"

	"github.com/murmur-dev/murmur/internal/config"
	"github.com/murmur-dev/murmur/internal/handler"
	"github.com/murmur-dev/murmur/internal/hub"
	"github.com/murmur-dev/murmur/internal/jwt"
	"github.com/murmur-dev/murmur/internal/middleware"
	"github.com/murmur-dev/murmur/internal/service"
	"github.com/murmur-dev/murmur/internal/storage/pg"
	"github.com/murmur-dev/murmur/internal/typing"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Hub            *hub.Hub
	TypingStore    *typing.Store
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Jwt            jwt.JwtService
}

// SetupDependencies wires the whole application together. The typing
// sweeper goroutine is tied to ctx and stops on shutdown.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	eventHub := hub.New(cfg.Public.EventQueueSize)

	typingStore := typing.NewStore(cfg.Public.TypingStaleness)
	typingStore.StartSweeper(ctx, cfg.Public.TypingSweepInterval)

	validator := service.NewContentValidator(cfg.Public.MaxMessageLen)
	presenter := service.NewPresenter()

	auth := service.NewAuth(storage, jwtService)
	users := service.NewUsers(storage)
	message := service.NewMessage(storage, validator, presenter, eventHub, typingStore, cfg.Public.SearchLimit)
	typingSvc := service.NewTyping(storage, typingStore, eventHub)
	broadcast := service.NewBroadcast(storage, validator, presenter, eventHub, cfg.Public.BroadcastsPerPage)

	h := handler.New(auth, users, message, typingSvc, broadcast, eventHub, storage, cfg)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Hub:            eventHub,
		TypingStore:    typingStore,
		Handler:        h,
		AuthMiddleware: middleware.NewAuth(jwtService),
		Jwt:            jwtService,
	}, nil
}

// Cleanup releases everything SetupDependencies opened.
func (d *Dependencies) Cleanup() {
	d.Hub.Close()
	d.Storage.Cleanup()
}
