package router

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/murmur-dev/murmur/internal/middleware/metrics"
	"github.com/murmur-dev/murmur/internal/setup"
)

// New builds the HTTP routing table. gzip compression is applied only to
// the JSON subrouters; the /events and /ws streams must reach the client
// unbuffered.
func New(deps *setup.Dependencies) *mux.Router {
	r := mux.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(handlers.CORS(
		handlers.AllowedOrigins([]string{deps.Config.Public.CorsOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	))

	// Wildcard OPTIONS handler so preflight requests don't 404.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/ready", h.Ready).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	auth := v1.PathPrefix("/auth").Subrouter()
	auth.Use(handlers.CompressHandler)
	auth.HandleFunc("/register", h.Register).Methods("POST")
	auth.HandleFunc("/login", h.Login).Methods("POST")
	auth.HandleFunc("/logout", h.Logout).Methods("POST")

	// Live streams: authenticated, never compressed.
	streams := v1.NewRoute().Subrouter()
	streams.Use(authMw.NeedAuth())
	streams.HandleFunc("/events", h.Events).Methods("GET")
	streams.HandleFunc("/ws", h.EventsWS).Methods("GET")

	loggedIn := v1.NewRoute().Subrouter()
	loggedIn.Use(authMw.NeedAuth())
	loggedIn.Use(handlers.CompressHandler)

	loggedIn.HandleFunc("/me", h.Me).Methods("GET")
	loggedIn.HandleFunc("/me", h.UpdateMe).Methods("POST")
	loggedIn.HandleFunc("/me", h.DeleteMe).Methods("DELETE")
	loggedIn.HandleFunc("/preferences", h.Preferences).Methods("GET")
	loggedIn.HandleFunc("/preferences", h.UpdatePreferences).Methods("POST")
	loggedIn.HandleFunc("/users", h.ListUsers).Methods("GET")
	loggedIn.HandleFunc("/users/blocked", h.BlockedUsers).Methods("GET")
	loggedIn.HandleFunc("/users/{user}/block", h.BlockUser).Methods("POST")
	loggedIn.HandleFunc("/users/{user}/unblock", h.UnblockUser).Methods("POST")

	loggedIn.HandleFunc("/messages", h.SendMessage).Methods("POST")
	loggedIn.HandleFunc("/messages/inbox", h.Inbox).Methods("GET")
	loggedIn.HandleFunc("/messages/search", h.SearchMessages).Methods("GET")
	loggedIn.HandleFunc("/messages/{message}/reply", h.ReplyMessage).Methods("POST")
	loggedIn.HandleFunc("/messages/{message}/react", h.ReactMessage).Methods("POST")
	loggedIn.HandleFunc("/messages/{message}/edit", h.EditMessage).Methods("POST")
	loggedIn.HandleFunc("/messages/{message}/pin", h.PinMessage).Methods("POST")
	loggedIn.HandleFunc("/messages/{message}", h.DeleteMessage).Methods("DELETE")

	loggedIn.HandleFunc("/conversations", h.Conversations).Methods("GET")
	loggedIn.HandleFunc("/conversations/{thread}", h.GetThread).Methods("GET")
	loggedIn.HandleFunc("/conversations/{thread}", h.DeleteThread).Methods("DELETE")
	loggedIn.HandleFunc("/conversations/{thread}/read", h.MarkThreadRead).Methods("POST")
	loggedIn.HandleFunc("/conversations/{thread}/typing", h.Typing).Methods("POST")
	loggedIn.HandleFunc("/conversations/{thread}/pin", h.PinThread).Methods("POST")

	loggedIn.HandleFunc("/broadcasts", h.CreateBroadcast).Methods("POST")
	loggedIn.HandleFunc("/broadcasts", h.ListBroadcasts).Methods("GET")
	loggedIn.HandleFunc("/broadcasts/{broadcast}/view", h.TrackBroadcastView).Methods("POST")
	loggedIn.HandleFunc("/broadcasts/{broadcast}/comments", h.CreateComment).Methods("POST")
	loggedIn.HandleFunc("/broadcasts/{broadcast}/comments", h.ListComments).Methods("GET")
	loggedIn.HandleFunc("/broadcasts/comments/{comment}/react", h.ReactComment).Methods("POST")
	loggedIn.HandleFunc("/broadcasts/comments/{comment}", h.DeleteComment).Methods("DELETE")

	return r
}
