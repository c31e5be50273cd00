package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/murmur-dev/murmur/internal/domain"
	internal_errors "github.com/murmur-dev/murmur/internal/errors"
	"github.com/murmur-dev/murmur/internal/middleware"
	"github.com/murmur-dev/murmur/internal/utils"
)

// requireUser returns the user placed in the context by the auth
// middleware, writing a 401 when it is missing.
func requireUser(w http.ResponseWriter, r *http.Request) *domain.User {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		utils.WriteErrorAndStatusCode(w, internal_errors.Unauthorized("Unauthorized"))
	}
	return user
}

// parseUuidParam reads a uuid path variable. A malformed id is a 400, not
// a 404, so typos are distinguishable from missing resources.
func parseUuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.UUID{}, internal_errors.InvalidInput("Invalid " + name + " id")
	}
	return id, nil
}
