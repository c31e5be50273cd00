package handler

import (
	"net/http"

	"github.com/murmur-dev/murmur/internal/domain"
	"github.com/murmur-dev/murmur/internal/utils"
)

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	profile, err := h.users.Me(user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, profile)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	type bodyJson struct {
		Bio       *string `json:"bio"`
		AvatarUrl *string `json:"avatar_url"`
	}
	var body bodyJson
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	profile, err := h.users.UpdateMe(user, body.Bio, body.AvatarUrl)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, profile)
}

// DeleteMe removes the account and ends the session by expiring the
// auth cookie.
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	if err := h.users.DeleteMe(user); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.setTokenCookie(w, "", -1)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	prefs, err := h.users.Preferences(user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, prefs)
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var update domain.PreferencesUpdate
	if err := utils.Decode(r.Body, &update); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	prefs, err := h.users.UpdatePreferences(user, update)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, prefs)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	profiles, err := h.users.List(user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, profiles)
}

func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	targetId, err := parseUuidParam(r, "user")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.users.Block(user, targetId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	targetId, err := parseUuidParam(r, "user")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.users.Unblock(user, targetId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) BlockedUsers(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	profiles, err := h.users.Blocked(user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, profiles)
}
