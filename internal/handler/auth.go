package handler

import (
	"net/http"

	"github.com/murmur-dev/murmur/internal/utils"
)

type credentials struct {
	Username string `validate:"required" json:"username"`
	Password string `validate:"required" json:"password"`
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    token,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := utils.DecodeValidate(r.Body, &creds); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, err := h.auth.Register(creds.Username, creds.Password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.setTokenCookie(w, token, int(h.cfg.JwtTTL().Seconds()))
	writeJSONStatus(w, http.StatusCreated, map[string]string{"access_token": token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := utils.DecodeValidate(r.Body, &creds); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, err := h.auth.Login(creds.Username, creds.Password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.setTokenCookie(w, token, int(h.cfg.JwtTTL().Seconds()))
	writeJSON(w, map[string]string{"access_token": token})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setTokenCookie(w, "", -1)
	w.WriteHeader(http.StatusOK)
}
