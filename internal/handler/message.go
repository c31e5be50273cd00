package handler

import (
	"net/http"

	"github.com/murmur-dev/murmur/internal/domain"
	internal_errors "github.com/murmur-dev/murmur/internal/errors"
	"github.com/murmur-dev/murmur/internal/utils"
)

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	type bodyJson struct {
		ToUsername domain.Username  `validate:"required" json:"to_username"`
		Content    string           `validate:"required" json:"content"`
		ThreadId   *domain.ThreadId `json:"thread_id"`
	}
	var body bodyJson
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	view, err := h.message.Send(user, body.ToUsername, body.Content, body.ThreadId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, view)
}

func (h *Handler) ReplyMessage(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	msgId, err := parseUuidParam(r, "message")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	type bodyJson struct {
		Content string `validate:"required" json:"content"`
	}
	var body bodyJson
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	view, err := h.message.Reply(user, msgId, body.Content)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, view)
}

func (h *Handler) ReactMessage(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	msgId, err := parseUuidParam(r, "message")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	type bodyJson struct {
		Emoji domain.Emoji `validate:"required" json:"emoji"`
	}
	var body bodyJson
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	view, err := h.message.React(user, msgId, body.Emoji)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, view)
}

func (h *Handler) EditMessage(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	msgId, err := parseUuidParam(r, "message")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	type bodyJson struct {
		Content string `validate:"required" json:"content"`
	}
	var body bodyJson
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	view, err := h.message.Edit(user, msgId, body.Content)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, view)
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	msgId, err := parseUuidParam(r, "message")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.message.Delete(user, msgId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) PinMessage(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	msgId, err := parseUuidParam(r, "message")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	pinned, err := h.message.PinMessage(user, msgId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, map[string]bool{"pinned": pinned})
}

func (h *Handler) Inbox(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	views, err := h.message.Inbox(user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, views)
}

func (h *Handler) SearchMessages(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		utils.WriteErrorAndStatusCode(w, internal_errors.InvalidInput("Missing query parameter q"))
		return
	}

	views, err := h.message.Search(user, query)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, views)
}
