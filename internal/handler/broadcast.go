package handler

import (
	"net/http"

	"github.com/murmur-dev/murmur/internal/domain"
	"github.com/murmur-dev/murmur/internal/utils"
)

func (h *Handler) CreateBroadcast(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	type bodyJson struct {
		Content     string `validate:"required" json:"content"`
		IsAnonymous bool   `json:"is_anonymous"`
	}
	var body bodyJson
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	view, err := h.broadcast.Create(user, body.Content, body.IsAnonymous)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, view)
}

func (h *Handler) ListBroadcasts(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	views, err := h.broadcast.List(user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, views)
}

func (h *Handler) TrackBroadcastView(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	broadcastId, err := parseUuidParam(r, "broadcast")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.broadcast.TrackView(user, broadcastId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	broadcastId, err := parseUuidParam(r, "broadcast")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	type bodyJson struct {
		Content         string            `validate:"required" json:"content"`
		ParentCommentId *domain.CommentId `json:"parent_comment_id"`
	}
	var body bodyJson
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	view, err := h.broadcast.Comment(user, broadcastId, body.ParentCommentId, body.Content)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, view)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	broadcastId, err := parseUuidParam(r, "broadcast")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	views, err := h.broadcast.Comments(user, broadcastId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, views)
}

func (h *Handler) ReactComment(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	commentId, err := parseUuidParam(r, "comment")
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

	if err := h.broadcast.ReactComment(user, commentId, body.Emoji); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	commentId, err := parseUuidParam(r, "comment")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.broadcast.DeleteComment(user, commentId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
