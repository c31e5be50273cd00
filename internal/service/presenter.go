package service

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/murmur-dev/murmur/internal/domain"
	"github.com/murmur-dev/murmur/internal/logger"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Presenter converts raw storage records into the views clients are allowed
// to see. It is the single place where sender identity is stripped: every
// HTTP and event path that exposes messages or broadcasts goes through it.
type Presenter struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

func NewPresenter() *Presenter {
	return &Presenter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Message builds the viewer-specific view of a message. Sender identity
// never crosses this boundary: the viewer learns only is_mine, and
// to_username is set only for the viewer's own messages.
func (p *Presenter) Message(msg domain.Message, viewerId domain.UserId) domain.MessageView {
	view := domain.MessageView{
		Id:        msg.Id,
		ThreadId:  msg.ThreadId,
		Content:   msg.Content,
		IsMine:    msg.SenderId == viewerId,
		CreatedAt: msg.CreatedAt,
		IsRead:    msg.IsRead,
		EditedAt:  msg.EditedAt,
		Deleted:   msg.DeletedAt != nil,
		Reactions: msg.Reactions,
	}
	if view.Deleted {
		view.Content = ""
	}
	if view.IsMine && msg.RecipientUsername != "" {
		name := msg.RecipientUsername
		view.ToUsername = &name
	}
	return view
}

// ConversationEntry is Message plus the viewer's unread counter.
func (p *Presenter) ConversationEntry(msg domain.Message, viewerId domain.UserId) domain.MessageView {
	view := p.Message(msg, viewerId)
	unread := msg.UnreadCount
	view.UnreadCount = &unread
	return view
}

func (p *Presenter) Messages(messages []domain.Message, viewerId domain.UserId) []domain.MessageView {
	views := make([]domain.MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, p.Message(msg, viewerId))
	}
	return views
}

// Broadcast renders a broadcast for the viewer. Anonymous broadcasts never
// carry a sender name, not even for the poster; is_mine still works for the
// poster's own signed posts.
func (p *Presenter) Broadcast(b domain.Broadcast, viewerId domain.UserId) domain.BroadcastView {
	view := domain.BroadcastView{
		Id:          b.Id,
		Content:     b.Content,
		ContentHtml: p.renderHtml(b.Content),
		IsAnonymous: b.IsAnonymous,
		CreatedAt:   b.CreatedAt,
		ViewCount:   b.ViewCount,
	}
	if !b.IsAnonymous && b.SenderId != nil {
		view.SenderUsername = b.SenderName
		view.IsMine = *b.SenderId == viewerId
	}
	return view
}

func (p *Presenter) Broadcasts(broadcasts []domain.Broadcast, viewerId domain.UserId) []domain.BroadcastView {
	views := make([]domain.BroadcastView, 0, len(broadcasts))
	for _, b := range broadcasts {
		views = append(views, p.Broadcast(b, viewerId))
	}
	return views
}

// Comment renders a comment. Comments carry their author's name.
func (p *Presenter) Comment(c domain.Comment) domain.CommentView {
	return domain.CommentView{
		Id:              c.Id,
		BroadcastId:     c.BroadcastId,
		UserId:          c.UserId,
		Username:        c.Username,
		ParentCommentId: c.ParentCommentId,
		Content:         c.Content,
		ContentHtml:     p.renderHtml(c.Content),
		CreatedAt:       c.CreatedAt,
		Reactions:       c.Reactions,
	}
}

func (p *Presenter) Comments(comments []domain.Comment) []domain.CommentView {
	views := make([]domain.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, p.Comment(c))
	}
	return views
}

// renderHtml converts markdown to sanitized HTML. On a render failure the
// raw text is sanitized as-is rather than failing the request.
func (p *Presenter) renderHtml(text string) string {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(text), &buf); err != nil {
		logger.Log.Warn("markdown render failed", "component", "presenter", "error", err)
		return p.sanitizer.Sanitize(text)
	}
	return p.sanitizer.Sanitize(buf.String())
}
