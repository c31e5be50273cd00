package service

import (
	"github.com/murmur-dev/murmur/internal/domain"
	"github.com/murmur-dev/murmur/internal/logger"
)

// BroadcastService handles public posts and their comment trees.
type BroadcastService interface {
	Create(user *domain.User, content string, anonymous bool) (domain.BroadcastView, error)
	List(user *domain.User) ([]domain.BroadcastView, error)
	TrackView(user *domain.User, id domain.BroadcastId) error
	Comment(user *domain.User, broadcastId domain.BroadcastId, parentId *domain.CommentId, content string) (domain.CommentView, error)
	Comments(user *domain.User, broadcastId domain.BroadcastId) ([]domain.CommentView, error)
	ReactComment(user *domain.User, commentId domain.CommentId, emoji domain.Emoji) error
	DeleteComment(user *domain.User, commentId domain.CommentId) error
}

type BroadcastStorage interface {
	CreateBroadcast(senderId domain.UserId, content string, anonymous bool) (domain.Broadcast, error)
	Broadcasts(limit int) ([]domain.Broadcast, error)
	TrackBroadcastView(broadcastId domain.BroadcastId, userId domain.UserId) error
	CreateComment(broadcastId domain.BroadcastId, userId domain.UserId, parentId *domain.CommentId, content string) (domain.Comment, error)
	BroadcastComments(broadcastId domain.BroadcastId) ([]domain.Comment, error)
	UpsertCommentReaction(commentId domain.CommentId, userId domain.UserId, emoji domain.Emoji) (domain.BroadcastId, error)
	SoftDeleteComment(commentId domain.CommentId, userId domain.UserId) error
}

type Broadcast struct {
	storage   BroadcastStorage
	validator ContentValidator
	presenter *Presenter
	notifier  Notifier
	pageSize  int
}

func NewBroadcast(storage BroadcastStorage, validator ContentValidator, presenter *Presenter, notifier Notifier, pageSize int) BroadcastService {
	return &Broadcast{storage, validator, presenter, notifier, pageSize}
}

// Create publishes a post to everyone. Anonymous posts drop the sender
// association before the row is written; no later query can recover it.
func (b *Broadcast) Create(user *domain.User, content string, anonymous bool) (domain.BroadcastView, error) {
	if err := b.validator.Content(content); err != nil {
		return domain.BroadcastView{}, err
	}

	created, err := b.storage.CreateBroadcast(user.Id, content, anonymous)
	if err != nil {
		return domain.BroadcastView{}, err
	}
	if !anonymous {
		created.SenderName = &user.Username
	}

	b.notifier.Broadcast(domain.NewBroadcastEvent(created.Id))
	logger.Log.Info("broadcast published",
		"component", "broadcast_service",
		"broadcast_id", created.Id,
		"anonymous", anonymous)

	view := b.presenter.Broadcast(created, user.Id)
	// The poster of an anonymous broadcast still needs client-side
	// controls for the post they just made.
	if anonymous {
		view.IsMine = true
	}
	return view, nil
}

func (b *Broadcast) List(user *domain.User) ([]domain.BroadcastView, error) {
	broadcasts, err := b.storage.Broadcasts(b.pageSize)
	if err != nil {
		return nil, err
	}
	return b.presenter.Broadcasts(broadcasts, user.Id), nil
}

func (b *Broadcast) TrackView(user *domain.User, id domain.BroadcastId) error {
	return b.storage.TrackBroadcastView(id, user.Id)
}

func (b *Broadcast) Comment(user *domain.User, broadcastId domain.BroadcastId, parentId *domain.CommentId, content string) (domain.CommentView, error) {
	if err := b.validator.Content(content); err != nil {
		return domain.CommentView{}, err
	}

	comment, err := b.storage.CreateComment(broadcastId, user.Id, parentId, content)
	if err != nil {
		return domain.CommentView{}, err
	}

	b.notifier.Broadcast(domain.NewCommentEvent(broadcastId, comment.Id))
	return b.presenter.Comment(comment), nil
}

func (b *Broadcast) Comments(user *domain.User, broadcastId domain.BroadcastId) ([]domain.CommentView, error) {
	comments, err := b.storage.BroadcastComments(broadcastId)
	if err != nil {
		return nil, err
	}
	return b.presenter.Comments(comments), nil
}

func (b *Broadcast) ReactComment(user *domain.User, commentId domain.CommentId, emoji domain.Emoji) error {
	if err := b.validator.Emoji(emoji); err != nil {
		return err
	}
	_, err := b.storage.UpsertCommentReaction(commentId, user.Id, emoji)
	return err
}

func (b *Broadcast) DeleteComment(user *domain.User, commentId domain.CommentId) error {
	return b.storage.SoftDeleteComment(commentId, user.Id)
}
