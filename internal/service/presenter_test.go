package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/murmur-dev/murmur/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenterMessage(t *testing.T) {
	p := NewPresenter()
	sender := uuid.New()
	recipient := uuid.New()

	msg := domain.Message{
		Id:                uuid.New(),
		ThreadId:          uuid.New(),
		SenderId:          sender,
		RecipientId:       recipient,
		Content:           "hello",
		CreatedAt:         time.Now(),
		RecipientUsername: "bob",
	}

	t.Run("sender view", func(t *testing.T) {
		view := p.Message(msg, sender)
		assert.True(t, view.IsMine)
		require.NotNil(t, view.ToUsername)
		assert.Equal(t, "bob", *view.ToUsername)
	})

	t.Run("recipient view carries no sender identity", func(t *testing.T) {
		view := p.Message(msg, recipient)
		assert.False(t, view.IsMine)
		assert.Nil(t, view.ToUsername)
	})

	t.Run("deleted message is a tombstone", func(t *testing.T) {
		now := time.Now()
		deleted := msg
		deleted.DeletedAt = &now
		view := p.Message(deleted, recipient)
		assert.True(t, view.Deleted)
		assert.Empty(t, view.Content)
	})
}

// Viewing the same message as sender and as recipient must never leak the
// sender's identity to the recipient, whatever the record contains.
func TestPresenterMessage_AnonymityProperty(t *testing.T) {
	p := NewPresenter()

	for i := 0; i < 50; i++ {
		msg := domain.Message{
			Id:                uuid.New(),
			ThreadId:          uuid.New(),
			SenderId:          uuid.New(),
			RecipientId:       uuid.New(),
			Content:           uuid.NewString(),
			RecipientUsername: uuid.NewString(),
		}

		asRecipient := p.Message(msg, msg.RecipientId)
		assert.False(t, asRecipient.IsMine)
		assert.Nil(t, asRecipient.ToUsername)
		assert.Nil(t, asRecipient.UnreadCount)

		asSender := p.Message(msg, msg.SenderId)
		assert.True(t, asSender.IsMine)
	}
}

func TestPresenterBroadcast(t *testing.T) {
	p := NewPresenter()
	poster := uuid.New()
	name := "alice"

	t.Run("signed broadcast shows author", func(t *testing.T) {
		b := domain.Broadcast{Id: uuid.New(), SenderId: &poster, SenderName: &name, Content: "**bold**"}
		view := p.Broadcast(b, poster)
		require.NotNil(t, view.SenderUsername)
		assert.Equal(t, name, *view.SenderUsername)
		assert.True(t, view.IsMine)
		assert.Contains(t, view.ContentHtml, "<strong>bold</strong>")
	})

	t.Run("anonymous broadcast hides author even from the poster", func(t *testing.T) {
		b := domain.Broadcast{Id: uuid.New(), SenderId: &poster, SenderName: &name, IsAnonymous: true, Content: "psst"}
		view := p.Broadcast(b, poster)
		assert.Nil(t, view.SenderUsername)
		assert.False(t, view.IsMine)
	})

	t.Run("html is sanitized", func(t *testing.T) {
		b := domain.Broadcast{Id: uuid.New(), Content: `<script>alert(1)</script> safe`}
		view := p.Broadcast(b, poster)
		assert.NotContains(t, view.ContentHtml, "<script>")
		assert.Contains(t, view.ContentHtml, "safe")
	})
}

func TestPresenterComment(t *testing.T) {
	p := NewPresenter()
	parent := uuid.New()

	c := domain.Comment{
		Id:              uuid.New(),
		BroadcastId:     uuid.New(),
		UserId:          uuid.New(),
		Username:        "carol",
		ParentCommentId: &parent,
		Content:         "~~nope~~ yes",
		Reactions:       domain.ReactionCounts{"👀": 2},
	}

	view := p.Comment(c)
	assert.Equal(t, "carol", view.Username)
	assert.Equal(t, &parent, view.ParentCommentId)
	assert.Contains(t, view.ContentHtml, "<del>nope</del>")
	assert.Equal(t, c.Reactions, view.Reactions)
}
