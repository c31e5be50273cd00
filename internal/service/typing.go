package service

import (
	"github.com/murmur-dev/murmur/internal/domain"
	internal_errors "github.com/murmur-dev/murmur/internal/errors"
)

// TypingService relays typing indicators between thread participants
// without touching durable storage.
type TypingService interface {
	Signal(user *domain.User, threadId domain.ThreadId) error
}

type TypingStore interface {
	Signal(threadId domain.ThreadId, userId domain.UserId) bool
	Clear(threadId domain.ThreadId, userId domain.UserId)
}

type ThreadStorage interface {
	ThreadParticipants(threadId domain.ThreadId) (domain.ThreadParticipants, error)
	Preferences(userId domain.UserId) (domain.Preferences, error)
}

type Typing struct {
	storage  ThreadStorage
	store    TypingStore
	notifier Notifier
}

func NewTyping(storage ThreadStorage, store TypingStore, notifier Notifier) TypingService {
	return &Typing{storage, store, notifier}
}

// Signal refreshes the user's indicator and notifies the other participant
// on the leading edge only; repeated signals within the staleness window
// stay silent so held-down keys don't flood the stream. A user who turned
// off typing indicators signals nothing at all.
func (t *Typing) Signal(user *domain.User, threadId domain.ThreadId) error {
	participants, err := t.storage.ThreadParticipants(threadId)
	if err != nil {
		return err
	}
	if !participants.Contains(user.Id) {
		return internal_errors.Forbidden("Not a participant of this thread")
	}

	prefs, err := t.storage.Preferences(user.Id)
	if err != nil {
		return err
	}
	if !prefs.ShowTypingIndicators {
		return nil
	}

	if t.store.Signal(threadId, user.Id) {
		t.notifier.Publish(participants.Other(user.Id), domain.TypingEvent(threadId, user.Username))
	}
	return nil
}
