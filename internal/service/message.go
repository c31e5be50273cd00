package service

import (
	"github.com/google/uuid"
	"github.com/murmur-dev/murmur/internal/domain"
	internal_errors "github.com/murmur-dev/murmur/internal/errors"
	"github.com/murmur-dev/murmur/internal/logger"
)

// MessageService routes messages between the two fixed identities of a
// thread. Every mutating operation runs validate -> persist -> notify; a
// failed persist produces no notifications.
type MessageService interface {
	Send(sender *domain.User, recipientUsername domain.Username, content string, explicitThread *domain.ThreadId) (domain.MessageView, error)
	Reply(sender *domain.User, originalId domain.MsgId, content string) (domain.MessageView, error)
	React(user *domain.User, id domain.MsgId, emoji domain.Emoji) (domain.MessageView, error)
	Edit(user *domain.User, id domain.MsgId, content string) (domain.MessageView, error)
	Delete(user *domain.User, id domain.MsgId) error
	DeleteThread(user *domain.User, threadId domain.ThreadId) error
	PinMessage(user *domain.User, id domain.MsgId) (bool, error)
	PinThread(user *domain.User, threadId domain.ThreadId) (bool, error)
	MarkRead(user *domain.User, threadId domain.ThreadId) ([]domain.MsgId, error)
	Thread(user *domain.User, threadId domain.ThreadId) ([]domain.MessageView, error)
	Conversations(user *domain.User) ([]domain.MessageView, error)
	Inbox(user *domain.User) ([]domain.MessageView, error)
	Search(user *domain.User, query string) ([]domain.MessageView, error)
}

type MessageStorage interface {
	CreateMessage(threadId domain.ThreadId, senderId, recipientId domain.UserId, content string) (domain.Message, error)
	GetMessage(id domain.MsgId) (domain.Message, error)
	ThreadMessages(threadId domain.ThreadId) ([]domain.Message, error)
	ThreadParticipants(threadId domain.ThreadId) (domain.ThreadParticipants, error)
	Conversations(viewerId domain.UserId) ([]domain.Message, error)
	Inbox(viewerId domain.UserId) ([]domain.Message, error)
	SearchMessages(viewerId domain.UserId, query string, limit int) ([]domain.Message, error)
	MarkThreadRead(threadId domain.ThreadId, viewerId domain.UserId) ([]domain.MsgId, error)
	EditMessage(id domain.MsgId, editorId domain.UserId, content string) (domain.Message, error)
	SoftDeleteMessage(id domain.MsgId, deleterId domain.UserId) (domain.Message, error)
	DeleteThread(threadId domain.ThreadId, deleterId domain.UserId) error
	Preferences(userId domain.UserId) (domain.Preferences, error)
	UpsertMessageReaction(id domain.MsgId, userId domain.UserId, emoji domain.Emoji) (domain.Message, error)
	TogglePinMessage(id domain.MsgId, userId domain.UserId) (bool, error)
	TogglePinThread(threadId domain.ThreadId, userId domain.UserId) (bool, error)
	UserByUsername(username domain.Username) (domain.User, error)
	IsBlocked(blockerId, blockedId domain.UserId) (bool, error)
}

// Notifier is the hub surface services publish into.
type Notifier interface {
	Publish(userId domain.UserId, event domain.Event)
	Broadcast(event domain.Event)
}

// TypingState lets the send path drop the sender's indicator the moment a
// message lands.
type TypingState interface {
	Clear(threadId domain.ThreadId, userId domain.UserId)
}

type ContentValidator interface {
	Content(text string) error
	Emoji(emoji string) error
}

type Message struct {
	storage     MessageStorage
	validator   ContentValidator
	presenter   *Presenter
	notifier    Notifier
	typing      TypingState
	searchLimit int
}

func NewMessage(storage MessageStorage, validator ContentValidator, presenter *Presenter, notifier Notifier, typing TypingState, searchLimit int) MessageService {
	return &Message{storage, validator, presenter, notifier, typing, searchLimit}
}

// Send delivers a message to a recipient picked by username. An explicit
// thread id must belong to exactly this sender/recipient pair; without one
// a fresh thread id is minted.
func (m *Message) Send(sender *domain.User, recipientUsername domain.Username, content string, explicitThread *domain.ThreadId) (domain.MessageView, error) {
	if err := m.validator.Content(content); err != nil {
		return domain.MessageView{}, err
	}

	recipient, err := m.storage.UserByUsername(recipientUsername)
	if err != nil {
		return domain.MessageView{}, err
	}
	if recipient.Id == sender.Id {
		return domain.MessageView{}, internal_errors.InvalidInput("Cannot message yourself")
	}

	blocked, err := m.storage.IsBlocked(recipient.Id, sender.Id)
	if err != nil {
		return domain.MessageView{}, err
	}
	if blocked {
		return domain.MessageView{}, internal_errors.Blocked("Recipient is not accepting your messages")
	}

	threadId, err := m.resolveThread(sender.Id, recipient.Id, explicitThread)
	if err != nil {
		return domain.MessageView{}, err
	}

	msg, err := m.storage.CreateMessage(threadId, sender.Id, recipient.Id, content)
	if err != nil {
		return domain.MessageView{}, err
	}
	msg.RecipientUsername = recipient.Username

	m.typing.Clear(threadId, sender.Id)
	m.notifier.Publish(recipient.Id, domain.NewMessageEvent(msg.Id, msg.ThreadId))

	logger.Log.Info("message routed",
		"component", "message_service",
		"message_id", msg.Id,
		"thread_id", msg.ThreadId)
	return m.presenter.Message(msg, sender.Id), nil
}

// Reply continues the thread of an existing message; the recipient is
// always the thread's other participant.
func (m *Message) Reply(sender *domain.User, originalId domain.MsgId, content string) (domain.MessageView, error) {
	if err := m.validator.Content(content); err != nil {
		return domain.MessageView{}, err
	}

	original, err := m.storage.GetMessage(originalId)
	if err != nil {
		return domain.MessageView{}, err
	}
	participants, err := m.storage.ThreadParticipants(original.ThreadId)
	if err != nil {
		return domain.MessageView{}, err
	}
	if !participants.Contains(sender.Id) {
		return domain.MessageView{}, internal_errors.Forbidden("Not a participant of this thread")
	}
	recipientId := participants.Other(sender.Id)

	blocked, err := m.storage.IsBlocked(recipientId, sender.Id)
	if err != nil {
		return domain.MessageView{}, err
	}
	if blocked {
		return domain.MessageView{}, internal_errors.Blocked("Recipient is not accepting your messages")
	}

	msg, err := m.storage.CreateMessage(original.ThreadId, sender.Id, recipientId, content)
	if err != nil {
		return domain.MessageView{}, err
	}

	m.typing.Clear(original.ThreadId, sender.Id)
	m.notifier.Publish(recipientId, domain.NewMessageEvent(msg.Id, msg.ThreadId))

	return m.presenter.Message(msg, sender.Id), nil
}

// resolveThread binds the message to a thread. The participant pair of an
// explicit thread is immutable, so a mismatch is a conflict, not a merge.
func (m *Message) resolveThread(senderId, recipientId domain.UserId, explicit *domain.ThreadId) (domain.ThreadId, error) {
	if explicit == nil {
		return uuid.New(), nil
	}
	participants, err := m.storage.ThreadParticipants(*explicit)
	if err != nil {
		return domain.ThreadId{}, err
	}
	if !participants.Matches(senderId, recipientId) {
		return domain.ThreadId{}, internal_errors.Conflict("Thread belongs to a different pair of users")
	}
	return *explicit, nil
}

// React sets the user's reaction and notifies both participants. The actor
// is included so their other connections pick up the change too.
func (m *Message) React(user *domain.User, id domain.MsgId, emoji domain.Emoji) (domain.MessageView, error) {
	if err := m.validator.Emoji(emoji); err != nil {
		return domain.MessageView{}, err
	}

	msg, err := m.storage.UpsertMessageReaction(id, user.Id, emoji)
	if err != nil {
		return domain.MessageView{}, err
	}

	event := domain.MessageReactionEvent(msg.Id, msg.ThreadId, emoji, user.Id)
	m.notifier.Publish(msg.SenderId, event)
	m.notifier.Publish(msg.RecipientId, event)

	return m.presenter.Message(msg, user.Id), nil
}

// Edit replaces the content of the user's own message. Clients treat the
// resulting new_message event as a refetch hint.
func (m *Message) Edit(user *domain.User, id domain.MsgId, content string) (domain.MessageView, error) {
	if err := m.validator.Content(content); err != nil {
		return domain.MessageView{}, err
	}

	msg, err := m.storage.EditMessage(id, user.Id, content)
	if err != nil {
		return domain.MessageView{}, err
	}

	m.notifier.Publish(msg.RecipientId, domain.NewMessageEvent(msg.Id, msg.ThreadId))
	return m.presenter.Message(msg, user.Id), nil
}

// Delete soft-deletes a message the user participates in. No event: the
// tombstone shows up on the next fetch.
func (m *Message) Delete(user *domain.User, id domain.MsgId) error {
	_, err := m.storage.SoftDeleteMessage(id, user.Id)
	return err
}

// DeleteThread tombstones every message in a thread the user participates
// in. Like single-message deletes, no event is published.
func (m *Message) DeleteThread(user *domain.User, threadId domain.ThreadId) error {
	participants, err := m.storage.ThreadParticipants(threadId)
	if err != nil {
		return err
	}
	if !participants.Contains(user.Id) {
		return internal_errors.Forbidden("Not a participant of this thread")
	}
	return m.storage.DeleteThread(threadId, user.Id)
}

func (m *Message) PinMessage(user *domain.User, id domain.MsgId) (bool, error) {
	msg, err := m.storage.GetMessage(id)
	if err != nil {
		return false, err
	}
	if msg.SenderId != user.Id && msg.RecipientId != user.Id {
		return false, internal_errors.Forbidden("Not a participant of this thread")
	}
	return m.storage.TogglePinMessage(id, user.Id)
}

func (m *Message) PinThread(user *domain.User, threadId domain.ThreadId) (bool, error) {
	participants, err := m.storage.ThreadParticipants(threadId)
	if err != nil {
		return false, err
	}
	if !participants.Contains(user.Id) {
		return false, internal_errors.Forbidden("Not a participant of this thread")
	}
	return m.storage.TogglePinThread(threadId, user.Id)
}

// MarkRead flags the user's unread received messages in the thread and
// sends the sender a read receipt when anything changed. Users who turned
// off read receipts still get their own unread counts cleared, but the
// other side learns nothing.
func (m *Message) MarkRead(user *domain.User, threadId domain.ThreadId) ([]domain.MsgId, error) {
	participants, err := m.storage.ThreadParticipants(threadId)
	if err != nil {
		return nil, err
	}
	if !participants.Contains(user.Id) {
		return nil, internal_errors.Forbidden("Not a participant of this thread")
	}

	ids, err := m.storage.MarkThreadRead(threadId, user.Id)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 && m.sharesReadState(user.Id) {
		m.notifier.Publish(participants.Other(user.Id), domain.ReadReceiptEvent(threadId, ids))
	}
	return ids, nil
}

// sharesReadState reports whether the reader publishes read receipts.
// Receipts are best-effort, so a failed preferences lookup suppresses the
// event rather than failing the already-persisted mark.
func (m *Message) sharesReadState(userId domain.UserId) bool {
	prefs, err := m.storage.Preferences(userId)
	if err != nil {
		return false
	}
	return prefs.ShowReadReceipts
}

// Thread returns the full conversation and implicitly marks received
// messages as read, mirroring a client opening the thread.
func (m *Message) Thread(user *domain.User, threadId domain.ThreadId) ([]domain.MessageView, error) {
	if _, err := m.MarkRead(user, threadId); err != nil {
		return nil, err
	}

	messages, err := m.storage.ThreadMessages(threadId)
	if err != nil {
		return nil, err
	}
	return m.presenter.Messages(messages, user.Id), nil
}

func (m *Message) Conversations(user *domain.User) ([]domain.MessageView, error) {
	messages, err := m.storage.Conversations(user.Id)
	if err != nil {
		return nil, err
	}
	views := make([]domain.MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, m.presenter.ConversationEntry(msg, user.Id))
	}
	return views, nil
}

func (m *Message) Inbox(user *domain.User) ([]domain.MessageView, error) {
	messages, err := m.storage.Inbox(user.Id)
	if err != nil {
		return nil, err
	}
	return m.presenter.Messages(messages, user.Id), nil
}

func (m *Message) Search(user *domain.User, query string) ([]domain.MessageView, error) {
	if err := m.validator.Content(query); err != nil {
		return nil, err
	}
	messages, err := m.storage.SearchMessages(user.Id, query, m.searchLimit)
	if err != nil {
		return nil, err
	}
	return m.presenter.Messages(messages, user.Id), nil
}
