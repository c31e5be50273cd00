package domain

import "time"

// ReactionCounts aggregates reactions on a target: emoji -> number of users.
type ReactionCounts map[Emoji]int64

// Message is the raw storage record. SenderId must never leave the process
// in a payload delivered to anyone but the sender; every externally visible
// representation goes through the presenter's MessageView.
type Message struct {
	Id          MsgId
	ThreadId    ThreadId
	SenderId    UserId
	RecipientId UserId
	Content     string
	CreatedAt   time.Time
	IsRead      bool
	ReadAt      *time.Time
	EditedAt    *time.Time
	DeletedAt   *time.Time
	DeletedBy   *UserId
	Reactions   ReactionCounts

	// Enrichment columns, populated only by specific queries.
	RecipientUsername Username // joined recipient name, for sender-side views
	UnreadCount       int64    // per-thread unread counter, for the conversations list
}

// MessageView is the only message shape serialized to clients or events.
// It intentionally has no sender fields.
type MessageView struct {
	Id        MsgId          `json:"id"`
	ThreadId  ThreadId       `json:"thread_id"`
	Content   string         `json:"content"`
	IsMine    bool           `json:"is_mine"`
	CreatedAt time.Time      `json:"created_at"`
	IsRead    bool           `json:"is_read"`
	EditedAt  *time.Time     `json:"edited_at,omitempty"`
	Deleted   bool           `json:"deleted,omitempty"`
	Reactions ReactionCounts `json:"reactions,omitempty"`

	// Number of unread messages in this thread for the viewer. Set on
	// conversation-list entries only.
	UnreadCount *int64 `json:"unread_count,omitempty"`

	// Recipient's display name. Set only when the viewer is the sender,
	// so a sender can tell who they wrote to. Receivers always get null.
	ToUsername *Username `json:"to_username,omitempty"`
}

// ThreadParticipants is the identity pair bound to a thread at creation.
type ThreadParticipants struct {
	First  UserId
	Second UserId
}

// Contains reports whether the given user is one of the two participants.
func (p ThreadParticipants) Contains(id UserId) bool {
	return p.First == id || p.Second == id
}

// Other returns the participant that is not the given user.
func (p ThreadParticipants) Other(id UserId) UserId {
	if p.First == id {
		return p.Second
	}
	return p.First
}

// Matches reports whether {a, b} equals the participant pair in any order.
func (p ThreadParticipants) Matches(a, b UserId) bool {
	return (p.First == a && p.Second == b) || (p.First == b && p.Second == a)
}
