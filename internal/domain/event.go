package domain

// EventType names a live event delivered over the event stream.
type EventType string

const (
	EventNewMessage      EventType = "new_message"
	EventMessageReaction EventType = "message_reaction"
	EventTyping          EventType = "typing"
	EventReadReceipt     EventType = "read_receipt"
	EventNewBroadcast    EventType = "new_broadcast"
	EventNewComment      EventType = "new_comment"
)

// Event is a closed union: Payload is always one of the payload structs
// below, selected by Type. It is serialized to JSON only at the transport
// boundary (SSE data line / websocket frame).
type Event struct {
	Type    EventType
	Payload any
}

type NewMessagePayload struct {
	MessageId MsgId    `json:"message_id"`
	ThreadId  ThreadId `json:"thread_id"`
}

type MessageReactionPayload struct {
	MessageId MsgId    `json:"message_id"`
	ThreadId  ThreadId `json:"thread_id"`
	Emoji     Emoji    `json:"emoji"`
	UserId    UserId   `json:"user_id"`
}

type TypingPayload struct {
	ThreadId ThreadId `json:"thread_id"`
	Username Username `json:"username"`
}

type ReadReceiptPayload struct {
	ThreadId   ThreadId `json:"thread_id"`
	MessageIds []MsgId  `json:"message_ids"`
}

type NewBroadcastPayload struct {
	BroadcastId BroadcastId `json:"broadcast_id"`
}

type NewCommentPayload struct {
	BroadcastId BroadcastId `json:"broadcast_id"`
	CommentId   CommentId   `json:"comment_id"`
}

func NewMessageEvent(messageId MsgId, threadId ThreadId) Event {
	return Event{Type: EventNewMessage, Payload: NewMessagePayload{MessageId: messageId, ThreadId: threadId}}
}

func MessageReactionEvent(messageId MsgId, threadId ThreadId, emoji Emoji, userId UserId) Event {
	return Event{Type: EventMessageReaction, Payload: MessageReactionPayload{MessageId: messageId, ThreadId: threadId, Emoji: emoji, UserId: userId}}
}

func TypingEvent(threadId ThreadId, username Username) Event {
	return Event{Type: EventTyping, Payload: TypingPayload{ThreadId: threadId, Username: username}}
}

func ReadReceiptEvent(threadId ThreadId, messageIds []MsgId) Event {
	return Event{Type: EventReadReceipt, Payload: ReadReceiptPayload{ThreadId: threadId, MessageIds: messageIds}}
}

func NewBroadcastEvent(broadcastId BroadcastId) Event {
	return Event{Type: EventNewBroadcast, Payload: NewBroadcastPayload{BroadcastId: broadcastId}}
}

func NewCommentEvent(broadcastId BroadcastId, commentId CommentId) Event {
	return Event{Type: EventNewComment, Payload: NewCommentPayload{BroadcastId: broadcastId, CommentId: commentId}}
}
