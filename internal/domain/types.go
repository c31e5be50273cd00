package domain

import "github.com/google/uuid"

type (
	UserId      = uuid.UUID
	MsgId       = uuid.UUID
	ThreadId    = uuid.UUID
	BroadcastId = uuid.UUID
	CommentId   = uuid.UUID

	Username = string
	Emoji    = string
)
