package domain

import "time"

// Broadcast is a public post. SenderId is nil when posted anonymously;
// an anonymous broadcast never reveals its author, not even to the author.
type Broadcast struct {
	Id          BroadcastId
	SenderId    *UserId
	SenderName  *Username // joined, nil for anonymous broadcasts
	Content     string
	IsAnonymous bool
	CreatedAt   time.Time
	DeletedAt   *time.Time
	ViewCount   int64
}

type BroadcastView struct {
	Id             BroadcastId `json:"id"`
	SenderUsername *Username   `json:"sender_username,omitempty"`
	Content        string      `json:"content"`
	ContentHtml    string      `json:"content_html"`
	IsAnonymous    bool        `json:"is_anonymous"`
	IsMine         bool        `json:"is_mine"`
	CreatedAt      time.Time   `json:"created_at"`
	ViewCount      int64       `json:"view_count"`
}

// Comment on a broadcast. Comments are not anonymous; nesting is expressed
// through ParentCommentId.
type Comment struct {
	Id              CommentId
	BroadcastId     BroadcastId
	UserId          UserId
	Username        Username
	ParentCommentId *CommentId
	Content         string
	CreatedAt       time.Time
	DeletedAt       *time.Time
	Reactions       ReactionCounts
}

type CommentView struct {
	Id              CommentId      `json:"id"`
	BroadcastId     BroadcastId    `json:"broadcast_id"`
	UserId          UserId         `json:"user_id"`
	Username        Username       `json:"username"`
	ParentCommentId *CommentId     `json:"parent_comment_id,omitempty"`
	Content         string         `json:"content"`
	ContentHtml     string         `json:"content_html"`
	CreatedAt       time.Time      `json:"created_at"`
	Reactions       ReactionCounts `json:"reactions,omitempty"`
}
