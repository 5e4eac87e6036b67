package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a chat thread with the council. It may be scoped to a
// company, or float free for a user exploring without one selected.
type Conversation struct {
	ConversationID uuid.UUID
	CompanyID      *uuid.UUID
	Title          string
	Starred        bool
	Archived       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Message is one turn in a conversation. Messages are append-only:
// clients can add them but never edit or remove them.
type Message struct {
	MessageID      uuid.UUID
	ConversationID uuid.UUID
	Author         string // "user" or a model identifier
	Content        string
	CreatedAt      time.Time
}

// ConversationWithMessages is the detail view of a conversation,
// messages in creation order.
type ConversationWithMessages struct {
	Conversation
	Messages []Message
}
