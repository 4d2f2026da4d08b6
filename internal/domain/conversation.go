package domain

import "github.com/google/uuid"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one prior message supplied by the chat layer. The core
// reads it to resolve follow-up queries; it never mutates or stores turns.
type ConversationTurn struct {
	Role     string        `json:"role"`
	Content  string        `json:"content"`
	Metadata *TurnMetadata `json:"metadata,omitempty"`
}

// TurnMetadata carries the sources an assistant turn cited, used to keep
// follow-up questions anchored to the documents already in play.
type TurnMetadata struct {
	Sources []CitedSource `json:"sources,omitempty"`
}

type CitedSource struct {
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename,omitempty"`
}
