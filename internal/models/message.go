package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageDirection is sent or received, relative to the querying user.
type MessageDirection string

const (
	DirectionSent     MessageDirection = "sent"
	DirectionReceived MessageDirection = "received"
)

// Message is one directed message between two users. Read state is a
// recipient-side flag; "deleting" a message hides it for the requesting party
// only, and the row is removed for real once both parties have hidden it.
type Message struct {
	ID     string    `json:"id"` // hex, assigned by the store
	SentAt time.Time `json:"timestamp"`

	SenderID    uuid.UUID `json:"-"`
	RecipientID uuid.UUID `json:"-"`
	Content     string    `json:"content"`

	Read               bool `json:"read"`
	HiddenForSender    bool `json:"-"`
	HiddenForRecipient bool `json:"-"`
}

// HiddenFor reports whether the given party has hidden the message.
func (m *Message) HiddenFor(userID uuid.UUID) bool {
	if userID == m.SenderID {
		return m.HiddenForSender
	}
	return m.HiddenForRecipient
}

// MessageView is one entry of a user's merged inbox+outbox listing.
type MessageView struct {
	ID           string           `json:"id"`
	Content      string           `json:"content"`
	Timestamp    time.Time        `json:"timestamp"`
	Read         bool             `json:"read"`
	Direction    MessageDirection `json:"direction"`
	Counterparty string           `json:"counterparty"`
}
