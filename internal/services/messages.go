package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store"
)

// Notifier pushes a new-message event towards the recipient's open
// connections. Delivery is best effort.
type Notifier interface {
	NotifyMessage(ctx context.Context, recipientID uuid.UUID, view models.MessageView)
}

// MessageService owns direct messages and the per-user merged view.
type MessageService struct {
	messages store.MessageStore
	users    store.UserStore
	notify   Notifier // may be nil
}

func NewMessageService(messages store.MessageStore, users store.UserStore, notify Notifier) *MessageService {
	return &MessageService{messages: messages, users: users, notify: notify}
}

// Send delivers a message from the sender to the user behind
// recipientUsername.
func (s *MessageService) Send(ctx context.Context, senderID uuid.UUID, recipientUsername, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("Message content is required")
	}

	sender, err := s.users.UserByID(ctx, senderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Sender not found")
	}
	if err != nil {
		return nil, apperr.Storage("Failed to look up sender", err)
	}

	recipient, err := s.users.UserByUsername(ctx, recipientUsername)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Recipient not found")
	}
	if err != nil {
		return nil, apperr.Storage("Failed to look up recipient", err)
	}

	if sender.ID == recipient.ID {
		return nil, apperr.Validation("You cannot send a message to yourself")
	}

	m := &models.Message{
		SentAt:      time.Now().UTC(),
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Content:     content,
	}
	if err := s.messages.CreateMessage(ctx, m); err != nil {
		return nil, apperr.Storage("Failed to send message", err)
	}

	if s.notify != nil {
		s.notify.NotifyMessage(ctx, recipient.ID, models.MessageView{
			ID:           m.ID,
			Content:      m.Content,
			Timestamp:    m.SentAt,
			Direction:    models.DirectionReceived,
			Counterparty: sender.Username,
		})
	}
	return m, nil
}

// ListForUser merges the user's sent and received messages into one view,
// oldest first (message id breaks timestamp ties). Rows the user has hidden
// are left out; the other party still sees theirs.
func (s *MessageService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.MessageView, error) {
	msgs, err := s.messages.MessagesForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("Failed to list messages", err)
	}

	counterpartyIDs := make([]uuid.UUID, 0, len(msgs))
	for _, m := range msgs {
		if m.SenderID == userID {
			counterpartyIDs = append(counterpartyIDs, m.RecipientID)
		} else {
			counterpartyIDs = append(counterpartyIDs, m.SenderID)
		}
	}
	usersByID, err := s.users.UsersByIDs(ctx, counterpartyIDs)
	if err != nil {
		return nil, apperr.Storage("Failed to resolve usernames", err)
	}

	views := make([]models.MessageView, 0, len(msgs))
	for _, m := range msgs {
		if m.HiddenFor(userID) {
			continue
		}

		direction := models.DirectionReceived
		counterpartyID := m.SenderID
		if m.SenderID == userID {
			direction = models.DirectionSent
			counterpartyID = m.RecipientID
		}

		counterparty := "unknown"
		if u, ok := usersByID[counterpartyID]; ok {
			counterparty = u.Username
		}

		views = append(views, models.MessageView{
			ID:           m.ID,
			Content:      m.Content,
			Timestamp:    m.SentAt,
			Read:         m.Read,
			Direction:    direction,
			Counterparty: counterparty,
		})
	}
	return views, nil
}

// MarkRead sets the recipient-side read flag. Only the recipient may mark.
func (s *MessageService) MarkRead(ctx context.Context, messageID string, requesterID uuid.UUID) error {
	m, err := s.resolveMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if m.RecipientID != requesterID {
		return apperr.Forbidden("Only the recipient can mark a message read")
	}
	if m.Read {
		return nil
	}
	m.Read = true
	if err := s.messages.UpdateMessage(ctx, m); err != nil {
		return apperr.Storage("Failed to update message", err)
	}
	return nil
}

// Delete hides the message for the requesting party. The row is removed
// for real only once both parties have deleted it.
func (s *MessageService) Delete(ctx context.Context, messageID string, requesterID uuid.UUID) error {
	m, err := s.resolveMessage(ctx, messageID)
	if err != nil {
		return err
	}

	switch requesterID {
	case m.SenderID:
		m.HiddenForSender = true
	case m.RecipientID:
		m.HiddenForRecipient = true
	default:
		return apperr.Forbidden("You are not a party of this message")
	}

	if m.HiddenForSender && m.HiddenForRecipient {
		if err := s.messages.DeleteMessage(ctx, m.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return apperr.Storage("Failed to delete message", err)
		}
		return nil
	}
	if err := s.messages.UpdateMessage(ctx, m); err != nil {
		return apperr.Storage("Failed to update message", err)
	}
	return nil
}

func (s *MessageService) resolveMessage(ctx context.Context, id string) (*models.Message, error) {
	m, err := s.messages.MessageByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Message not found")
	}
	if err != nil {
		return nil, apperr.Storage("Failed to look up message", err)
	}
	return m, nil
}
