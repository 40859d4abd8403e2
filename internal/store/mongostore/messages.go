// Package mongostore implements the message and feedback stores on MongoDB.
// Messages live in a flat collection, one document per message, so the
// per-user merged view is a single indexed $or query.
package mongostore

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store"
)

const (
	messagesCollection = "messages"
	feedbackCollection = "feedbacks"
)

// Store wraps the Mongo database handle.
type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

type messageDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	SentAt             primitive.DateTime `bson:"sent_at"`
	SenderID           string             `bson:"sender_id"`
	RecipientID        string             `bson:"recipient_id"`
	Content            string             `bson:"content"`
	Read               bool               `bson:"read"`
	HiddenForSender    bool               `bson:"hidden_for_sender"`
	HiddenForRecipient bool               `bson:"hidden_for_recipient"`
}

func (d *messageDoc) toModel() (*models.Message, error) {
	senderID, err := uuid.Parse(d.SenderID)
	if err != nil {
		return nil, err
	}
	recipientID, err := uuid.Parse(d.RecipientID)
	if err != nil {
		return nil, err
	}
	return &models.Message{
		ID:                 d.ID.Hex(),
		SentAt:             d.SentAt.Time().UTC(),
		SenderID:           senderID,
		RecipientID:        recipientID,
		Content:            d.Content,
		Read:               d.Read,
		HiddenForSender:    d.HiddenForSender,
		HiddenForRecipient: d.HiddenForRecipient,
	}, nil
}

// EnsureIndexes configures the message collection indexes. Called on startup
// from main after Mongo has connected.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	col := s.db.Collection(messagesCollection)

	// One compound index per direction so the $or merge stays indexed.
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "sender_id", Value: 1},
				{Key: "sent_at", Value: 1},
			},
			Options: options.Index().SetName("idx_sender_sent_at"),
		},
		{
			Keys: bson.D{
				{Key: "recipient_id", Value: 1},
				{Key: "sent_at", Value: 1},
			},
			Options: options.Index().SetName("idx_recipient_sent_at"),
		},
	}

	for _, m := range indexes {
		if _, err := col.Indexes().CreateOne(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// CreateMessage inserts the message and writes the assigned id back.
func (s *Store) CreateMessage(ctx context.Context, m *models.Message) error {
	doc := messageDoc{
		ID:          primitive.NewObjectID(),
		SentAt:      primitive.NewDateTimeFromTime(m.SentAt),
		SenderID:    m.SenderID.String(),
		RecipientID: m.RecipientID.String(),
		Content:     m.Content,
	}

	if _, err := s.db.Collection(messagesCollection).InsertOne(ctx, doc); err != nil {
		return err
	}
	m.ID = doc.ID.Hex()
	return nil
}

func (s *Store) MessageByID(ctx context.Context, id string) (*models.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	var doc messageDoc
	err = s.db.Collection(messagesCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel()
}

// MessagesForUser returns every message where the user is sender or
// recipient, oldest first. Hidden rows are included; filtering by party is
// the ledger's job.
func (s *Store) MessagesForUser(ctx context.Context, userID uuid.UUID) ([]*models.Message, error) {
	id := userID.String()
	filter := bson.M{
		"$or": bson.A{
			bson.M{"sender_id": id},
			bson.M{"recipient_id": id},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.db.Collection(messagesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []*models.Message
	for cur.Next(ctx) {
		var doc messageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		m, err := doc.toModel()
		if err != nil {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, cur.Err()
}

// UpdateMessage persists the mutable flags (read, per-party hidden).
func (s *Store) UpdateMessage(ctx context.Context, m *models.Message) error {
	oid, err := primitive.ObjectIDFromHex(m.ID)
	if err != nil {
		return store.ErrNotFound
	}

	res, err := s.db.Collection(messagesCollection).UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{
			"read":                 m.Read,
			"hidden_for_sender":    m.HiddenForSender,
			"hidden_for_recipient": m.HiddenForRecipient,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}

	res, err := s.db.Collection(messagesCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
