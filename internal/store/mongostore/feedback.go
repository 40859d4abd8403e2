package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store"
)

func (s *Store) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	_, err := s.db.Collection(feedbackCollection).InsertOne(ctx, f)
	return err
}

// ListFeedback returns all feedback entries, newest first.
func (s *Store) ListFeedback(ctx context.Context) ([]*models.Feedback, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cur, err := s.db.Collection(feedbackCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []*models.Feedback
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) DeleteFeedback(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}

	res, err := s.db.Collection(feedbackCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
