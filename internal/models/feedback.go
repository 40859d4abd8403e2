package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is an anonymous feedback entry. The IP is kept for abuse triage,
// not tied to an account.
type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	Feedback  string             `bson:"feedback" json:"feedback"`
	IPAddress string             `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
}
