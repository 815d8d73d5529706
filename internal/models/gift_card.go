package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GiftCard codes are generated server-side and unique.
type GiftCard struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Code      string              `bson:"code" json:"code"`
	Balance   float64             `bson:"balance" json:"balance"`
	IssuedTo  *primitive.ObjectID `bson:"issuedTo,omitempty" json:"issuedTo,omitempty"`
	IsActive  bool                `bson:"isActive" json:"isActive"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
