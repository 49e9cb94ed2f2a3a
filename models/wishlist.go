package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WishlistItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	PropertyID primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
