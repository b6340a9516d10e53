package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Testimonial struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	VideoURL  string             `bson:"video_url" json:"video_url"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
