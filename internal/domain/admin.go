package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash,omitempty"`
	// LegacyPassword is the plaintext field older records still carry.
	// It is only read by the rehash tool and never used to log in.
	LegacyPassword string `bson:"password,omitempty"`
}
