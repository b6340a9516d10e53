package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// IsValidID reports whether s is a canonical ObjectID: it must parse and
// its hex form must equal s byte for byte.
func IsValidID(s string) bool {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return false
	}
	return oid.Hex() == s
}

// ParseID returns the ObjectID for s or ErrInvalidID.
func ParseID(s string) (primitive.ObjectID, error) {
	if !IsValidID(s) {
		return primitive.NilObjectID, ErrInvalidID
	}
	oid, _ := primitive.ObjectIDFromHex(s)
	return oid, nil
}
