package domain

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseID converts a hex identifier from a URL into an ObjectID
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, hex)
	}
	return id, nil
}
