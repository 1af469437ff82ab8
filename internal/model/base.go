package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns a fresh identifier in ObjectID hex form. Users, classes and
// the students/lessons embedded in a class all use it, so both storage
// drivers address records the same way.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsID reports whether s has the shape of an identifier produced by NewID
func IsID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

// BaseModel audit timestamps
type BaseModel struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch stamps UpdatedAt, and CreatedAt on first save
func (b *BaseModel) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
