package id

import "github.com/google/uuid"

// GenerateID creates a unique identifier for a quiz session.
func GenerateID() string {
	return uuid.NewString()
}
