package uid

import "github.com/google/uuid"

// UUID hands out time-ordered (version 7) UUID strings. They serve as JWT IDs
// and as correlation IDs when a caller sends none.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}

	// random v4
	return uuid.NewString()
}
